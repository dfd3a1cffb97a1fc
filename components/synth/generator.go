package synth

import (
	"math"
	"sync"
	"time"
)

const (
	dashboardBaseRevenue = 2_400_000
	chartBaseRevenue     = 2_000_000
	dailyBaseUsers       = 12000
	productPoolSize      = 100
	userPoolSize         = 1000
	targetFactor         = 1.15
)

// ActivityCell is one hour of the dashboard activity heatmap.
type ActivityCell struct {
	Day      int    `json:"day"`
	Hour     int    `json:"hour"`
	Activity int    `json:"activity"`
	Date     string `json:"date"`
	DayName  string `json:"dayName"`
}

// CorrelationPoint pairs ad spend with sales for scatter plots.
type CorrelationPoint struct {
	Advertising float64 `json:"advertising"`
	Sales       float64 `json:"sales"`
	Sessions    float64 `json:"sessions"`
	Date        string  `json:"date"`
}

// StateMetrics is a fixed regional sales figure.
type StateMetrics struct {
	Name  string  `json:"name"`
	Code  string  `json:"code"`
	Sales float64 `json:"sales"`
	Users int     `json:"users"`
}

// CohortCell is one period of a triangular cohort table.
type CohortCell struct {
	Period    int     `json:"period"`
	Retention float64 `json:"retention"`
	Users     float64 `json:"users"`
}

// CohortTriangle is a cohort whose later periods have not happened yet.
type CohortTriangle struct {
	Cohort string       `json:"cohort"`
	Size   int          `json:"size"`
	Data   []CohortCell `json:"data"`
}

// Overview carries site traffic series.
type Overview struct {
	PageViews          []float64 `json:"pageViews"`
	Sessions           []float64 `json:"sessions"`
	BounceRate         []float64 `json:"bounceRate"`
	AvgSessionDuration []float64 `json:"avgSessionDuration"`
}

var states = []StateMetrics{
	{Name: "São Paulo", Code: "SP", Sales: 2847392, Users: 12543},
	{Name: "Rio de Janeiro", Code: "RJ", Sales: 1456789, Users: 8932},
	{Name: "Minas Gerais", Code: "MG", Sales: 987654, Users: 6543},
	{Name: "Rio Grande do Sul", Code: "RS", Sales: 765432, Users: 4987},
	{Name: "Paraná", Code: "PR", Sales: 654321, Users: 3654},
	{Name: "Santa Catarina", Code: "SC", Sales: 543210, Users: 2987},
	{Name: "Bahia", Code: "BA", Sales: 432109, Users: 2543},
	{Name: "Goiás", Code: "GO", Sales: 321098, Users: 1987},
	{Name: "Pernambuco", Code: "PE", Sales: 210987, Users: 1543},
	{Name: "Ceará", Code: "CE", Sales: 198765, Users: 1234},
}

// Generator produces the dashboard's synthetic datasets from one shared
// sequence. Each call advances the sequence, so two generators with the same
// seed agree only when called in the same order.
type Generator struct {
	mu  sync.Mutex
	rng *Random
	now Clock
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithClock fixes the reference time used for date labels.
func WithClock(clock Clock) GeneratorOption {
	return func(g *Generator) {
		if clock != nil {
			g.now = clock
		}
	}
}

// NewGenerator seeds a dashboard generator.
func NewGenerator(seed int64, opts ...GeneratorOption) *Generator {
	g := &Generator{rng: NewRandom(seed), now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// DashboardKPIs compares the last two months of a fresh metrics bundle.
func (g *Generator) DashboardKPIs(string) KPIBundle {
	g.mu.Lock()
	defer g.mu.Unlock()
	return KPIsFromMetrics(BusinessMetrics(g.rng, dashboardBaseRevenue, 12))
}

// RevenueChart returns revenue and a target line 15% above it. Period "12m"
// spans 12 months, anything else 6.
func (g *Generator) RevenueChart(period string) ChartData {
	g.mu.Lock()
	defer g.mu.Unlock()

	months := 6
	if period == "12m" {
		months = 12
	}
	metrics := BusinessMetrics(g.rng, chartBaseRevenue, months)
	target := make([]float64, len(metrics.Revenue))
	for i, v := range metrics.Revenue {
		target[i] = v * targetFactor
	}
	return ChartData{
		Labels: LastNMonths(g.now(), months),
		Datasets: []Dataset{
			{Label: "Revenue", Data: metrics.Revenue, Colors: []string{"#3b82f6"}, Fill: true},
			{Label: "Target", Data: target, Colors: []string{"#10b981"}, Dashed: true},
		},
	}
}

// CategoryChart returns jittered sales shares per category.
func (g *Generator) CategoryChart() ChartData {
	g.mu.Lock()
	defer g.mu.Unlock()
	return sharesChart("Sales by Category", CategoryShares(g.rng))
}

// TrafficChart returns jittered traffic shares per channel.
func (g *Generator) TrafficChart() ChartData {
	g.mu.Lock()
	defer g.mu.Unlock()
	return sharesChart("Traffic Sources", TrafficChannels(g.rng))
}

// DailyActiveUsers weights a base audience by weekday with ±15% noise.
func (g *Generator) DailyActiveUsers(days int) ChartData {
	g.mu.Lock()
	defer g.mu.Unlock()

	dates := LastNDays(g.now(), days)
	data := make([]float64, len(dates))
	for i, d := range dates {
		data[i] = math.Round(dailyBaseUsers * DayOfWeekMultiplier(d) * g.rng.FloatRange(0.85, 1.15))
	}
	return ChartData{
		Labels:   dateLabels(dates),
		Datasets: []Dataset{{Label: "Active Users", Data: data, Colors: []string{"#10b981"}, Fill: true}},
	}
}

// TopProducts returns the highest-revenue rows of a fresh product pool.
func (g *Generator) TopProducts(n int) []ProductRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	return limit(Products(g.rng, productPoolSize), n)
}

// RecentUsers returns the most recently registered rows of a fresh user pool.
func (g *Generator) RecentUsers(n int) []UserRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	return limit(SortByRegistration(Users(g.rng, userPoolSize)), n)
}

// ActivityHeatmap follows a sinusoidal day curve, boosted on weekdays.
// Period "30d" covers 30 days, anything else 7.
func (g *Generator) ActivityHeatmap(period string) []ActivityCell {
	g.mu.Lock()
	defer g.mu.Unlock()

	days := 7
	if period == "30d" {
		days = 30
	}
	dates := LastNDays(g.now(), days)
	out := make([]ActivityCell, 0, days*24)
	for day := range days {
		multiplier := 0.7
		if day%7 < 5 {
			multiplier = 1.2
		}
		for hour := range 24 {
			base := math.Sin(float64(hour-12)*math.Pi/12)*0.5 + 0.5
			activity := math.Max(0, base*multiplier*g.rng.FloatRange(0.7, 1.3))
			out = append(out, ActivityCell{
				Day:      day,
				Hour:     hour,
				Activity: int(math.Round(activity * 100)),
				Date:     dates[day].Format(time.DateOnly),
				DayName:  weekdayNames[day%7],
			})
		}
	}
	return out
}

// ConversionFunnel returns the fixed storefront funnel.
func (g *Generator) ConversionFunnel() []FunnelStage {
	return []FunnelStage{
		{Name: "Visitors", Count: 10000, Percentage: 100},
		{Name: "Product Views", Count: 4500, Percentage: 45},
		{Name: "Added to Cart", Count: 1800, Percentage: 18},
		{Name: "Checkout Started", Count: 900, Percentage: 9},
		{Name: "Purchase Completed", Count: 320, Percentage: 3.2},
	}
}

// Correlation returns 50 points where sales scale with advertising.
func (g *Generator) Correlation() []CorrelationPoint {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	out := make([]CorrelationPoint, 50)
	for i := range out {
		advertising := g.rng.FloatRange(1000, 10000)
		g.rng.FloatRange(5000, 50000) // initial sales draw, discarded; Sales is set in the second pass
		sessions := g.rng.FloatRange(100, 1000)
		date := now.AddDate(0, 0, -g.rng.Int(0, 365))
		out[i] = CorrelationPoint{
			Advertising: advertising,
			Sessions:    sessions,
			Date:        date.Format(time.DateOnly),
		}
	}
	for i := range out {
		out[i].Sales = out[i].Advertising*g.rng.FloatRange(3, 7) + g.rng.FloatRange(-5000, 5000)
	}
	return out
}

// GeographicStates returns the fixed regional table.
func (g *Generator) GeographicStates() []StateMetrics {
	return append([]StateMetrics(nil), states...)
}

// CohortAnalysis returns a triangular retention table: later cohorts have
// fewer observed periods. Retention decays 15 points per period and 2 per
// cohort, floored at 10%.
func (g *Generator) CohortAnalysis() []CohortTriangle {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]CohortTriangle, 0, len(cohortMonths))
	for idx, month := range cohortMonths {
		size := 1000 - idx*50
		cells := make([]CohortCell, 0, 6-idx)
		for period := 0; period <= 5-idx; period++ {
			retention := math.Max(0.1, 1-float64(period)*0.15-float64(idx)*0.02+g.rng.FloatRange(-0.1, 0.1))
			cells = append(cells, CohortCell{
				Period:    period,
				Retention: math.Round(retention * 100),
				Users:     math.Round(float64(size) * retention),
			})
		}
		out = append(out, CohortTriangle{Cohort: month, Size: size, Data: cells})
	}
	return out
}

// AnalyticsOverview returns twelve months of traffic metrics.
func (g *Generator) AnalyticsOverview() Overview {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := Overview{
		PageViews:          GenerateTrend(g.rng, 1_500_000, 3.2, 50000, 12),
		Sessions:           GenerateTrend(g.rng, 450000, 2.8, 15000, 12),
		BounceRate:         make([]float64, 12),
		AvgSessionDuration: make([]float64, 12),
	}
	for i := range out.BounceRate {
		out.BounceRate[i] = round1(g.rng.FloatRange(35, 65))
	}
	for i := range out.AvgSessionDuration {
		out.AvgSessionDuration[i] = math.Round(g.rng.FloatRange(180, 420))
	}
	return out
}
