package synth

import (
	"math"
	"slices"
	"sync"
	"time"
)

// MonthlyData is the historical base bundle with month labels.
type MonthlyData struct {
	Months []string `json:"months"`
	Metrics
}

// Clone returns a deep copy of d.
func (d MonthlyData) Clone() MonthlyData {
	return MonthlyData{Months: slices.Clone(d.Months), Metrics: d.Metrics.Clone()}
}

// DailyData holds per-day series derived from the latest month.
type DailyData struct {
	Dates          []string  `json:"dates"`
	Revenue        []float64 `json:"revenue"`
	Orders         []float64 `json:"orders"`
	Users          []float64 `json:"users"`
	ConversionRate []float64 `json:"conversionRate"`
}

// PeriodSeries is a reduced bundle used for prior-year comparisons.
type PeriodSeries struct {
	Months  []string  `json:"months"`
	Revenue []float64 `json:"revenue"`
	Orders  []float64 `json:"orders"`
	Users   []float64 `json:"users"`
}

// YearOverYear compares the base year with a scaled prior year.
type YearOverYear struct {
	Current  MonthlyData       `json:"current"`
	Previous PeriodSeries      `json:"previous"`
	Growth   map[string]string `json:"growth"`
}

// QuarterlyData sums the monthly series into quarters.
type QuarterlyData struct {
	Quarters     []string  `json:"quarters"`
	Revenue      []float64 `json:"revenue"`
	Orders       []float64 `json:"orders"`
	AverageOrder []float64 `json:"averageOrder"`
}

// CohortRow describes retention percentages for one acquisition month.
type CohortRow struct {
	Label     string    `json:"cohort"`
	Size      int       `json:"users"`
	Retention []float64 `json:"retention"`
}

// CityMetrics is a geographic data point.
type CityMetrics struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Users   int     `json:"users"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// FunnelStage is one step of a conversion funnel.
type FunnelStage struct {
	Name       string  `json:"name"`
	Count      float64 `json:"count"`
	Percentage float64 `json:"percentage"`
}

// HeatmapCell is activity for a weekday/hour pair.
type HeatmapCell struct {
	Day   int `json:"day"`
	Hour  int `json:"hour"`
	Value int `json:"value"`
}

// Heatmap is a 7x24 activity grid.
type Heatmap struct {
	Days  []string      `json:"days"`
	Hours []int         `json:"hours"`
	Data  []HeatmapCell `json:"data"`
}

var (
	cohortMonths = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}
	weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	cities       = []CityMetrics{
		{Name: "São Paulo", Lat: -23.5505, Lng: -46.6333},
		{Name: "Rio de Janeiro", Lat: -22.9068, Lng: -43.1729},
		{Name: "Belo Horizonte", Lat: -19.9167, Lng: -43.9345},
		{Name: "Salvador", Lat: -12.9714, Lng: -38.5014},
		{Name: "Brasília", Lat: -15.8267, Lng: -47.9218},
		{Name: "Fortaleza", Lat: -3.7172, Lng: -38.5434},
		{Name: "Recife", Lat: -8.0476, Lng: -34.8770},
		{Name: "Porto Alegre", Lat: -30.0346, Lng: -51.2177},
	}
)

const (
	historicalBaseRevenue = 2_400_000
	funnelVisitors        = 125000
	priorYearFactor       = 0.85
)

// Historical serves long-range reports from one base year generated at
// construction. Later calls keep drawing from the same sequence, so results
// depend on call order.
type Historical struct {
	mu    sync.Mutex
	rng   *Random
	now   Clock
	base  MonthlyData
	built time.Time
}

// HistoricalOption configures a Historical generator.
type HistoricalOption func(*historicalConfig)

type historicalConfig struct {
	seed  int64
	clock Clock
}

// WithHistoricalSeed overrides HistoricalSeed.
func WithHistoricalSeed(seed int64) HistoricalOption {
	return func(c *historicalConfig) { c.seed = seed }
}

// WithHistoricalClock fixes the reference time for labels.
func WithHistoricalClock(clock Clock) HistoricalOption {
	return func(c *historicalConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// NewHistorical builds the generator and its base year.
func NewHistorical(opts ...HistoricalOption) *Historical {
	cfg := historicalConfig{seed: HistoricalSeed, clock: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	h := &Historical{rng: NewRandom(cfg.seed), now: cfg.clock}
	h.built = h.now()
	h.base = MonthlyData{
		Months:  LastNMonths(h.built, 12),
		Metrics: BusinessMetrics(h.rng, historicalBaseRevenue, 12),
	}
	return h
}

// Monthly returns a copy of the base year.
func (h *Historical) Monthly() MonthlyData {
	return h.base.Clone()
}

// Daily spreads the latest month's revenue across days, weighted by weekday.
func (h *Historical) Daily(days int) DailyData {
	h.mu.Lock()
	defer h.mu.Unlock()

	dates := LastNDays(h.now(), days)
	base := 0.0
	if n := len(h.base.Revenue); n > 0 {
		base = h.base.Revenue[n-1] / 30
	}
	out := DailyData{
		Dates:          dateLabels(dates),
		Revenue:        make([]float64, len(dates)),
		Orders:         make([]float64, len(dates)),
		Users:          make([]float64, len(dates)),
		ConversionRate: make([]float64, len(dates)),
	}
	for i, d := range dates {
		out.Revenue[i] = math.Round(base * DayOfWeekMultiplier(d) * h.rng.FloatRange(0.7, 1.4))
	}
	for i, rev := range out.Revenue {
		out.Orders[i] = math.Round(rev / h.rng.FloatRange(140, 170))
	}
	for i, orders := range out.Orders {
		out.Users[i] = math.Round(orders * h.rng.FloatRange(2.5, 4.0))
	}
	for i := range out.ConversionRate {
		out.ConversionRate[i] = round2(h.rng.FloatRange(2.5, 4.2))
	}
	return out
}

// YearOverYear synthesizes the prior year as 85% of the base year with ±10%
// jitter per month.
func (h *Historical) YearOverYear() YearOverYear {
	h.mu.Lock()
	defer h.mu.Unlock()

	prior := PeriodSeries{
		Months:  slices.Clone(h.base.Months),
		Revenue: h.scaleSeries(h.base.Revenue),
		Orders:  h.scaleSeries(h.base.Orders),
		Users:   h.scaleSeries(h.base.Users),
	}
	return YearOverYear{
		Current:  h.base.Clone(),
		Previous: prior,
		Growth: map[string]string{
			"revenue": formatChange(sum(h.base.Revenue), sum(prior.Revenue)),
			"orders":  formatChange(sum(h.base.Orders), sum(prior.Orders)),
			"users":   formatChange(sum(h.base.Users), sum(prior.Users)),
		},
	}
}

func (h *Historical) scaleSeries(series []float64) []float64 {
	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = math.Round(v * priorYearFactor * h.rng.FloatRange(0.9, 1.1))
	}
	return out
}

// Quarterly sums consecutive three-month windows of the base year.
func (h *Historical) Quarterly() QuarterlyData {
	out := QuarterlyData{
		Quarters:     QuarterLabels(h.built),
		Revenue:      make([]float64, 4),
		Orders:       make([]float64, 4),
		AverageOrder: make([]float64, 4),
	}
	for q := range 4 {
		lo, hi := q*3, min(q*3+3, h.base.Len())
		if lo >= hi {
			continue
		}
		out.Revenue[q] = sum(h.base.Revenue[lo:hi])
		out.Orders[q] = sum(h.base.Orders[lo:hi])
		out.AverageOrder[q] = round2(safeDiv(out.Revenue[q], out.Orders[q]))
	}
	return out
}

// Cohorts returns six monthly cohorts tracked over six periods. Retention
// starts at 100 and decays about 12 points per period, floored at 10.
func (h *Historical) Cohorts() []CohortRow {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]CohortRow, 0, len(cohortMonths))
	for _, month := range cohortMonths {
		size := h.rng.Int(800, 1200)
		retention := make([]float64, 6)
		for period := range retention {
			if period == 0 {
				retention[period] = 100
				continue
			}
			base := 65 - float64(period)*12
			retention[period] = round1(math.Max(10, base+h.rng.FloatRange(-8, 8)))
		}
		out = append(out, CohortRow{Label: month, Size: size, Retention: retention})
	}
	return out
}

// Geographic attaches randomized volume to a fixed city list.
func (h *Historical) Geographic() []CityMetrics {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]CityMetrics, len(cities))
	for i, city := range cities {
		city.Users = h.rng.Int(2000, 15000)
		city.Revenue = h.rng.FloatRange(180000, 800000)
		city.Orders = h.rng.Int(1200, 6000)
		out[i] = city
	}
	return out
}

// Funnel returns a fixed five-stage funnel over 125000 visitors.
func (h *Historical) Funnel() []FunnelStage {
	stages := []struct {
		name string
		rate float64
	}{
		{"Visitors", 100},
		{"Product Views", 45},
		{"Add to Cart", 12},
		{"Checkout Started", 8},
		{"Purchase Completed", 3.5},
	}
	out := make([]FunnelStage, len(stages))
	for i, s := range stages {
		out[i] = FunnelStage{
			Name:       s.name,
			Count:      math.Round(funnelVisitors * s.rate / 100),
			Percentage: s.rate,
		}
	}
	return out
}

// Heatmap fills a weekday by hour grid. Weekends stay low, weekday office
// hours run hottest and weekday evenings sit in between.
func (h *Historical) Heatmap() Heatmap {
	h.mu.Lock()
	defer h.mu.Unlock()

	hours := make([]int, 24)
	for i := range hours {
		hours[i] = i
	}
	data := make([]HeatmapCell, 0, len(weekdayNames)*len(hours))
	for day := range weekdayNames {
		for _, hour := range hours {
			var value int
			switch {
			case day == 0 || day == 6:
				value = h.rng.Int(20, 60)
			case hour >= 9 && hour <= 17:
				value = h.rng.Int(70, 100)
			case hour >= 19 && hour <= 22:
				value = h.rng.Int(60, 85)
			default:
				value = h.rng.Int(15, 45)
			}
			data = append(data, HeatmapCell{Day: day, Hour: hour, Value: value})
		}
	}
	return Heatmap{Days: append([]string(nil), weekdayNames...), Hours: hours, Data: data}
}
