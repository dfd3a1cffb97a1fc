package mockapi

import (
	"context"

	"github.com/goliatone/go-demodata/components/synth"
)

// Endpoint keys served by SyntheticHandlers and WriteHandlers.
const (
	EndpointDashboardKPIs    = "/api/dashboard/kpis"
	EndpointRevenueChart     = "/api/charts/revenue"
	EndpointCategoryChart    = "/api/charts/categories"
	EndpointTrafficChart     = "/api/charts/traffic"
	EndpointDailyUsers       = "/api/charts/daily-users"
	EndpointActivityChart    = "/api/charts/heatmap"
	EndpointCorrelation      = "/api/charts/correlation"
	EndpointTopProducts      = "/api/products/top"
	EndpointRecentUsers      = "/api/users/recent"
	EndpointOverview         = "/api/analytics/overview"
	EndpointStoreFunnel      = "/api/analytics/funnel"
	EndpointStoreCohorts     = "/api/analytics/cohorts"
	EndpointStates           = "/api/analytics/geographic"
	EndpointMonthly          = "/api/historical/monthly"
	EndpointDaily            = "/api/historical/daily"
	EndpointYearOverYear     = "/api/historical/yoy"
	EndpointQuarterly        = "/api/historical/quarterly"
	EndpointHistoricalCohort = "/api/historical/cohort"
	EndpointCohortAnalysis   = "/api/cohort/analysis"
	EndpointGeographic       = "/api/geographic/data"
	EndpointFunnel           = "/api/funnel/conversion"
	EndpointHeatmap          = "/api/heatmap/activity"
	EndpointSettingsUpdate   = "/api/settings/update"
	EndpointExportReport     = "/api/export/report"
)

const (
	defaultTopProductsLimit    = 10
	defaultRecentUsersLimit    = 20
	defaultDailyUsersDays      = 30
	defaultHistoricalDailyDays = 90
)

// Upper bounds on the day ranges a caller may request. Larger values are
// clamped.
const (
	MaxDailyUsersDays      = 365
	MaxHistoricalDailyDays = 730
)

// SyntheticHandlers maps every synthetic endpoint onto gen and hist.
func SyntheticHandlers(gen *synth.Generator, hist *synth.Historical) map[string]Handler {
	cohorts := func(context.Context, Params) (any, error) { return hist.Cohorts(), nil }
	return map[string]Handler{
		EndpointDashboardKPIs: func(_ context.Context, p Params) (any, error) {
			return gen.DashboardKPIs(p.String("period", "30d")), nil
		},
		EndpointRevenueChart: func(_ context.Context, p Params) (any, error) {
			return gen.RevenueChart(p.String("period", "12m")), nil
		},
		EndpointCategoryChart: func(context.Context, Params) (any, error) {
			return gen.CategoryChart(), nil
		},
		EndpointTrafficChart: func(context.Context, Params) (any, error) {
			return gen.TrafficChart(), nil
		},
		EndpointDailyUsers: func(_ context.Context, p Params) (any, error) {
			return gen.DailyActiveUsers(p.IntAtMost("days", defaultDailyUsersDays, MaxDailyUsersDays)), nil
		},
		EndpointActivityChart: func(_ context.Context, p Params) (any, error) {
			return gen.ActivityHeatmap(p.String("period", "7d")), nil
		},
		EndpointCorrelation: func(context.Context, Params) (any, error) {
			return gen.Correlation(), nil
		},
		EndpointTopProducts: func(_ context.Context, p Params) (any, error) {
			return gen.TopProducts(p.Int("limit", defaultTopProductsLimit)), nil
		},
		EndpointRecentUsers: func(_ context.Context, p Params) (any, error) {
			return gen.RecentUsers(p.Int("limit", defaultRecentUsersLimit)), nil
		},
		EndpointOverview: func(context.Context, Params) (any, error) {
			return gen.AnalyticsOverview(), nil
		},
		EndpointStoreFunnel: func(context.Context, Params) (any, error) {
			return gen.ConversionFunnel(), nil
		},
		EndpointStoreCohorts: func(context.Context, Params) (any, error) {
			return gen.CohortAnalysis(), nil
		},
		EndpointStates: func(context.Context, Params) (any, error) {
			return gen.GeographicStates(), nil
		},
		EndpointMonthly: func(context.Context, Params) (any, error) {
			return hist.Monthly(), nil
		},
		EndpointDaily: func(_ context.Context, p Params) (any, error) {
			return hist.Daily(p.IntAtMost("days", defaultHistoricalDailyDays, MaxHistoricalDailyDays)), nil
		},
		EndpointYearOverYear: func(context.Context, Params) (any, error) {
			return hist.YearOverYear(), nil
		},
		EndpointQuarterly: func(context.Context, Params) (any, error) {
			return hist.Quarterly(), nil
		},
		EndpointHistoricalCohort: cohorts,
		EndpointCohortAnalysis:   cohorts,
		EndpointGeographic: func(context.Context, Params) (any, error) {
			return hist.Geographic(), nil
		},
		EndpointFunnel: func(context.Context, Params) (any, error) {
			return hist.Funnel(), nil
		},
		EndpointHeatmap: func(context.Context, Params) (any, error) {
			return hist.Heatmap(), nil
		},
	}
}

// Acknowledgement is the body of a successful write.
type Acknowledgement struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

// WriteHandlers returns the settings and export endpoints.
func WriteHandlers() map[string]Handler {
	return map[string]Handler{
		EndpointSettingsUpdate: func(context.Context, Params) (any, error) {
			return Acknowledgement{Success: true, Message: "Settings updated successfully"}, nil
		},
		EndpointExportReport: func(_ context.Context, p Params) (any, error) {
			format := p.String("format", "pdf")
			return Acknowledgement{Success: true, Message: "Report generated", URL: "/downloads/report." + format}, nil
		},
	}
}

// NewSynthetic wires a client over fresh generators seeded with the defaults.
func NewSynthetic(opts Options) *Client {
	c := New(opts)
	if len(opts.Handlers) == 0 {
		c.RegisterAll(SyntheticHandlers(synth.NewGenerator(synth.DefaultSeed), synth.NewHistorical()))
	}
	if len(opts.PostHandlers) == 0 {
		for k, h := range WriteHandlers() {
			c.RegisterPost(k, h)
		}
	}
	return c
}
