package synth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)
}

func TestGeneratorDashboardKPIsMatchMetrics(t *testing.T) {
	g := NewGenerator(DefaultSeed, WithClock(fixedClock))
	kpis := g.DashboardKPIs("30d")
	assert.Equal(t, "23.2", kpis.Revenue.Change)
	assert.Equal(t, 15307.0, kpis.Orders.Current)
	assert.Equal(t, 12755.0, kpis.Orders.Previous)
}

func TestGeneratorRevenueChartPeriods(t *testing.T) {
	g := NewGenerator(DefaultSeed, WithClock(fixedClock))

	year := g.RevenueChart("12m")
	require.Len(t, year.Labels, 12)
	assert.Equal(t, "Apr 2024", year.Labels[0])
	assert.Equal(t, "Mar 2025", year.Labels[11])
	require.Len(t, year.Datasets, 2)
	for i, v := range year.Datasets[0].Data {
		assert.InDelta(t, v*1.15, year.Datasets[1].Data[i], 1e-6)
	}

	half := g.RevenueChart("6m")
	assert.Len(t, half.Labels, 6)
	assert.Len(t, half.Datasets[0].Data, 6)
}

func TestGeneratorSharesAreNotRenormalized(t *testing.T) {
	g := NewGenerator(DefaultSeed)
	chart := g.CategoryChart()
	require.Len(t, chart.Labels, 5)
	assert.Equal(t, "Electronics", chart.Labels[0])
	for i, v := range chart.Datasets[0].Data {
		base := categoryBases[i].share
		if v < base-3 || v >= base+3 {
			t.Fatalf("share %s=%v outside ±3 of %v", chart.Labels[i], v, base)
		}
	}

	traffic := g.TrafficChart()
	assert.Equal(t, "Organic Search", traffic.Labels[0])
	assert.Len(t, traffic.Datasets[0].Data, 5)
}

func TestGeneratorTopProductsSortedByRevenue(t *testing.T) {
	g := NewGenerator(DefaultSeed)
	top := g.TopProducts(10)
	require.Len(t, top, 10)
	assert.Equal(t, 86, top[0].ID)
	assert.Equal(t, 484, top[0].Sales)
	assert.Equal(t, "Books", top[0].Category)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Revenue, top[i].Revenue)
	}

	assert.Empty(t, NewGenerator(1).TopProducts(-3))
	assert.Len(t, NewGenerator(1).TopProducts(500), 100)
}

func TestGeneratorRecentUsersNewestFirst(t *testing.T) {
	g := NewGenerator(DefaultSeed)
	users := g.RecentUsers(20)
	require.Len(t, users, 20)
	for i := 1; i < len(users); i++ {
		assert.GreaterOrEqual(t, users[i-1].RegistrationDate, users[i].RegistrationDate)
	}
	assert.Contains(t, users[0].RegistrationDate, "2024-")
}

func TestGeneratorDailyActiveUsers(t *testing.T) {
	g := NewGenerator(DefaultSeed, WithClock(fixedClock))
	chart := g.DailyActiveUsers(7)
	require.Len(t, chart.Labels, 7)
	assert.Equal(t, "2025-03-08", chart.Labels[0])
	assert.Equal(t, "2025-03-14", chart.Labels[6])
	for _, v := range chart.Datasets[0].Data {
		assert.Greater(t, v, 0.0)
	}
}

func TestGeneratorActivityHeatmap(t *testing.T) {
	g := NewGenerator(DefaultSeed, WithClock(fixedClock))
	week := g.ActivityHeatmap("7d")
	assert.Len(t, week, 7*24)
	assert.Equal(t, "2025-03-14", week[len(week)-1].Date)

	month := g.ActivityHeatmap("30d")
	assert.Len(t, month, 30*24)
}

func TestGeneratorCohortAnalysisIsTriangular(t *testing.T) {
	cohorts := NewGenerator(DefaultSeed).CohortAnalysis()
	require.Len(t, cohorts, 6)
	for i, c := range cohorts {
		assert.Len(t, c.Data, 6-i)
		assert.Equal(t, 1000-i*50, c.Size)
		for _, cell := range c.Data {
			assert.GreaterOrEqual(t, cell.Retention, 10.0)
		}
	}
}

func TestGeneratorFixedTables(t *testing.T) {
	g := NewGenerator(DefaultSeed)
	funnel := g.ConversionFunnel()
	require.Len(t, funnel, 5)
	for i := 1; i < len(funnel); i++ {
		assert.LessOrEqual(t, funnel[i].Count, funnel[i-1].Count)
	}
	assert.Len(t, g.GeographicStates(), 10)
	assert.Len(t, g.Correlation(), 50)

	overview := g.AnalyticsOverview()
	assert.Len(t, overview.PageViews, 12)
	assert.Len(t, overview.BounceRate, 12)
}
