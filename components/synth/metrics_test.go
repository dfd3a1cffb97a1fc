package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessMetricsGolden(t *testing.T) {
	m := BusinessMetrics(NewRandom(DefaultSeed), 2_400_000, 12)
	require.Equal(t, 12, m.Len())

	assert.Equal(t, []float64{
		2151639, 1978545, 1881301, 1792534, 1363881, 1340729,
		1252422, 1144525, 1059936, 1065727, 1907869, 2349585,
	}, m.Revenue)
	assert.Equal(t, []float64{
		14537, 13948, 12924, 10963, 8748, 9521,
		8626, 6925, 6855, 6488, 12755, 15307,
	}, m.Orders)
	assert.Equal(t, []float64{
		41085, 39706, 41523, 35726, 26596, 31712,
		26318, 21912, 23938, 23416, 41750, 46697,
	}, m.Users)
	assert.InDelta(t, 153.5, m.AverageOrder[11], 0.001)
	assert.InDelta(t, 301.89, m.CustomerLifetimeValue[11], 0.001)
	for _, rate := range m.ConversionRate {
		if rate < 1.5 || rate > 5.0 {
			t.Fatalf("conversion rate %v outside clamp", rate)
		}
	}
}

func TestDashboardRevenueChangeGolden(t *testing.T) {
	kpis := KPIsFromMetrics(BusinessMetrics(NewRandom(DefaultSeed), 2_400_000, 12))
	assert.Equal(t, 2349585.0, kpis.Revenue.Current)
	assert.Equal(t, 1907869.0, kpis.Revenue.Previous)
	assert.Equal(t, "23.2", kpis.Revenue.Change)
	assert.Equal(t, TrendUp, kpis.Revenue.Trend)
}

func TestNewKPITrendBoundary(t *testing.T) {
	flat := NewKPI(100, 100)
	assert.Equal(t, TrendDown, flat.Trend, "equal values fall through to down")
	assert.Equal(t, "0.0", flat.Change)

	down := NewKPI(90, 100)
	assert.Equal(t, TrendDown, down.Trend)
	assert.Equal(t, "-10.0", down.Change)

	fromZero := NewKPI(5, 0)
	assert.Equal(t, TrendUp, fromZero.Trend)
	assert.Equal(t, "0.0", fromZero.Change)
}

func TestKPIsFromShortMetrics(t *testing.T) {
	kpis := KPIsFromMetrics(Metrics{Revenue: []float64{10}})
	assert.Equal(t, 10.0, kpis.Revenue.Current)
	assert.Equal(t, 0.0, kpis.Revenue.Previous)
	assert.Equal(t, 0.0, kpis.Orders.Current)
}
