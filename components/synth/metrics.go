package synth

import (
	"fmt"
	"math"
	"slices"
)

// Trend direction labels.
const (
	TrendUp      = "up"
	TrendDown    = "down"
	TrendNeutral = "neutral"
)

// Metrics is a bundle of aligned monthly business series.
type Metrics struct {
	Revenue               []float64 `json:"revenue"`
	Orders                []float64 `json:"orders"`
	Users                 []float64 `json:"users"`
	ConversionRate        []float64 `json:"conversionRate"`
	AverageOrder          []float64 `json:"averageOrder"`
	CustomerLifetimeValue []float64 `json:"customerLifetimeValue"`
}

// Clone returns a copy that shares no backing arrays with m.
func (m Metrics) Clone() Metrics {
	return Metrics{
		Revenue:               slices.Clone(m.Revenue),
		Orders:                slices.Clone(m.Orders),
		Users:                 slices.Clone(m.Users),
		ConversionRate:        slices.Clone(m.ConversionRate),
		AverageOrder:          slices.Clone(m.AverageOrder),
		CustomerLifetimeValue: slices.Clone(m.CustomerLifetimeValue),
	}
}

// Len reports the number of periods in the bundle.
func (m Metrics) Len() int {
	return len(m.Revenue)
}

// BusinessMetrics derives a correlated metrics bundle from a revenue trend.
// Draws happen series by series: revenue noise, order divisors, user
// multipliers, then conversion jitter.
func BusinessMetrics(r *Random, baseRevenue float64, months int) Metrics {
	revenue := ApplySeasonality(
		GenerateTrend(r, baseRevenue, 2.5, baseRevenue*0.1, months),
		0.25,
		[]int{10, 11},
	)
	n := len(revenue)
	m := Metrics{
		Revenue:               revenue,
		Orders:                make([]float64, n),
		Users:                 make([]float64, n),
		ConversionRate:        make([]float64, n),
		AverageOrder:          make([]float64, n),
		CustomerLifetimeValue: make([]float64, n),
	}
	for i, rev := range revenue {
		m.Orders[i] = math.Round(rev / r.FloatRange(140, 170))
	}
	for i, orders := range m.Orders {
		m.Users[i] = math.Round(orders*r.FloatRange(2.8, 3.5) + float64(i)*150)
	}
	for i := range n {
		rate := 3.2 + (r.Float()-0.5)*0.8
		m.ConversionRate[i] = round2(math.Max(1.5, math.Min(5.0, rate)))
	}
	for i, rev := range revenue {
		m.AverageOrder[i] = round2(safeDiv(rev, m.Orders[i]))
		m.CustomerLifetimeValue[i] = round2(safeDiv(rev, m.Users[i]) * 6)
	}
	return m
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// KPI compares the latest value of a metric with the one before it.
type KPI struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Change   string  `json:"change"`
	Trend    string  `json:"trend"`
}

// NewKPI builds a two-state KPI: equal values report TrendDown. A zero
// previous value reports a change of "0.0".
func NewKPI(current, previous float64) KPI {
	trend := TrendDown
	if current > previous {
		trend = TrendUp
	}
	return KPI{
		Current:  current,
		Previous: previous,
		Change:   formatChange(current, previous),
		Trend:    trend,
	}
}

func formatChange(current, previous float64) string {
	if previous == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", (current-previous)/previous*100)
}

// KPIBundle holds the headline dashboard KPIs.
type KPIBundle struct {
	Revenue               KPI `json:"revenue"`
	Orders                KPI `json:"orders"`
	Users                 KPI `json:"users"`
	ConversionRate        KPI `json:"conversionRate"`
	AverageOrder          KPI `json:"averageOrder"`
	CustomerLifetimeValue KPI `json:"customerLifetimeValue"`
}

// KPIsFromMetrics compares the last two periods of every series. Bundles with
// fewer than two periods compare against zero.
func KPIsFromMetrics(m Metrics) KPIBundle {
	return KPIBundle{
		Revenue:               lastTwo(m.Revenue),
		Orders:                lastTwo(m.Orders),
		Users:                 lastTwo(m.Users),
		ConversionRate:        lastTwo(m.ConversionRate),
		AverageOrder:          lastTwo(m.AverageOrder),
		CustomerLifetimeValue: lastTwo(m.CustomerLifetimeValue),
	}
}

func lastTwo(series []float64) KPI {
	switch n := len(series); n {
	case 0:
		return NewKPI(0, 0)
	case 1:
		return NewKPI(series[0], 0)
	default:
		return NewKPI(series[n-1], series[n-2])
	}
}
