package synth

import (
	"math"
	"slices"
)

var summerPeriods = []int{5, 6, 7}

// GenerateTrend produces count rounded points that compound ratePercent per
// step with normally distributed noise. The unrounded value feeds the next
// step and never drops below zero.
func GenerateTrend(r *Random, base, ratePercent, noiseStdDev float64, count int) []float64 {
	if count <= 0 {
		return []float64{}
	}
	out := make([]float64, 0, count)
	current := base
	for range count {
		trend := current * (1 + ratePercent/100)
		current = math.Max(0, trend+r.Normal(0, noiseStdDev))
		out = append(out, math.Round(current))
	}
	return out
}

// ApplySeasonality scales each point by its period of year (index % 12).
// Peak periods get 1+amplitude, periods 5-7 get 1-amplitude/2.
func ApplySeasonality(series []float64, amplitude float64, peaks []int) []float64 {
	out := make([]float64, len(series))
	for i, v := range series {
		period := i % 12
		multiplier := 1.0
		switch {
		case slices.Contains(peaks, period):
			multiplier = 1 + amplitude
		case slices.Contains(summerPeriods, period):
			multiplier = 1 - amplitude*0.5
		}
		out[i] = math.Round(v * multiplier)
	}
	return out
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
