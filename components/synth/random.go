package synth

import "math"

const (
	// DefaultSeed drives the dashboard generator.
	DefaultSeed int64 = 42
	// HistoricalSeed drives the historical generator.
	HistoricalSeed int64 = 123
)

// Random is a small deterministic generator (mulberry32). Two instances
// created with the same seed yield identical sequences. It is not safe for
// concurrent use; owners serialize access.
type Random struct {
	state uint32
}

// NewRandom seeds a generator. Only the low 32 bits of the seed are used.
func NewRandom(seed int64) *Random {
	return &Random{state: uint32(seed)}
}

// Float returns the next draw in [0, 1).
func (r *Random) Float() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return float64(t^t>>14) / 4294967296
}

// Int returns an integer in [min, max], both inclusive.
func (r *Random) Int(min, max int) int {
	return int(math.Floor(r.Float()*float64(max-min+1))) + min
}

// FloatRange returns a value in [min, max).
func (r *Random) FloatRange(min, max float64) float64 {
	return r.Float()*(max-min) + min
}

// Normal samples a normal distribution with the Box-Muller transform,
// consuming two draws.
func (r *Random) Normal(mean, stdDev float64) float64 {
	u := 1 - r.Float()
	v := r.Float()
	z := math.Sqrt(-2*math.Log(u)) * math.Cos(2*math.Pi*v)
	return z*stdDev + mean
}

// Choice picks a uniformly random element. An empty slice yields the zero
// value without consuming a draw.
func Choice[T any](r *Random, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[int(math.Floor(r.Float()*float64(len(items))))]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
