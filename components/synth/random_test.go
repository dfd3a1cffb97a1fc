package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomSequenceIsReproducible(t *testing.T) {
	r := NewRandom(DefaultSeed)
	assert.InDelta(t, 0.6011037519201636, r.Float(), 1e-15)
	assert.InDelta(t, 0.44829055899754167, r.Float(), 1e-15)
	assert.InDelta(t, 0.8524657934904099, r.Float(), 1e-15)

	a, b := NewRandom(7), NewRandom(7)
	for range 100 {
		require.Equal(t, a.Float(), b.Float())
	}
}

func TestRandomZeroSeed(t *testing.T) {
	assert.InDelta(t, 0.26642920868471265, NewRandom(0).Float(), 1e-15)
}

func TestRandomIntIsInclusive(t *testing.T) {
	r := NewRandom(DefaultSeed)
	got := []int{r.Int(1, 10), r.Int(1, 10), r.Int(1, 10), r.Int(1, 10), r.Int(1, 10)}
	assert.Equal(t, []int{7, 5, 9, 7, 2}, got)

	r = NewRandom(99)
	seen := map[int]bool{}
	for range 500 {
		v := r.Int(0, 3)
		if v < 0 || v > 3 {
			t.Fatalf("value %d outside [0,3]", v)
		}
		seen[v] = true
	}
	assert.Len(t, seen, 4)
}

func TestChoice(t *testing.T) {
	r := NewRandom(DefaultSeed)
	items := []string{"a", "b", "c"}
	assert.Equal(t, []string{"b", "b", "c"}, []string{Choice(r, items), Choice(r, items), Choice(r, items)})

	before := r.state
	assert.Equal(t, "", Choice(r, []string{}))
	assert.Equal(t, before, r.state, "empty choice must not consume a draw")
}

func TestNormalConsumesTwoDraws(t *testing.T) {
	r := NewRandom(7)
	assert.InDelta(t, 0.14197043782155663, r.Normal(0, 1), 1e-9)

	a, b := NewRandom(5), NewRandom(5)
	a.Normal(10, 2)
	b.Float()
	b.Float()
	assert.Equal(t, a.Float(), b.Float())
}
