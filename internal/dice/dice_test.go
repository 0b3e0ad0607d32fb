package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntBetweenIsInclusive(t *testing.T) {
	dr := NewSeededDiceRoller(7)
	seenMin, seenMax := false, false
	for i := 0; i < 5000; i++ {
		v := dr.IntBetween(1, 4)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 4)
		if v == 1 {
			seenMin = true
		}
		if v == 4 {
			seenMax = true
		}
	}
	assert.True(t, seenMin)
	assert.True(t, seenMax)
	assert.Equal(t, 3, dr.IntBetween(3, 3))
}

func TestShuffledPrefixHasNoDuplicates(t *testing.T) {
	dr := NewSeededDiceRoller(11)
	for n := 1; n <= 100; n++ {
		order := dr.ShuffledPrefix(n, 7)
		expected := n
		if expected > 7 {
			expected = 7
		}
		assert.Len(t, order, expected)

		seen := make(map[int]bool)
		for _, idx := range order {
			assert.False(t, seen[idx], "duplicate index %d for n=%d", idx, n)
			assert.True(t, idx >= 0 && idx < n)
			seen[idx] = true
		}
	}
}

func TestSeededRollersAreReproducible(t *testing.T) {
	a := NewSeededDiceRoller(42)
	b := NewSeededDiceRoller(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.IntBetween(1, 6), b.IntBetween(1, 6))
		assert.Equal(t, a.FloatBetween(0.1, 0.2), b.FloatBetween(0.1, 0.2))
	}
	assert.Empty(t, a.Permutation(0))
}
