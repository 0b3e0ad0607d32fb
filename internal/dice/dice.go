// Package dice is the single source of randomness for the simulation.
package dice

import (
	"math/rand"
	"time"
)

// DiceRoller wraps a seeded random number generator
type DiceRoller struct {
	rng *rand.Rand
}

// NewDiceRoller creates a dice roller seeded from the clock
func NewDiceRoller() *DiceRoller {
	return NewSeededDiceRoller(time.Now().UnixNano())
}

// NewSeededDiceRoller creates a reproducible dice roller
func NewSeededDiceRoller(seed int64) *DiceRoller {
	return &DiceRoller{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// IntBetween returns a uniform integer in [min, max], both inclusive
func (dr *DiceRoller) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + dr.rng.Intn(max-min+1)
}

// Intn returns a uniform integer in [0, n)
func (dr *DiceRoller) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return dr.rng.Intn(n)
}

// Float returns a uniform float in [0, 1)
func (dr *DiceRoller) Float() float64 {
	return dr.rng.Float64()
}

// FloatBetween returns a uniform float in [min, max)
func (dr *DiceRoller) FloatBetween(min, max float64) float64 {
	return min + dr.rng.Float64()*(max-min)
}

// Permutation returns 0..n-1 shuffled with Fisher–Yates
func (dr *DiceRoller) Permutation(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := dr.rng.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// ShuffledPrefix draws a Fisher–Yates order over n indices and keeps the first
// min(n, limit) of them. The result never contains duplicates.
func (dr *DiceRoller) ShuffledPrefix(n, limit int) []int {
	order := dr.Permutation(n)
	if limit >= 0 && len(order) > limit {
		order = order[:limit]
	}
	return order
}
