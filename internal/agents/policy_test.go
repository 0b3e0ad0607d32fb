package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/honey-market/internal/dice"
	"github.com/user/honey-market/internal/types"
)

func threeOptionEvent() *types.Event {
	return &types.Event{
		ID:     "ev",
		Signal: types.SignalGreen,
		Options: []types.Option{
			{ID: "a", Coefficient: 1.0},
			{ID: "b", Coefficient: 1.2, Correct: true},
			{ID: "c", Coefficient: 0.8},
		},
	}
}

func TestCorrectChanceRanges(t *testing.T) {
	assert.InDelta(t, 0.5, CorrectChance(Aggressive, 0), 1e-9)
	assert.InDelta(t, 0.9, CorrectChance(Aggressive, 1), 1e-9)
	assert.InDelta(t, 0.4, CorrectChance(Balanced, 0), 1e-9)
	assert.InDelta(t, 0.8, CorrectChance(Balanced, 1), 1e-9)
	assert.InDelta(t, 0.3, CorrectChance(Conservative, 0), 1e-9)
	assert.InDelta(t, 0.7, CorrectChance(Conservative, 1), 1e-9)
	assert.InDelta(t, 0.9, CorrectChance(Aggressive, 3), 1e-9)
}

func TestAggressiveExpertConvergesToNinetyPercent(t *testing.T) {
	de := NewDecisionEngine(dice.NewSeededDiceRoller(2024))
	vp := &VirtualPlayer{Personality: Aggressive, SkillLevel: 1.0}
	ev := threeOptionEvent()

	const trials = 10000
	correct := 0
	for i := 0; i < trials; i++ {
		opt := de.ChooseEventOption(vp, ev)
		require.NotNil(t, opt)
		if opt.Correct {
			correct++
		}
	}
	assert.InDelta(t, 0.9, float64(correct)/trials, 0.02)
}

func TestChooseEventOptionFallbacks(t *testing.T) {
	de := NewDecisionEngine(dice.NewSeededDiceRoller(1))

	noneFlagged := &types.Event{Options: []types.Option{{ID: "x"}, {ID: "y"}}}
	allFlagged := &types.Event{Options: []types.Option{{ID: "only", Correct: true}}}
	empty := &types.Event{}

	for _, skill := range []float64{0, 1} {
		vp := &VirtualPlayer{Personality: Conservative, SkillLevel: skill}
		for i := 0; i < 200; i++ {
			opt := de.ChooseEventOption(vp, noneFlagged)
			require.NotNil(t, opt)
			assert.Contains(t, []string{"x", "y"}, opt.ID)

			opt = de.ChooseEventOption(vp, allFlagged)
			require.NotNil(t, opt)
			assert.Equal(t, "only", opt.ID)
		}
		assert.Nil(t, de.ChooseEventOption(vp, empty))
	}
}

func TestWrongAnswersAvoidTheCorrectOption(t *testing.T) {
	de := NewDecisionEngine(dice.NewSeededDiceRoller(8))
	vp := &VirtualPlayer{Personality: Conservative, SkillLevel: 0}
	ev := threeOptionEvent()

	seen := map[string]int{}
	for i := 0; i < 3000; i++ {
		seen[de.ChooseEventOption(vp, ev).ID]++
	}
	assert.InDelta(t, 0.3, float64(seen["b"])/3000, 0.04)
	assert.Greater(t, seen["a"], 0)
	assert.Greater(t, seen["c"], 0)
}

func TestPreferredRegion(t *testing.T) {
	assert.Equal(t, types.RegionCommercial, PreferredRegion(Aggressive))
	assert.Equal(t, types.RegionSchoolZone, PreferredRegion(Balanced))
	assert.Equal(t, types.RegionResidential, PreferredRegion(Conservative))
}

func TestStockQuantitiesBonusRange(t *testing.T) {
	de := NewDecisionEngine(dice.NewSeededDiceRoller(4))
	products := []types.Product{{ID: "water"}, {ID: "bread"}}

	limits := map[Personality]int{Aggressive: 400, Balanced: 300, Conservative: 200}
	for p, bonus := range limits {
		for i := 0; i < 100; i++ {
			q := de.StockQuantities(p, products)
			require.Len(t, q, 2)
			for _, qty := range q {
				assert.GreaterOrEqual(t, qty, BaseStockPerProduct)
				assert.LessOrEqual(t, qty, BaseStockPerProduct+bonus)
			}
		}
	}
}
