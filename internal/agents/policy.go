package agents

import (
	"github.com/user/honey-market/internal/dice"
	"github.com/user/honey-market/internal/types"
)

// BaseStockPerProduct is the minimum units an agent orders of each product
const BaseStockPerProduct = 1400

const skillWeight = 0.4

var (
	baseCorrectChance = map[Personality]float64{
		Aggressive:   0.5,
		Balanced:     0.4,
		Conservative: 0.3,
	}
	preferredRegion = map[Personality]types.RegionType{
		Aggressive:   types.RegionCommercial,
		Balanced:     types.RegionSchoolZone,
		Conservative: types.RegionResidential,
	}
	stockBonus = map[Personality]int{
		Aggressive:   400,
		Balanced:     300,
		Conservative: 200,
	}
)

// CorrectChance is base(personality) + skill × 0.4, skill clamped to [0, 1]
func CorrectChance(p Personality, skill float64) float64 {
	if skill < 0 {
		skill = 0
	}
	if skill > 1 {
		skill = 1
	}
	return baseCorrectChance[p] + skill*skillWeight
}

// PreferredRegion returns the region type a personality gravitates to
func PreferredRegion(p Personality) types.RegionType {
	if rt, ok := preferredRegion[p]; ok {
		return rt
	}
	return types.RegionSchoolZone
}

// DecisionEngine makes every choice a virtual player needs
type DecisionEngine struct {
	diceRoller *dice.DiceRoller
}

// NewDecisionEngine creates a new decision engine
func NewDecisionEngine(diceRoller *dice.DiceRoller) *DecisionEngine {
	return &DecisionEngine{
		diceRoller: diceRoller,
	}
}

// ChooseEventOption draws whether the agent answers correctly and picks an
// option accordingly. It never fails for an event with at least one option.
func (de *DecisionEngine) ChooseEventOption(vp *VirtualPlayer, event *types.Event) *types.Option {
	if len(event.Options) == 0 {
		return nil
	}

	if de.diceRoller.Float() < CorrectChance(vp.Personality, vp.SkillLevel) {
		if opt, ok := event.CorrectOption(); ok {
			return opt
		}
		return &event.Options[de.diceRoller.Intn(len(event.Options))]
	}

	var wrong []*types.Option
	for i := range event.Options {
		if !event.Options[i].Correct {
			wrong = append(wrong, &event.Options[i])
		}
	}
	if len(wrong) == 0 {
		return &event.Options[0]
	}
	return wrong[de.diceRoller.Intn(len(wrong))]
}

// ChooseDistrict picks uniformly among the districts of a region
func (de *DecisionEngine) ChooseDistrict(districts []types.District) (types.District, bool) {
	if len(districts) == 0 {
		return types.District{}, false
	}
	return districts[de.diceRoller.Intn(len(districts))], true
}

// StockQuantities orders the base amount of each product plus a random
// personality-scaled bonus
func (de *DecisionEngine) StockQuantities(p Personality, products []types.Product) map[string]int {
	quantities := make(map[string]int, len(products))
	for _, product := range products {
		quantities[product.ID] = BaseStockPerProduct + de.diceRoller.IntBetween(0, stockBonus[p])
	}
	return quantities
}
