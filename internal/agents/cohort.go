package agents

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/user/honey-market/internal/catalog"
	"github.com/user/honey-market/internal/dice"
	"github.com/user/honey-market/internal/inventory"
	"github.com/user/honey-market/internal/report"
	"github.com/user/honey-market/internal/sales"
	"github.com/user/honey-market/internal/types"
	"go.uber.org/zap"
)

var cohortNames = []struct {
	name   string
	avatar string
}{
	{"Bumble Bea", "🐝"},
	{"Clover Mart", "🍀"},
	{"Nectar & Co", "🌼"},
	{"Hive Hub", "🍯"},
	{"Pollen Post", "🌻"},
	{"Comb Corner", "🧇"},
	{"Drone Depot", "🛸"},
	{"Queen's Pantry", "👑"},
	{"Waxworks", "🕯️"},
	{"Meadow Stop", "🌾"},
}

// Cohort owns the virtual players and steps them through each round.
// Players are always processed in slice order.
type Cohort struct {
	players        []*VirtualPlayer
	catalog        *catalog.Catalog
	engine         *sales.Engine
	policy         *DecisionEngine
	diceRoller     *dice.DiceRoller
	eventsPerRound int
	logger         *zap.Logger
}

// NewCohort creates an empty cohort
func NewCohort(cat *catalog.Catalog, engine *sales.Engine, diceRoller *dice.DiceRoller, eventsPerRound int, logger *zap.Logger) *Cohort {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cohort{
		catalog:        cat,
		engine:         engine,
		policy:         NewDecisionEngine(diceRoller),
		diceRoller:     diceRoller,
		eventsPerRound: eventsPerRound,
		logger:         logger,
	}
}

// Spawn replaces the cohort with n fresh players holding the given starting resources
func (c *Cohort) Spawn(n int, start types.Resources, round int) {
	c.players = make([]*VirtualPlayer, 0, n)
	for i := 0; i < n; i++ {
		identity := cohortNames[i%len(cohortNames)]
		name := identity.name
		if i >= len(cohortNames) {
			name = fmt.Sprintf("%s %d", name, i/len(cohortNames)+1)
		}

		vp := &VirtualPlayer{
			ID:          uuid.New().String(),
			Name:        name,
			Avatar:      identity.avatar,
			Personality: Personalities[i%len(Personalities)],
			SkillLevel:  math.Round(c.diceRoller.Float()*100) / 100,
			Resources:   start,
			Inventory:   inventory.NewLedger(),
		}
		vp.resetForRound(round)
		c.players = append(c.players, vp)
	}

	c.logger.Info("Spawned virtual players", zap.Int("count", n), zap.Int("round", round))
}

// Players returns the cohort in processing order
func (c *Cohort) Players() []*VirtualPlayer {
	return c.players
}

// Restore installs previously persisted players
func (c *Cohort) Restore(players []*VirtualPlayer) {
	c.players = make([]*VirtualPlayer, 0, len(players))
	for _, vp := range players {
		if vp == nil {
			continue
		}
		if vp.Inventory == nil {
			vp.Inventory = inventory.NewLedger()
		}
		if vp.Progress.EventOrder == nil {
			vp.Progress.EventOrder = []int{}
		}
		c.players = append(c.players, vp)
	}
}

// ResetForRound clears every player's round progress
func (c *Cohort) ResetForRound(round int) {
	for _, vp := range c.players {
		c.resetPlayer(vp, round)
	}
}

// resetPlayer closes the books of an unfinished round before moving on. The
// report of a round cut short is marked synthesized.
func (c *Cohort) resetPlayer(vp *VirtualPlayer, round int) {
	if vp.Progress.District != "" && !vp.Progress.Reported {
		finished := vp.Progress.Round
		c.record(vp, func(books *report.Aggregator) {
			books.Reconcile(finished, vp.location())
		})
	}
	vp.resetForRound(round)
}

// record runs fn against the player's books and keeps the result
func (c *Cohort) record(vp *VirtualPlayer, fn func(*report.Aggregator)) {
	books := report.NewAggregator(nil)
	books.Restore(vp.Books)
	fn(books)
	vp.Books = books.State()
}

// Advance runs one step for every player: location and stocking on the first
// step of a round, then one event per call until the round's order is used up.
func (c *Cohort) Advance(round int) {
	for _, vp := range c.players {
		if vp.Progress.Round != round {
			c.resetPlayer(vp, round)
		}
		c.step(vp)
	}
}

func (c *Cohort) step(vp *VirtualPlayer) {
	if vp.Progress.Sidelined {
		return
	}
	if vp.Progress.District == "" && !c.selectLocation(vp) {
		return
	}
	if !vp.Progress.HasStocked {
		c.stock(vp)
	}
	c.playEvent(vp)

	if !vp.Progress.Reported && vp.Progress.EventsCompleted >= len(vp.Progress.EventOrder) {
		vp.Progress.Reported = true
		round := vp.Progress.Round
		c.record(vp, func(books *report.Aggregator) {
			books.GenerateRoundReport(round, vp.location())
		})
	}
}

func (c *Cohort) selectLocation(vp *VirtualPlayer) bool {
	region := PreferredRegion(vp.Personality)
	districts := c.catalog.GetDistricts(region)

	district, ok := c.policy.ChooseDistrict(districts)
	if !ok {
		c.sideline(vp, region, "no districts configured")
		return false
	}

	rent := c.catalog.CalculateTotalRent(region, district.Coefficient)
	if vp.Resources.Honey < rent {
		cheapest := districts[0]
		for _, d := range districts[1:] {
			if d.Coefficient < cheapest.Coefficient {
				cheapest = d
			}
		}
		district = cheapest
		rent = c.catalog.CalculateTotalRent(region, district.Coefficient)
	}
	if vp.Resources.Honey < rent {
		c.sideline(vp, region, "cannot afford rent")
		return false
	}

	vp.Resources.Apply(-rent, 0, 0)
	vp.Stats.RentPaid += rent
	vp.Stats.TotalSpending += rent
	vp.Progress.Region = region
	vp.Progress.District = district.Name
	vp.Progress.Coefficient = district.Coefficient
	vp.Progress.EventOrder = c.diceRoller.ShuffledPrefix(c.catalog.EventCount(region), c.eventsPerRound)
	c.record(vp, func(books *report.Aggregator) {
		books.SetLocation(region, district.Name)
		books.RecordRent(rent)
	})

	c.logger.Debug("Virtual player selected district",
		zap.String("player", vp.Name),
		zap.String("region", string(region)),
		zap.String("district", district.Name),
		zap.Int("rent", rent))
	return true
}

func (c *Cohort) sideline(vp *VirtualPlayer, region types.RegionType, reason string) {
	vp.Progress.Sidelined = true
	c.logger.Warn("Virtual player sits out the round",
		zap.String("player", vp.Name),
		zap.String("region", string(region)),
		zap.Int("honey", vp.Resources.Honey),
		zap.String("reason", reason))
}

// stock buys the policy quantities, scaled down uniformly when the player
// cannot afford all of them
func (c *Cohort) stock(vp *VirtualPlayer) {
	vp.Progress.HasStocked = true

	products := c.catalog.Products()
	quantities := c.policy.StockQuantities(vp.Personality, products)
	economic := c.firstSignal(vp).Coefficient()

	cost := sales.StockingCost(products, quantities, economic)
	if cost > vp.Resources.Honey {
		fraction := 0.0
		if cost > 0 && vp.Resources.Honey > 0 {
			fraction = float64(vp.Resources.Honey) / float64(cost)
		}
		for id, qty := range quantities {
			quantities[id] = int(math.Floor(float64(qty) * fraction))
		}
		cost = sales.StockingCost(products, quantities, economic)
		for cost > vp.Resources.Honey && trimOne(quantities) {
			cost = sales.StockingCost(products, quantities, economic)
		}
		c.logger.Info("Virtual player scaled down stocking",
			zap.String("player", vp.Name),
			zap.Float64("fraction", fraction),
			zap.Int("cost", cost))
	}

	for _, p := range products {
		if qty := quantities[p.ID]; qty > 0 {
			if err := vp.Inventory.Stock(p.ID, qty, vp.Progress.Round); err != nil {
				c.logger.Error("Failed to stock virtual player", zap.String("player", vp.Name), zap.Error(err))
			}
		}
	}

	vp.Resources.Apply(-cost, 0, 0)
	vp.Stats.StockCost += cost
	vp.Stats.TotalSpending += cost
	c.record(vp, func(books *report.Aggregator) {
		books.RecordStocking(cost)
	})
}

func trimOne(quantities map[string]int) bool {
	trimmed := false
	for id, qty := range quantities {
		if qty > 0 {
			quantities[id] = qty - 1
			trimmed = true
		}
	}
	return trimmed
}

func (c *Cohort) firstSignal(vp *VirtualPlayer) types.EconomicSignal {
	if len(vp.Progress.EventOrder) == 0 {
		return types.SignalGreen
	}
	ev, ok := c.catalog.Event(vp.Progress.Region, vp.Progress.EventOrder[0])
	if !ok {
		return types.SignalGreen
	}
	return ev.Signal
}

func (c *Cohort) playEvent(vp *VirtualPlayer) {
	idx := vp.Progress.EventsCompleted
	if idx >= len(vp.Progress.EventOrder) {
		return
	}
	vp.Progress.EventsCompleted++

	ev, ok := c.catalog.Event(vp.Progress.Region, vp.Progress.EventOrder[idx])
	if !ok {
		return
	}
	opt := c.policy.ChooseEventOption(vp, ev)
	if opt == nil {
		return
	}

	result := c.engine.ResolveFractional(vp.Inventory, sales.Coefficients{
		Region:   vp.Progress.Coefficient,
		Economic: ev.Signal.Coefficient(),
		Option:   opt.Coefficient,
	})

	satisfaction := opt.Effects.SatisfactionDelta
	reputation := opt.Effects.ReputationDelta
	if !opt.Correct {
		satisfaction /= 2
		reputation /= 2
	}

	item := report.NewLineItem(ev, opt, result.TotalSalesVolume, result.TotalRevenue, result.Details, satisfaction, reputation)
	report.Apply(&vp.Resources, item)
	c.record(vp, func(books *report.Aggregator) {
		books.RecordEvent(item)
	})

	vp.Stats.TotalEarnings += item.Revenue
	vp.Stats.TotalSpending += item.Cost
	vp.Stats.SalesVolume += item.SalesVolume
	vp.Stats.EventsPlayed++
	if opt.Correct {
		vp.Stats.CorrectAnswers++
	} else {
		vp.Stats.WrongAnswers++
	}
}
