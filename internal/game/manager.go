package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/honey-market/config"
	"github.com/user/honey-market/internal/agents"
	"github.com/user/honey-market/internal/catalog"
	"github.com/user/honey-market/internal/dice"
	"github.com/user/honey-market/internal/interfaces"
	"github.com/user/honey-market/internal/inventory"
	"github.com/user/honey-market/internal/report"
	"github.com/user/honey-market/internal/sales"
	"github.com/user/honey-market/internal/store"
	"github.com/user/honey-market/internal/types"
	"go.uber.org/zap"
)

// GameManager is one game session: the real player's round and event
// progression, their ledger and report history, and the virtual cohort.
type GameManager struct {
	config     config.Config
	Logger     *zap.Logger
	store      store.Store
	catalog    *catalog.Catalog
	diceRoller *dice.DiceRoller
	engine     *sales.Engine
	stateLock  sync.RWMutex

	round      *types.RoundState
	flow       *types.EventFlowState
	ledger     *inventory.Ledger
	resources  types.Resources
	aggregator *report.Aggregator
	cohort     *agents.Cohort

	// keys the last load reinitialized or repaired
	repaired []string
}

// Ensure GameManager satisfies the interfaces.GameManager interface
var _ interfaces.GameManager = (*GameManager)(nil)

// NewGameManager creates a session backed by st, resuming any saved game
func NewGameManager(ctx context.Context, cfg config.Config, st store.Store, cat *catalog.Catalog, logger *zap.Logger) (*GameManager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Game.EventsPerRound <= 0 {
		cfg.Game.EventsPerRound = config.DefaultConfig().Game.EventsPerRound
	}

	diceRoller := dice.NewDiceRoller()
	if cfg.Game.Seed != 0 {
		diceRoller = dice.NewSeededDiceRoller(cfg.Game.Seed)
	}

	gm := &GameManager{
		config:     cfg,
		Logger:     logger,
		store:      st,
		catalog:    cat,
		diceRoller: diceRoller,
		engine:     sales.NewEngine(cat.Products(), diceRoller),
	}

	found, err := gm.loadState(ctx)
	if err != nil {
		return nil, err
	}

	if found && len(gm.repaired) > 0 {
		if err := gm.saveState(ctx); err != nil {
			return nil, err
		}
		gm.Logger.Warn("Rewrote repaired game state", zap.Strings("keys", gm.repaired))
	}
	if found {
		gm.Logger.Info("Resumed saved game",
			zap.Int("round", gm.round.CurrentRound),
			zap.String("phase", string(gm.phase())),
			zap.Int("honey", gm.resources.Honey))
		return gm, nil
	}

	if err := gm.saveState(ctx); err != nil {
		return nil, err
	}
	gm.Logger.Info("Started new game",
		zap.Int("honey", gm.resources.Honey),
		zap.Int("virtual_players", len(gm.cohort.Players())))
	return gm, nil
}

func (gm *GameManager) startingResources() types.Resources {
	return types.Resources{
		Honey:        gm.config.Game.DefaultHoney,
		Satisfaction: gm.config.Game.DefaultSatisfaction,
		Reputation:   gm.config.Game.DefaultReputation,
	}
}

func (gm *GameManager) newCohort() *agents.Cohort {
	return agents.NewCohort(gm.catalog, gm.engine, gm.diceRoller, gm.config.Game.EventsPerRound, gm.Logger)
}

func (gm *GameManager) phase() types.Phase {
	switch {
	case gm.round.RoundFinished():
		return types.PhaseRoundComplete
	case gm.round.HasStocked:
		return types.PhaseStocked
	case gm.round.SelectedDistrict != "":
		return types.PhaseDistrictChosen
	case gm.round.SelectedRegion != "":
		return types.PhaseRegionChosen
	default:
		return types.PhaseNoRegion
	}
}

// accepted fills the common payload of a successful command
func (gm *GameManager) accepted(message string) *types.CommandResult {
	r := types.Accepted(message)
	return gm.decorate(r)
}

func (gm *GameManager) decorate(r *types.CommandResult) *types.CommandResult {
	r.Phase = gm.phase()
	res := gm.resources
	r.Resources = &res
	screen := Render(gm.round, gm.flow, r.Phase)
	r.Screen = &screen
	return r
}

func (gm *GameManager) rejected(code types.ResultCode, format string, args ...interface{}) *types.CommandResult {
	gm.Logger.Info("Command rejected",
		zap.String("code", string(code)),
		zap.String("phase", string(gm.phase())))
	return gm.decorate(types.Rejected(code, fmt.Sprintf(format, args...)))
}

func (gm *GameManager) warning(code types.ResultCode, format string, args ...interface{}) *types.CommandResult {
	msg := fmt.Sprintf(format, args...)
	gm.Logger.Warn("No-op command",
		zap.String("code", string(code)),
		zap.String("message", msg))
	return gm.decorate(types.Warning(code, msg))
}

// gateBeforeDistrict rejects location changes once the round has moved past them
func (gm *GameManager) gateBeforeDistrict() *types.CommandResult {
	switch gm.phase() {
	case types.PhaseRoundComplete:
		return gm.rejected(types.CodeRoundComplete, "round %d is complete, start the next round", gm.round.CurrentRound)
	case types.PhaseStocked, types.PhaseDistrictChosen:
		return gm.rejected(types.CodeRoundInProgress, "district already chosen for round %d", gm.round.CurrentRound)
	}
	return nil
}

// SelectRegion chooses the region type for the round
func (gm *GameManager) SelectRegion(ctx context.Context, region types.RegionType) (*types.CommandResult, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if r := gm.gateBeforeDistrict(); r != nil {
		return r, nil
	}
	if !region.Valid() || !gm.catalog.HasRegion(region) {
		return gm.rejected(types.CodeUnknownRegion, "unknown region %q", region), nil
	}
	if gm.catalog.EventCount(region) == 0 {
		return gm.warning(types.CodeNoEvent, "no events configured for region %s", region), nil
	}

	gm.round.SelectedRegion = region
	if err := gm.commit(ctx); err != nil {
		return nil, err
	}

	gm.Logger.Info("Region selected",
		zap.Int("round", gm.round.CurrentRound),
		zap.String("region", string(region)))
	return gm.accepted(fmt.Sprintf("region %s selected", region)), nil
}

// SelectDistrict charges rent, fixes the sales coefficient and draws the
// round's event order. Insufficient honey leaves the session unchanged.
func (gm *GameManager) SelectDistrict(ctx context.Context, district string) (*types.CommandResult, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if r := gm.gateBeforeDistrict(); r != nil {
		return r, nil
	}
	region := gm.round.SelectedRegion
	if region == "" {
		return gm.rejected(types.CodeNoRegion, "select a region first"), nil
	}
	d, ok := gm.catalog.District(region, district)
	if !ok {
		return gm.rejected(types.CodeUnknownDistrict, "unknown district %q in %s", district, region), nil
	}
	if gm.catalog.EventCount(region) == 0 {
		return gm.warning(types.CodeNoEvent, "no events configured for region %s", region), nil
	}

	rent := gm.catalog.CalculateTotalRent(region, d.Coefficient)
	if gm.resources.Honey < rent {
		gm.Logger.Info("Rent rejected",
			zap.String("district", d.Name),
			zap.Int("rent", rent),
			zap.Int("honey", gm.resources.Honey))
		return gm.decorate(types.InsufficientFunds("rent", rent, gm.resources.Honey)), nil
	}

	order := gm.diceRoller.ShuffledPrefix(gm.catalog.EventCount(region), gm.config.Game.EventsPerRound)

	gm.resources.Apply(-rent, 0, 0)
	gm.round.SelectedDistrict = d.Name
	gm.round.SelectedCoefficient = d.Coefficient
	gm.round.RandomEventOrder = order
	gm.round.TotalEventsPerRound = len(order)
	gm.aggregator.SetLocation(region, d.Name)
	gm.aggregator.RecordRent(rent)

	if err := gm.commit(ctx); err != nil {
		return nil, err
	}

	gm.Logger.Info("District selected",
		zap.Int("round", gm.round.CurrentRound),
		zap.String("region", string(region)),
		zap.String("district", d.Name),
		zap.Float64("coefficient", d.Coefficient),
		zap.Int("rent", rent),
		zap.Int("honey", gm.resources.Honey),
		zap.Int("events", len(order)))

	result := gm.accepted(fmt.Sprintf("rented %s for %d honey", d.Name, rent))
	result.Amount = rent
	return result, nil
}

// stockingSignal is the economic signal that prices this round's stock: the
// signal of the first scheduled event
func (gm *GameManager) stockingSignal() types.EconomicSignal {
	if len(gm.round.RandomEventOrder) == 0 {
		return types.SignalGreen
	}
	ev, ok := gm.catalog.Event(gm.round.SelectedRegion, gm.round.RandomEventOrder[0])
	if !ok {
		return types.SignalGreen
	}
	return ev.Signal
}

// Stock buys inventory once per round and starts the first event
func (gm *GameManager) Stock(ctx context.Context, quantities map[string]int) (*types.CommandResult, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	switch gm.phase() {
	case types.PhaseNoRegion:
		return gm.rejected(types.CodeNoRegion, "select a region first"), nil
	case types.PhaseRegionChosen:
		return gm.rejected(types.CodeNoDistrict, "select a district first"), nil
	case types.PhaseStocked, types.PhaseRoundComplete:
		return gm.warning(types.CodeAlreadyStocked, "already stocked for round %d", gm.round.CurrentRound), nil
	}

	for id, qty := range quantities {
		if _, ok := gm.catalog.Product(id); !ok {
			return gm.rejected(types.CodeInvalidQuantity, "unknown product %q", id), nil
		}
		if qty < 0 {
			return gm.rejected(types.CodeInvalidQuantity, "quantity for %s must not be negative", id), nil
		}
	}

	signal := gm.stockingSignal()
	cost := sales.StockingCost(gm.catalog.Products(), quantities, signal.Coefficient())
	if gm.resources.Honey < cost {
		gm.Logger.Info("Stocking rejected",
			zap.Int("cost", cost),
			zap.Int("honey", gm.resources.Honey))
		return gm.decorate(types.InsufficientFunds("stock", cost, gm.resources.Honey)), nil
	}

	for _, p := range gm.catalog.Products() {
		if qty := quantities[p.ID]; qty > 0 {
			if err := gm.ledger.Stock(p.ID, qty, gm.round.CurrentRound); err != nil {
				return nil, fmt.Errorf("failed to stock %s: %w", p.ID, err)
			}
		}
	}
	gm.resources.Apply(-cost, 0, 0)
	gm.round.HasStocked = true
	gm.aggregator.RecordStocking(cost)
	gm.ensureEvent()

	if err := gm.commit(ctx); err != nil {
		return nil, err
	}

	gm.Logger.Info("Stocked inventory",
		zap.Int("round", gm.round.CurrentRound),
		zap.String("signal", string(signal)),
		zap.Int("cost", cost),
		zap.Int("units", gm.ledger.Total()),
		zap.Int("honey", gm.resources.Honey))

	result := gm.accepted(fmt.Sprintf("stocked for %d honey", cost))
	result.Amount = cost
	return result, nil
}

// ResetGame discards every persisted key and starts over
func (gm *GameManager) ResetGame(ctx context.Context) (*types.CommandResult, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if err := gm.store.Delete(ctx, AllKeys...); err != nil {
		return nil, fmt.Errorf("failed to clear game state: %w", err)
	}
	if _, err := gm.loadState(ctx); err != nil {
		return nil, err
	}
	if err := gm.saveState(ctx); err != nil {
		return nil, err
	}

	gm.Logger.Info("Game reset", zap.Int("honey", gm.resources.Honey))
	return gm.accepted("game reset"), nil
}
