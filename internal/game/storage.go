package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/user/honey-market/internal/agents"
	"github.com/user/honey-market/internal/inventory"
	"github.com/user/honey-market/internal/report"
	"github.com/user/honey-market/internal/store"
	"github.com/user/honey-market/internal/types"
	"go.uber.org/zap"
)

// Persisted keys. Each holds one whole object.
const (
	KeyRoundState      = "roundState"
	KeyEventFlowState  = "eventFlowState"
	KeyReportHistory   = "financialReportHistory"
	KeyReportBucket    = "financialReportBucket"
	KeyInventoryLedger = "inventoryLedger"
	KeyVirtualPlayers  = "virtualPlayers"
	KeyRegionSelection = "regionSelection"
	KeyResources       = "resources"
)

// AllKeys lists every key the session writes
var AllKeys = []string{
	KeyRoundState,
	KeyEventFlowState,
	KeyReportHistory,
	KeyReportBucket,
	KeyInventoryLedger,
	KeyVirtualPlayers,
	KeyRegionSelection,
	KeyResources,
}

type reportBucket struct {
	Bucket   report.Bucket   `json:"bucket"`
	Location report.Location `json:"location"`
}

// saveState writes every subsystem in one atomic PutAll
func (gm *GameManager) saveState(ctx context.Context) error {
	agg := gm.aggregator.State()
	objects := map[string]interface{}{
		KeyRoundState:      gm.round,
		KeyEventFlowState:  gm.flow,
		KeyReportHistory:   agg.History,
		KeyReportBucket:    reportBucket{Bucket: agg.Bucket, Location: agg.Location},
		KeyInventoryLedger: gm.ledger,
		KeyVirtualPlayers:  gm.cohort.Players(),
		KeyRegionSelection: gm.round.Selection(),
		KeyResources:       gm.resources,
	}

	entries := make(map[string][]byte, len(objects))
	for key, obj := range objects {
		data, err := json.Marshal(obj)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", key, err)
		}
		entries[key] = data
	}

	if err := gm.store.PutAll(ctx, entries); err != nil {
		return fmt.Errorf("failed to save game state: %w", err)
	}
	return nil
}

// commit persists the command's changes. On failure the in-memory session
// is reloaded from the store so it never runs ahead of what was saved.
func (gm *GameManager) commit(ctx context.Context) error {
	err := gm.saveState(ctx)
	if err == nil {
		return nil
	}

	gm.Logger.Error("Failed to persist game state", zap.Error(err))
	if _, loadErr := gm.loadState(ctx); loadErr != nil {
		gm.Logger.Error("Failed to reload game state", zap.Error(loadErr))
	}
	return err
}

// loadState reads every subsystem. A missing key means a fresh subsystem; a
// malformed blob is logged and that subsystem is reinitialized. It reports
// whether a saved game was found.
func (gm *GameManager) loadState(ctx context.Context) (bool, error) {
	gm.repaired = nil
	round, found, err := loadKey(ctx, gm, KeyRoundState, types.NewRoundState(gm.config.Game.EventsPerRound))
	if err != nil {
		return false, err
	}
	if round == nil {
		round = types.NewRoundState(gm.config.Game.EventsPerRound)
	}
	if round.RandomEventOrder == nil {
		round.RandomEventOrder = []int{}
	}
	if round.CurrentRound < 1 {
		round.CurrentRound = 1
	}

	resources, _, err := loadKey(ctx, gm, KeyResources, gm.startingResources())
	if err != nil {
		return false, err
	}

	flow, _, err := loadKey(ctx, gm, KeyEventFlowState, &types.EventFlowState{})
	if err != nil {
		return false, err
	}
	if flow == nil {
		flow = &types.EventFlowState{}
	}

	ledger, _, err := loadKey(ctx, gm, KeyInventoryLedger, inventory.NewLedger())
	if err != nil {
		return false, err
	}
	if ledger == nil {
		ledger = inventory.NewLedger()
	}

	history, _, err := loadKey[[]types.FinancialReport](ctx, gm, KeyReportHistory, nil)
	if err != nil {
		return false, err
	}
	bucket, _, err := loadKey(ctx, gm, KeyReportBucket, reportBucket{})
	if err != nil {
		return false, err
	}

	players, _, err := loadKey[[]*agents.VirtualPlayer](ctx, gm, KeyVirtualPlayers, nil)
	if err != nil {
		return false, err
	}

	gm.round = round
	gm.resources = resources
	gm.flow = flow
	gm.ledger = ledger

	gm.aggregator = report.NewAggregator(gm.Logger)
	gm.aggregator.Restore(report.State{Bucket: bucket.Bucket, Location: bucket.Location, History: history})

	gm.cohort = gm.newCohort()
	gm.cohort.Restore(players)
	if len(gm.cohort.Players()) == 0 {
		gm.cohort.Spawn(gm.config.Game.VirtualPlayers, gm.startingResources(), gm.round.CurrentRound)
	}

	gm.repairFlow()
	return found, nil
}

// loadKey decodes one key. A missing or unparseable blob yields fallback;
// only store failures are errors.
func loadKey[T any](ctx context.Context, gm *GameManager, key string, fallback T) (T, bool, error) {
	data, err := gm.store.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return fallback, false, nil
	}
	if errors.Is(err, store.ErrCorrupt) {
		gm.discard(key, err)
		return fallback, false, nil
	}
	if err != nil {
		return fallback, false, fmt.Errorf("failed to load %s: %w", key, err)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		gm.discard(key, err)
		return fallback, false, nil
	}
	return v, true, nil
}

// discard records that a persisted key was unreadable and will be rewritten
// from defaults
func (gm *GameManager) discard(key string, cause error) {
	gm.Logger.Warn("Discarding malformed persisted state",
		zap.String("key", key),
		zap.Error(cause))
	gm.repaired = append(gm.repaired, key)
}

// repairFlow makes the restored event flow agree with the round state
func (gm *GameManager) repairFlow() {
	if gm.flow.Active() && (!gm.round.HasStocked || gm.round.RoundFinished()) {
		gm.Logger.Warn("Dropping event flow outside of an active round",
			zap.Int("round", gm.round.CurrentRound),
			zap.String("event", gm.flow.CurrentEvent.ID))
		gm.flow = &types.EventFlowState{}
	}
	if gm.flow.Active() && gm.flow.CurrentStage == types.StageFeedback && (!gm.flow.EventCompleted || gm.flow.SelectedOption == nil) {
		gm.Logger.Warn("Event flow reached feedback without effects, returning to choice",
			zap.String("event", gm.flow.CurrentEvent.ID))
		gm.flow.CurrentStage = types.StageChoice
		gm.flow.SelectedOption = nil
		gm.flow.EventCompleted = false
		gm.flow.Outcome = nil
	}
	gm.closeUnplayableRound()
	gm.ensureEvent()
}

// closeUnplayableRound ends a stocked round whose next scheduled event is no
// longer in the catalog. The events already played make up its report.
func (gm *GameManager) closeUnplayableRound() {
	if gm.trimUnplayable() {
		gm.repaired = append(gm.repaired, KeyRoundState)
	} else if !gm.round.HasStocked || len(gm.round.RandomEventOrder) > 0 {
		return
	}
	if _, ok := gm.aggregator.ReportFor(gm.round.CurrentRound); ok {
		return
	}
	gm.aggregator.GenerateRoundReport(gm.round.CurrentRound, gm.location())
	gm.repaired = append(gm.repaired, KeyReportHistory)
}
