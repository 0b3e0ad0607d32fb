package game

import (
	"context"
	"fmt"

	"github.com/user/honey-market/internal/report"
	"github.com/user/honey-market/internal/sales"
	"github.com/user/honey-market/internal/types"
	"go.uber.org/zap"
)

// ensureEvent starts the next scheduled event when the round needs one and
// none is active
func (gm *GameManager) ensureEvent() {
	if gm.flow.Active() || !gm.round.HasStocked || gm.round.RoundFinished() {
		return
	}

	idx := gm.round.EventsCompleted
	if idx >= len(gm.round.RandomEventOrder) {
		return
	}
	ev, ok := gm.catalog.Event(gm.round.SelectedRegion, gm.round.RandomEventOrder[idx])
	if !ok {
		return
	}

	gm.flow = &types.EventFlowState{
		CurrentEvent: ev,
		EventIndex:   gm.round.RandomEventOrder[idx],
		CurrentStage: types.StageSignal,
	}
	gm.Logger.Debug("Event started",
		zap.Int("round", gm.round.CurrentRound),
		zap.Int("number", idx+1),
		zap.String("event", ev.ID),
		zap.String("signal", string(ev.Signal)))
}

// noEvent answers an event command issued while no event is in progress.
// Before stocking there is nothing to play yet.
func (gm *GameManager) noEvent() *types.CommandResult {
	switch gm.phase() {
	case types.PhaseRegionChosen, types.PhaseDistrictChosen:
		return gm.rejected(types.CodeNotStocked, "stock inventory to start round %d", gm.round.CurrentRound)
	}
	return gm.warning(types.CodeNoEvent, "no event in progress")
}

// trimUnplayable cuts the schedule at the first event the catalog no longer
// has, so the round can finish with the events already played. It reports
// whether the schedule changed.
func (gm *GameManager) trimUnplayable() bool {
	if gm.flow.Active() || !gm.round.HasStocked {
		return false
	}
	done := gm.round.EventsCompleted
	order := gm.round.RandomEventOrder
	if done >= len(order) {
		return false
	}
	if _, ok := gm.catalog.Event(gm.round.SelectedRegion, order[done]); ok {
		return false
	}

	gm.Logger.Warn("Scheduled event missing from catalog, closing round early",
		zap.Int("round", gm.round.CurrentRound),
		zap.String("region", string(gm.round.SelectedRegion)),
		zap.Int("index", order[done]),
		zap.Int("events_played", done),
		zap.Int("events_scheduled", len(order)))
	gm.round.RandomEventOrder = order[:done]
	gm.round.TotalEventsPerRound = done
	return true
}

// Advance acknowledges the signal or story stage
func (gm *GameManager) Advance(ctx context.Context) (*types.CommandResult, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if !gm.flow.Active() {
		return gm.noEvent(), nil
	}

	switch gm.flow.CurrentStage {
	case types.StageSignal:
		gm.flow.CurrentStage = types.StageStory
	case types.StageStory:
		gm.flow.CurrentStage = types.StageChoice
	case types.StageChoice:
		return gm.rejected(types.CodeWrongStage, "choose an option to continue"), nil
	default:
		return gm.rejected(types.CodeWrongStage, "acknowledge the feedback to continue"), nil
	}

	if err := gm.commit(ctx); err != nil {
		return nil, err
	}
	return gm.accepted(fmt.Sprintf("stage %s", gm.flow.CurrentStage)), nil
}

// ChooseOption resolves the event: sales first, then the option's effects,
// then the report line item. Effects are applied at most once per event.
func (gm *GameManager) ChooseOption(ctx context.Context, optionID string) (*types.CommandResult, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if !gm.flow.Active() {
		return gm.noEvent(), nil
	}
	if gm.flow.EventCompleted {
		if gm.flow.SelectedOption != nil && gm.flow.SelectedOption.ID == optionID {
			return gm.warning(types.CodeWrongStage, "option %s already applied", optionID), nil
		}
		return gm.rejected(types.CodeWrongStage, "event already resolved"), nil
	}
	if gm.flow.CurrentStage != types.StageChoice {
		return gm.rejected(types.CodeWrongStage, "event is at the %s stage", gm.flow.CurrentStage), nil
	}

	ev := gm.flow.CurrentEvent
	opt, ok := ev.Option(optionID)
	if !ok {
		return gm.rejected(types.CodeUnknownOption, "unknown option %q", optionID), nil
	}

	result := gm.engine.Resolve(gm.ledger, sales.Coefficients{
		Region:   gm.round.SelectedCoefficient,
		Economic: ev.Signal.Coefficient(),
		Option:   opt.Coefficient,
	})

	// the real player always receives the full effects
	item := report.NewLineItem(ev, opt, result.TotalSalesVolume, result.TotalRevenue, result.Details,
		opt.Effects.SatisfactionDelta, opt.Effects.ReputationDelta)
	report.Apply(&gm.resources, item)
	gm.aggregator.RecordEvent(item)

	chosen := *opt
	gm.flow.SelectedOption = &chosen
	gm.flow.Outcome = &item
	gm.flow.EventCompleted = true
	gm.flow.CurrentStage = types.StageFeedback

	if err := gm.commit(ctx); err != nil {
		return nil, err
	}

	gm.Logger.Info("Event resolved",
		zap.Int("round", gm.round.CurrentRound),
		zap.String("event", ev.ID),
		zap.String("option", opt.ID),
		zap.Bool("correct", opt.Correct),
		zap.Int("sales_volume", item.SalesVolume),
		zap.Int("sales_revenue", item.SalesRevenue),
		zap.Int("honey", gm.resources.Honey))

	r := gm.accepted(opt.Feedback)
	r.Amount = item.SalesRevenue + item.HoneyDelta
	return r, nil
}

// AcknowledgeFeedback closes the resolved event, lets every virtual player
// take its turn and either starts the next event or closes the round with
// its financial report.
func (gm *GameManager) AcknowledgeFeedback(ctx context.Context) (*types.CommandResult, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if !gm.flow.Active() {
		return gm.noEvent(), nil
	}
	if gm.flow.CurrentStage != types.StageFeedback || !gm.flow.EventCompleted {
		return gm.rejected(types.CodeWrongStage, "event is at the %s stage", gm.flow.CurrentStage), nil
	}

	gm.round.EventsCompleted++
	gm.flow = &types.EventFlowState{}
	gm.trimUnplayable()
	gm.cohort.Advance(gm.round.CurrentRound)

	var generated *types.FinancialReport
	if gm.round.RoundFinished() {
		rep := gm.aggregator.GenerateRoundReport(gm.round.CurrentRound, gm.location())
		generated = &rep
	} else {
		gm.ensureEvent()
	}

	if err := gm.commit(ctx); err != nil {
		return nil, err
	}

	r := gm.accepted(fmt.Sprintf("event %d of %d complete", gm.round.EventsCompleted, gm.round.EventsThisRound()))
	r.Report = generated
	return r, nil
}

func (gm *GameManager) location() report.Location {
	return report.Location{Region: gm.round.SelectedRegion, District: gm.round.SelectedDistrict}
}

// StartNextRound first makes sure the finished round has a complete report,
// then clears the selection and moves every player to the next round
func (gm *GameManager) StartNextRound(ctx context.Context) (*types.CommandResult, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if gm.phase() != types.PhaseRoundComplete {
		return gm.rejected(types.CodeRoundInProgress, "round %d is not complete", gm.round.CurrentRound), nil
	}

	finished := gm.round.CurrentRound
	rep, repair := gm.aggregator.Reconcile(finished, gm.location())

	gm.round.ResetForRound(finished + 1)
	gm.round.TotalEventsPerRound = gm.config.Game.EventsPerRound
	gm.flow = &types.EventFlowState{}
	gm.cohort.ResetForRound(gm.round.CurrentRound)

	if err := gm.commit(ctx); err != nil {
		return nil, err
	}

	gm.Logger.Info("Round started",
		zap.Int("round", gm.round.CurrentRound),
		zap.Bool("report_synthesized", repair.Synthesized),
		zap.Bool("location_repaired", repair.LocationRepaired),
		zap.Int("honey", gm.resources.Honey))

	r := gm.accepted(fmt.Sprintf("round %d started", gm.round.CurrentRound))
	r.Report = &rep
	return r, nil
}
