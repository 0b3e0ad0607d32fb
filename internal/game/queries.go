package game

import (
	"github.com/user/honey-market/internal/types"
)

// GetStatus returns the real player's overview
func (gm *GameManager) GetStatus() types.SessionStatus {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	return types.SessionStatus{
		Round:           gm.round.CurrentRound,
		Phase:           gm.phase(),
		Resources:       gm.resources,
		Selection:       gm.round.Selection(),
		HasStocked:      gm.round.HasStocked,
		EventsCompleted: gm.round.EventsCompleted,
		TotalEvents:     gm.round.EventsThisRound(),
		Inventory:       gm.ledger.Snapshot(),
	}
}

// GetCurrentStage returns the stage of the event in progress
func (gm *GameManager) GetCurrentStage() (types.Stage, bool) {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	if !gm.flow.Active() {
		return types.StageSignal, false
	}
	return gm.flow.CurrentStage, true
}

// GetCurrentEvent returns a copy of the event in progress
func (gm *GameManager) GetCurrentEvent() (*types.Event, bool) {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	if !gm.flow.Active() {
		return nil, false
	}
	ev := *gm.flow.CurrentEvent
	ev.Options = append([]types.Option(nil), gm.flow.CurrentEvent.Options...)
	return &ev, true
}

// Render returns the screen for the current state
func (gm *GameManager) Render() types.Screen {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	return Render(gm.round, gm.flow, gm.phase())
}

// GetDistricts lists the districts of a region with their rent
func (gm *GameManager) GetDistricts(region types.RegionType) ([]types.DistrictOffer, bool) {
	if !gm.catalog.HasRegion(region) {
		return nil, false
	}
	districts := gm.catalog.GetDistricts(region)
	offers := make([]types.DistrictOffer, 0, len(districts))
	for _, d := range districts {
		offers = append(offers, types.DistrictOffer{
			Name:        d.Name,
			Coefficient: d.Coefficient,
			Rent:        gm.catalog.CalculateTotalRent(region, d.Coefficient),
		})
	}
	return offers, true
}

// GetProducts lists the stockable products
func (gm *GameManager) GetProducts() []types.Product {
	return gm.catalog.Products()
}

// GetReports returns every round report in round order
func (gm *GameManager) GetReports() []types.FinancialReport {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	return gm.aggregator.History()
}

// GetPlayerReports returns the round reports of the real player or of one
// virtual player, so both sets of books can be compared round by round
func (gm *GameManager) GetPlayerReports(playerID string) ([]types.FinancialReport, bool) {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	if playerID == RealPlayerID {
		return gm.aggregator.History(), true
	}
	for _, vp := range gm.cohort.Players() {
		if vp.ID == playerID {
			return vp.Reports(), true
		}
	}
	return nil, false
}

// GetReport returns the report of one round
func (gm *GameManager) GetReport(round int) (types.FinancialReport, bool) {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	return gm.aggregator.ReportFor(round)
}
