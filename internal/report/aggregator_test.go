package report

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/honey-market/internal/types"
)

func lineItem(i int) types.EventLineItem {
	return types.EventLineItem{
		ID:                fmt.Sprintf("item-%d", i),
		EventID:           fmt.Sprintf("event-%d", i),
		SalesVolume:       100,
		Revenue:           2000,
		Cost:              300,
		SatisfactionDelta: 2,
		ReputationDelta:   -1,
	}
}

func TestGenerateRoundReport(t *testing.T) {
	a := NewAggregator(nil)
	a.SetLocation(types.RegionCommercial, "Central Plaza")
	a.RecordRent(54356)
	a.RecordStocking(167300)
	for i := 0; i < 7; i++ {
		a.RecordEvent(lineItem(i))
	}
	assert.Equal(t, 7, a.EventCount())

	r := a.GenerateRoundReport(1, Location{})
	assert.Equal(t, 1, r.RoundNumber)
	assert.Equal(t, types.RegionCommercial, r.RegionType)
	assert.Equal(t, "Central Plaza", r.District)
	assert.Len(t, r.Events, 7)
	assert.Equal(t, 14000, r.TotalRevenue)
	assert.Equal(t, 54356+167300+7*300, r.TotalCost)
	assert.Equal(t, r.TotalRevenue-r.TotalCost, r.NetProfit)
	assert.Equal(t, 700, r.TotalSalesVolume)
	assert.Equal(t, 14, r.SatisfactionChange)
	assert.Equal(t, -7, r.ReputationChange)
	assert.Equal(t, 54356, r.RentCost)
	assert.Equal(t, 167300, r.StockCost)

	assert.Equal(t, 0, a.EventCount())
	assert.Equal(t, Location{Region: types.RegionCommercial, District: "Central Plaza"}, a.Location())
}

func TestGenerateRoundReportIsIdempotent(t *testing.T) {
	a := NewAggregator(nil)
	a.SetLocation(types.RegionResidential, "Oak Park")
	a.RecordEvent(lineItem(1))
	a.GenerateRoundReport(1, Location{})
	require.Len(t, a.History(), 1)

	a.RecordEvent(lineItem(2))
	a.RecordEvent(lineItem(3))
	second := a.GenerateRoundReport(1, Location{})

	history := a.History()
	require.Len(t, history, 1)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Len(t, history[0].Events, 2)
}

func TestHistoryIsOrderedByRound(t *testing.T) {
	a := NewAggregator(nil)
	a.SetLocation(types.RegionResidential, "Oak Park")
	a.GenerateRoundReport(3, Location{})
	a.GenerateRoundReport(1, Location{})
	a.GenerateRoundReport(2, Location{})

	history := a.History()
	require.Len(t, history, 3)
	for i, r := range history {
		assert.Equal(t, i+1, r.RoundNumber)
	}
}

func TestStockingIsNotAnEventLineItem(t *testing.T) {
	a := NewAggregator(nil)
	a.RecordStocking(1000)
	assert.Equal(t, 0, a.EventCount())
	assert.Equal(t, 1000, a.Bucket().Cost)
}

func TestReconcileSynthesizesMissingReport(t *testing.T) {
	a := NewAggregator(nil)
	a.RecordEvent(lineItem(1))

	fallback := Location{Region: types.RegionSchoolZone, District: "Elm Academy"}
	r, repair := a.Reconcile(4, fallback)
	assert.True(t, repair.Synthesized)
	assert.True(t, r.Synthesized)
	assert.Equal(t, types.RegionSchoolZone, r.RegionType)
	assert.Equal(t, "Elm Academy", r.District)
	assert.Len(t, r.Events, 1)

	again, repair := a.Reconcile(4, fallback)
	assert.False(t, repair.Synthesized)
	assert.False(t, repair.LocationRepaired)
	assert.Equal(t, r.ID, again.ID)
	assert.Len(t, a.History(), 1)
}

func TestReconcileRepairsMissingLocation(t *testing.T) {
	a := NewAggregator(nil)
	a.Restore(State{History: []types.FinancialReport{{ID: "r1", RoundNumber: 1}}})

	r, repair := a.Reconcile(1, Location{Region: types.RegionCommercial, District: "Old Town"})
	assert.False(t, repair.Synthesized)
	assert.True(t, repair.LocationRepaired)
	assert.Equal(t, "Old Town", r.District)

	stored, ok := a.ReportFor(1)
	require.True(t, ok)
	assert.True(t, stored.HasLocation())
}

func TestStateRoundTrip(t *testing.T) {
	a := NewAggregator(nil)
	a.SetLocation(types.RegionCommercial, "Market Street")
	a.RecordRent(100)
	a.RecordEvent(lineItem(1))
	a.GenerateRoundReport(1, Location{})
	a.RecordEvent(lineItem(2))

	data, err := json.Marshal(a.State())
	require.NoError(t, err)

	var s State
	require.NoError(t, json.Unmarshal(data, &s))
	b := NewAggregator(nil)
	b.Restore(s)

	assert.Equal(t, 1, b.EventCount())
	assert.Len(t, b.History(), 1)
	assert.Equal(t, a.Location(), b.Location())
}

func TestSummary(t *testing.T) {
	s := Summary(types.FinancialReport{
		RoundNumber:  2,
		RegionType:   types.RegionCommercial,
		District:     "Central Plaza",
		TotalRevenue: 1234567,
		TotalCost:    234567,
		NetProfit:    1000000,
	})
	assert.Contains(t, s, "Round 2")
	assert.Contains(t, s, "1,234,567")
	assert.Contains(t, s, "net 1,000,000")
}
