package report

import (
	"github.com/google/uuid"
	"github.com/user/honey-market/internal/types"
)

// NewLineItem books one resolved event. Positive honey deltas count as
// revenue, negative ones as cost. Satisfaction and reputation are passed in
// already scaled by the caller.
func NewLineItem(ev *types.Event, opt *types.Option, salesVolume, salesRevenue int, details []types.SalesDetail, satisfaction, reputation int) types.EventLineItem {
	item := types.EventLineItem{
		ID:                uuid.New().String(),
		EventID:           ev.ID,
		Title:             ev.Title,
		Signal:            ev.Signal,
		OptionID:          opt.ID,
		Correct:           opt.Correct,
		SalesVolume:       salesVolume,
		SalesRevenue:      salesRevenue,
		HoneyDelta:        opt.Effects.HoneyDelta,
		SatisfactionDelta: satisfaction,
		ReputationDelta:   reputation,
		Revenue:           salesRevenue,
		Details:           details,
	}
	if opt.Effects.HoneyDelta >= 0 {
		item.Revenue += opt.Effects.HoneyDelta
	} else {
		item.Cost = -opt.Effects.HoneyDelta
	}
	return item
}

// Apply adds the honey, satisfaction and reputation changes of a line item
func Apply(res *types.Resources, item types.EventLineItem) {
	res.Apply(item.SalesRevenue+item.HoneyDelta, item.SatisfactionDelta, item.ReputationDelta)
}
