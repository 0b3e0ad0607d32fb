// Package report accumulates per-round financial outcomes and keeps the
// report history.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/user/honey-market/internal/types"
	"go.uber.org/zap"
)

// Location is the region and district a round was played in
type Location struct {
	Region   types.RegionType `json:"region"`
	District string           `json:"district"`
}

// Complete reports whether both fields are set
func (l Location) Complete() bool {
	return l.Region != "" && l.District != ""
}

// Bucket is the mutable accumulator for the round in progress
type Bucket struct {
	Revenue            int                   `json:"revenue"`
	Cost               int                   `json:"cost"`
	SalesVolume        int                   `json:"sales_volume"`
	RentCost           int                   `json:"rent_cost"`
	StockCost          int                   `json:"stock_cost"`
	SatisfactionChange int                   `json:"satisfaction_change"`
	ReputationChange   int                   `json:"reputation_change"`
	Events             []types.EventLineItem `json:"events"`
}

// State is the persisted form of the aggregator
type State struct {
	Bucket   Bucket                  `json:"bucket"`
	Location Location                `json:"location"`
	History  []types.FinancialReport `json:"history"`
}

// Repair describes what Reconcile had to fix
type Repair struct {
	Synthesized      bool
	LocationRepaired bool
}

// Aggregator collects the current round's bucket and the report history
type Aggregator struct {
	bucket   Bucket
	location Location
	history  []types.FinancialReport
	logger   *zap.Logger
}

// NewAggregator creates an empty aggregator
func NewAggregator(logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		bucket:  Bucket{Events: make([]types.EventLineItem, 0)},
		history: make([]types.FinancialReport, 0),
		logger:  logger,
	}
}

// SetLocation captures the region and district chosen for the round.
// It survives bucket resets.
func (a *Aggregator) SetLocation(region types.RegionType, district string) {
	a.location = Location{Region: region, District: district}
}

// Location returns the captured location
func (a *Aggregator) Location() Location {
	return a.location
}

// RecordRent adds the round's rent to the bucket cost
func (a *Aggregator) RecordRent(amount int) {
	a.bucket.Cost += amount
	a.bucket.RentCost += amount
}

// RecordStocking adds the stocking cost. It is not an event line item.
func (a *Aggregator) RecordStocking(cost int) {
	a.bucket.Cost += cost
	a.bucket.StockCost += cost
}

// RecordEvent appends a gameplay event line item
func (a *Aggregator) RecordEvent(item types.EventLineItem) {
	a.bucket.Revenue += item.Revenue
	a.bucket.Cost += item.Cost
	a.bucket.SalesVolume += item.SalesVolume
	a.bucket.SatisfactionChange += item.SatisfactionDelta
	a.bucket.ReputationChange += item.ReputationDelta
	a.bucket.Events = append(a.bucket.Events, item)
}

// EventCount is the number of gameplay events in the bucket
func (a *Aggregator) EventCount() int {
	return len(a.bucket.Events)
}

// Bucket returns a copy of the current bucket
func (a *Aggregator) Bucket() Bucket {
	b := a.bucket
	b.Events = append([]types.EventLineItem(nil), a.bucket.Events...)
	return b
}

// GenerateRoundReport snapshots the bucket into an immutable report for the
// given round, replaces any existing report for that round and resets the
// bucket. A missing location is filled from fallback.
func (a *Aggregator) GenerateRoundReport(round int, fallback Location) types.FinancialReport {
	loc := a.location
	if !loc.Complete() {
		loc = fallback
	}

	report := types.FinancialReport{
		ID:                 uuid.New().String(),
		RoundNumber:        round,
		RegionType:         loc.Region,
		District:           loc.District,
		TotalSalesVolume:   a.bucket.SalesVolume,
		TotalRevenue:       a.bucket.Revenue,
		TotalCost:          a.bucket.Cost,
		NetProfit:          a.bucket.Revenue - a.bucket.Cost,
		RentCost:           a.bucket.RentCost,
		StockCost:          a.bucket.StockCost,
		SatisfactionChange: a.bucket.SatisfactionChange,
		ReputationChange:   a.bucket.ReputationChange,
		Events:             append([]types.EventLineItem{}, a.bucket.Events...),
		GeneratedAt:        time.Now(),
	}

	a.put(report)
	a.bucket = Bucket{Events: make([]types.EventLineItem, 0)}

	a.logger.Info("Generated round report",
		zap.Int("round", round),
		zap.String("region", string(report.RegionType)),
		zap.String("district", report.District),
		zap.Int("events", len(report.Events)),
		zap.String("revenue", humanize.Comma(int64(report.TotalRevenue))),
		zap.String("cost", humanize.Comma(int64(report.TotalCost))),
		zap.String("net_profit", humanize.Comma(int64(report.NetProfit))))

	return report
}

func (a *Aggregator) put(report types.FinancialReport) {
	for i := range a.history {
		if a.history[i].RoundNumber == report.RoundNumber {
			a.history[i] = report
			return
		}
	}
	a.history = append(a.history, report)
	sort.SliceStable(a.history, func(i, j int) bool {
		return a.history[i].RoundNumber < a.history[j].RoundNumber
	})
}

// Reconcile is the invariant pass run at each round transition: the round
// must have a report and the report must carry its location.
func (a *Aggregator) Reconcile(round int, fallback Location) (types.FinancialReport, Repair) {
	var repair Repair

	report, ok := a.ReportFor(round)
	if !ok {
		report = a.GenerateRoundReport(round, fallback)
		report.Synthesized = true
		a.put(report)
		repair.Synthesized = true
		a.logger.Warn("Synthesized missing round report", zap.Int("round", round))
	}

	if !report.HasLocation() && fallback.Complete() {
		report.RegionType = fallback.Region
		report.District = fallback.District
		a.put(report)
		repair.LocationRepaired = true
		a.logger.Warn("Repaired report location",
			zap.Int("round", round),
			zap.String("region", string(fallback.Region)),
			zap.String("district", fallback.District))
	}

	return report, repair
}

// History returns all reports ordered by round number
func (a *Aggregator) History() []types.FinancialReport {
	out := make([]types.FinancialReport, len(a.history))
	copy(out, a.history)
	return out
}

// ReportFor returns the report of a round
func (a *Aggregator) ReportFor(round int) (types.FinancialReport, bool) {
	for _, r := range a.history {
		if r.RoundNumber == round {
			return r, true
		}
	}
	return types.FinancialReport{}, false
}

// State returns the persisted form
func (a *Aggregator) State() State {
	return State{
		Bucket:   a.Bucket(),
		Location: a.location,
		History:  a.History(),
	}
}

// Restore replaces the aggregator content with a persisted state
func (a *Aggregator) Restore(s State) {
	a.bucket = s.Bucket
	if a.bucket.Events == nil {
		a.bucket.Events = make([]types.EventLineItem, 0)
	}
	a.location = s.Location
	a.history = make([]types.FinancialReport, 0, len(s.History))
	for _, r := range s.History {
		a.put(r)
	}
}

// Summary renders a one-line description of a report
func Summary(r types.FinancialReport) string {
	return fmt.Sprintf("Round %d · %s/%s · revenue %s · cost %s · net %s · %d events",
		r.RoundNumber, r.RegionType, r.District,
		humanize.Comma(int64(r.TotalRevenue)),
		humanize.Comma(int64(r.TotalCost)),
		humanize.Comma(int64(r.NetProfit)),
		len(r.Events))
}
