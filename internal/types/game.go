package types

import "math"

// RegionType identifies a market archetype
type RegionType string

const (
	RegionResidential RegionType = "residential"
	RegionCommercial  RegionType = "commercial"
	RegionSchoolZone  RegionType = "school_zone"
)

// AllRegions lists the region types in display order
var AllRegions = []RegionType{RegionResidential, RegionCommercial, RegionSchoolZone}

// Valid reports whether r is one of the known region types
func (r RegionType) Valid() bool {
	switch r {
	case RegionResidential, RegionCommercial, RegionSchoolZone:
		return true
	}
	return false
}

// District is a location inside a region with its own sales coefficient
type District struct {
	Name        string  `json:"name" yaml:"name"`
	Coefficient float64 `json:"coefficient" yaml:"coefficient"`
}

// Product is a stockable catalog item
type Product struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	UnitCost  int    `json:"unit_cost" yaml:"unit_cost"`
	UnitPrice int    `json:"unit_price" yaml:"unit_price"`
}

// EconomicSignal is the market regime attached to an event
type EconomicSignal string

const (
	SignalGreen EconomicSignal = "green"
	SignalRed   EconomicSignal = "red"
	SignalBlue  EconomicSignal = "blue"
)

// Coefficient returns the multiplier the signal applies to stocking cost and demand.
// Unknown signals behave like green.
func (s EconomicSignal) Coefficient() float64 {
	switch s {
	case SignalRed:
		return 1.2
	case SignalBlue:
		return 0.8
	default:
		return 1.0
	}
}

// Resources holds the three scores shared by the real player and every virtual player
type Resources struct {
	Honey        int `json:"honey"`
	Satisfaction int `json:"satisfaction"`
	Reputation   int `json:"reputation"`
}

// Apply adds the deltas. Satisfaction and reputation stay within 0..100.
func (r *Resources) Apply(honey, satisfaction, reputation int) {
	r.Honey += honey
	r.Satisfaction = clampScore(r.Satisfaction + satisfaction)
	r.Reputation = clampScore(r.Reputation + reputation)
}

func clampScore(v int) int {
	return int(math.Max(0, math.Min(100, float64(v))))
}

// RegionSelection is the location chosen for the current round
type RegionSelection struct {
	Region      RegionType `json:"region"`
	District    string     `json:"district"`
	Coefficient float64    `json:"coefficient"`
}

// RoundState tracks progression through one round
type RoundState struct {
	CurrentRound        int        `json:"current_round"`
	EventsCompleted     int        `json:"events_completed"`
	TotalEventsPerRound int        `json:"total_events_per_round"`
	SelectedRegion      RegionType `json:"selected_region"`
	SelectedDistrict    string     `json:"selected_district"`
	SelectedCoefficient float64    `json:"selected_coefficient"`
	HasStocked          bool       `json:"has_stocked"`
	RandomEventOrder    []int      `json:"random_event_order"`
}

// NewRoundState returns the state for the first round of a fresh game
func NewRoundState(eventsPerRound int) *RoundState {
	return &RoundState{
		CurrentRound:        1,
		TotalEventsPerRound: eventsPerRound,
		RandomEventOrder:    []int{},
	}
}

// Selection returns the region selection embedded in the round state
func (rs *RoundState) Selection() RegionSelection {
	return RegionSelection{
		Region:      rs.SelectedRegion,
		District:    rs.SelectedDistrict,
		Coefficient: rs.SelectedCoefficient,
	}
}

// EventsThisRound is the number of events the round actually schedules
func (rs *RoundState) EventsThisRound() int {
	return len(rs.RandomEventOrder)
}

// RoundFinished reports whether every scheduled event has been completed.
// A stocked round with nothing scheduled is finished.
func (rs *RoundState) RoundFinished() bool {
	return rs.HasStocked && rs.EventsCompleted >= len(rs.RandomEventOrder)
}

// ResetForRound clears the per-round selection and moves to the given round
func (rs *RoundState) ResetForRound(round int) {
	rs.CurrentRound = round
	rs.EventsCompleted = 0
	rs.SelectedRegion = ""
	rs.SelectedDistrict = ""
	rs.SelectedCoefficient = 0
	rs.HasStocked = false
	rs.RandomEventOrder = []int{}
}
