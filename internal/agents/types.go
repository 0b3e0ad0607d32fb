// Package agents drives the virtual competitors through the same
// region → stock → event progression as the real player.
package agents

import (
	"github.com/user/honey-market/internal/inventory"
	"github.com/user/honey-market/internal/report"
	"github.com/user/honey-market/internal/types"
)

// Personality parameterizes the decision policy
type Personality string

const (
	Aggressive   Personality = "aggressive"
	Balanced     Personality = "balanced"
	Conservative Personality = "conservative"
)

// Personalities in the order they are dealt to a new cohort
var Personalities = []Personality{Aggressive, Balanced, Conservative}

// Progress mirrors the round state of the real player
type Progress struct {
	Round           int              `json:"round"`
	Region          types.RegionType `json:"region"`
	District        string           `json:"district"`
	Coefficient     float64          `json:"coefficient"`
	EventsCompleted int              `json:"events_completed"`
	HasStocked      bool             `json:"has_stocked"`
	EventOrder      []int            `json:"event_order"`
	Sidelined       bool             `json:"sidelined,omitempty"`
	Reported        bool             `json:"reported,omitempty"`
}

// Stats are cumulative across rounds and never reset
type Stats struct {
	TotalEarnings  int `json:"total_earnings"`
	TotalSpending  int `json:"total_spending"`
	RentPaid       int `json:"rent_paid"`
	StockCost      int `json:"stock_cost"`
	SalesVolume    int `json:"sales_volume"`
	CorrectAnswers int `json:"correct_answers"`
	WrongAnswers   int `json:"wrong_answers"`
	EventsPlayed   int `json:"events_played"`
}

// VirtualPlayer is one autonomous competitor
type VirtualPlayer struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Avatar      string            `json:"avatar"`
	Personality Personality       `json:"personality"`
	SkillLevel  float64           `json:"skill_level"`
	Resources   types.Resources   `json:"resources"`
	Progress    Progress          `json:"progress"`
	Stats       Stats             `json:"stats"`
	Inventory   *inventory.Ledger `json:"inventory"`

	// Books holds the round bucket and report history, kept the same way
	// as the real player's
	Books report.State `json:"books"`
}

// Reports returns the player's round reports in round order
func (vp *VirtualPlayer) Reports() []types.FinancialReport {
	out := make([]types.FinancialReport, len(vp.Books.History))
	copy(out, vp.Books.History)
	return out
}

func (vp *VirtualPlayer) location() report.Location {
	return report.Location{Region: vp.Progress.Region, District: vp.Progress.District}
}

// resetForRound clears region, stock flag and events; stats and inventory are kept
func (vp *VirtualPlayer) resetForRound(round int) {
	vp.Progress = Progress{
		Round:      round,
		EventOrder: []int{},
	}
}
