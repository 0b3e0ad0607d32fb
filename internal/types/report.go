package types

import "time"

// FinancialReport is the immutable summary of one completed round
type FinancialReport struct {
	ID                 string          `json:"id"`
	RoundNumber        int             `json:"round_number"`
	RegionType         RegionType      `json:"region_type"`
	District           string          `json:"district"`
	TotalSalesVolume   int             `json:"total_sales_volume"`
	TotalRevenue       int             `json:"total_revenue"`
	TotalCost          int             `json:"total_cost"`
	NetProfit          int             `json:"net_profit"`
	RentCost           int             `json:"rent_cost"`
	StockCost          int             `json:"stock_cost"`
	SatisfactionChange int             `json:"satisfaction_change"`
	ReputationChange   int             `json:"reputation_change"`
	Events             []EventLineItem `json:"events"`
	Synthesized        bool            `json:"synthesized,omitempty"`
	GeneratedAt        time.Time       `json:"generated_at"`
}

// HasLocation reports whether the report carries its region and district
func (r *FinancialReport) HasLocation() bool {
	return r.RegionType != "" && r.District != ""
}

// LeaderboardEntry is one row of a ranking
type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	PlayerID    string  `json:"player_id"`
	Name        string  `json:"name"`
	Personality string  `json:"personality,omitempty"`
	Virtual     bool    `json:"virtual"`
	Value       int     `json:"value"`
	SkillLevel  float64 `json:"skill_level,omitempty"`
}

// SessionStatus is the real player's overview
type SessionStatus struct {
	Round           int             `json:"round"`
	Phase           Phase           `json:"phase"`
	Resources       Resources       `json:"resources"`
	Selection       RegionSelection `json:"selection"`
	HasStocked      bool            `json:"has_stocked"`
	EventsCompleted int             `json:"events_completed"`
	TotalEvents     int             `json:"total_events"`
	Inventory       map[string]int  `json:"inventory"`
}

// DistrictOffer is a district together with the rent it would cost
type DistrictOffer struct {
	Name        string  `json:"name"`
	Coefficient float64 `json:"coefficient"`
	Rent        int     `json:"rent"`
}
