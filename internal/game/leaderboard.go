package game

import (
	"errors"
	"sort"

	"github.com/user/honey-market/internal/agents"
	"github.com/user/honey-market/internal/types"
)

// RealPlayerID identifies the human session on leaderboards
const RealPlayerID = "player"

// Leaderboard metrics
const (
	MetricHoney        = "honey"
	MetricSatisfaction = "satisfaction"
	MetricReputation   = "reputation"
	MetricEarnings     = "earnings"
)

// ErrUnknownMetric is returned for a leaderboard metric that does not exist
var ErrUnknownMetric = errors.New("unknown leaderboard metric")

func metricValue(metric string, res types.Resources, earnings int) (int, error) {
	switch metric {
	case MetricHoney, "":
		return res.Honey, nil
	case MetricSatisfaction:
		return res.Satisfaction, nil
	case MetricReputation:
		return res.Reputation, nil
	case MetricEarnings:
		return earnings, nil
	default:
		return 0, ErrUnknownMetric
	}
}

// realEarnings mirrors the agents' TotalEarnings: every event's revenue,
// reported or still in the current bucket
func (gm *GameManager) realEarnings() int {
	total := gm.aggregator.Bucket().Revenue
	for _, r := range gm.aggregator.History() {
		if r.Synthesized {
			continue
		}
		total += r.TotalRevenue
	}
	return total
}

// GetLeaderboard ranks the real player and every virtual player by metric.
// Ties are broken by player id.
func (gm *GameManager) GetLeaderboard(metric string) ([]types.LeaderboardEntry, error) {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	return gm.leaderboard(metric)
}

func (gm *GameManager) leaderboard(metric string) ([]types.LeaderboardEntry, error) {
	value, err := metricValue(metric, gm.resources, gm.realEarnings())
	if err != nil {
		return nil, err
	}

	entries := []types.LeaderboardEntry{{
		PlayerID: RealPlayerID,
		Name:     "You",
		Value:    value,
	}}
	for _, vp := range gm.cohort.Players() {
		entries = append(entries, virtualEntry(vp, metric))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func virtualEntry(vp *agents.VirtualPlayer, metric string) types.LeaderboardEntry {
	value, _ := metricValue(metric, vp.Resources, vp.Stats.TotalEarnings)
	return types.LeaderboardEntry{
		PlayerID:    vp.ID,
		Name:        vp.Name,
		Personality: string(vp.Personality),
		Virtual:     true,
		Value:       value,
		SkillLevel:  vp.SkillLevel,
	}
}

// GetRealPlayerRank returns the 1-based position of the real player
func (gm *GameManager) GetRealPlayerRank(metric string) (int, error) {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()

	entries, err := gm.leaderboard(metric)
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		if e.PlayerID == RealPlayerID {
			return e.Rank, nil
		}
	}
	return 0, nil
}
