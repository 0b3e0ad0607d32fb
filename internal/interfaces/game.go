package interfaces

import (
	"context"

	"github.com/user/honey-market/internal/types"
)

// GameManager defines the operations exposed to the presentation layer.
// Commands return a CommandResult for every business outcome; the error is
// reserved for persistence failures.
type GameManager interface {
	SelectRegion(ctx context.Context, region types.RegionType) (*types.CommandResult, error)
	SelectDistrict(ctx context.Context, district string) (*types.CommandResult, error)
	Stock(ctx context.Context, quantities map[string]int) (*types.CommandResult, error)
	Advance(ctx context.Context) (*types.CommandResult, error)
	ChooseOption(ctx context.Context, optionID string) (*types.CommandResult, error)
	AcknowledgeFeedback(ctx context.Context) (*types.CommandResult, error)
	StartNextRound(ctx context.Context) (*types.CommandResult, error)
	ResetGame(ctx context.Context) (*types.CommandResult, error)

	GetStatus() types.SessionStatus
	GetCurrentStage() (types.Stage, bool)
	GetCurrentEvent() (*types.Event, bool)
	Render() types.Screen
	GetDistricts(region types.RegionType) ([]types.DistrictOffer, bool)
	GetProducts() []types.Product
	GetLeaderboard(metric string) ([]types.LeaderboardEntry, error)
	GetRealPlayerRank(metric string) (int, error)
	GetReports() []types.FinancialReport
	GetReport(round int) (types.FinancialReport, bool)
	GetPlayerReports(playerID string) ([]types.FinancialReport, bool)
}
