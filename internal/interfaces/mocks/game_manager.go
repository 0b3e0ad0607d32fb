// Package mocks holds testify mocks of the interfaces package
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/user/honey-market/internal/interfaces"
	"github.com/user/honey-market/internal/types"
)

// GameManager is a mock of interfaces.GameManager
type GameManager struct {
	mock.Mock
}

var _ interfaces.GameManager = (*GameManager)(nil)

func (m *GameManager) result(args mock.Arguments) (*types.CommandResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.CommandResult), args.Error(1)
}

func (m *GameManager) SelectRegion(ctx context.Context, region types.RegionType) (*types.CommandResult, error) {
	return m.result(m.Called(ctx, region))
}

func (m *GameManager) SelectDistrict(ctx context.Context, district string) (*types.CommandResult, error) {
	return m.result(m.Called(ctx, district))
}

func (m *GameManager) Stock(ctx context.Context, quantities map[string]int) (*types.CommandResult, error) {
	return m.result(m.Called(ctx, quantities))
}

func (m *GameManager) Advance(ctx context.Context) (*types.CommandResult, error) {
	return m.result(m.Called(ctx))
}

func (m *GameManager) ChooseOption(ctx context.Context, optionID string) (*types.CommandResult, error) {
	return m.result(m.Called(ctx, optionID))
}

func (m *GameManager) AcknowledgeFeedback(ctx context.Context) (*types.CommandResult, error) {
	return m.result(m.Called(ctx))
}

func (m *GameManager) StartNextRound(ctx context.Context) (*types.CommandResult, error) {
	return m.result(m.Called(ctx))
}

func (m *GameManager) ResetGame(ctx context.Context) (*types.CommandResult, error) {
	return m.result(m.Called(ctx))
}

func (m *GameManager) GetStatus() types.SessionStatus {
	args := m.Called()
	return args.Get(0).(types.SessionStatus)
}

func (m *GameManager) GetCurrentStage() (types.Stage, bool) {
	args := m.Called()
	return args.Get(0).(types.Stage), args.Bool(1)
}

func (m *GameManager) GetCurrentEvent() (*types.Event, bool) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*types.Event), args.Bool(1)
}

func (m *GameManager) Render() types.Screen {
	args := m.Called()
	return args.Get(0).(types.Screen)
}

func (m *GameManager) GetDistricts(region types.RegionType) ([]types.DistrictOffer, bool) {
	args := m.Called(region)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]types.DistrictOffer), args.Bool(1)
}

func (m *GameManager) GetProducts() []types.Product {
	args := m.Called()
	return args.Get(0).([]types.Product)
}

func (m *GameManager) GetLeaderboard(metric string) ([]types.LeaderboardEntry, error) {
	args := m.Called(metric)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.LeaderboardEntry), args.Error(1)
}

func (m *GameManager) GetRealPlayerRank(metric string) (int, error) {
	args := m.Called(metric)
	return args.Int(0), args.Error(1)
}

func (m *GameManager) GetReports() []types.FinancialReport {
	args := m.Called()
	return args.Get(0).([]types.FinancialReport)
}

func (m *GameManager) GetReport(round int) (types.FinancialReport, bool) {
	args := m.Called(round)
	return args.Get(0).(types.FinancialReport), args.Bool(1)
}

func (m *GameManager) GetPlayerReports(playerID string) ([]types.FinancialReport, bool) {
	args := m.Called(playerID)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]types.FinancialReport), args.Bool(1)
}
