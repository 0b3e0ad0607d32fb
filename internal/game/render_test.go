package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/honey-market/internal/types"
)

func renderFixture() (*types.RoundState, *types.EventFlowState) {
	round := &types.RoundState{
		CurrentRound:     2,
		EventsCompleted:  3,
		HasStocked:       true,
		RandomEventOrder: []int{4, 1, 0, 6, 2, 5, 3},
	}
	flow := &types.EventFlowState{
		CurrentEvent: &types.Event{
			ID:     "rush-hour",
			Title:  "Rush hour",
			Signal: types.SignalRed,
			Story:  "Commuters flood the street",
			Options: []types.Option{
				{ID: "a", Text: "Extra staff", Feedback: "Queues vanished", Coefficient: 1.2, Correct: true},
				{ID: "b", Text: "Do nothing", Feedback: "Lost sales", Coefficient: 0.8},
			},
		},
		EventIndex: 6,
	}
	return round, flow
}

func TestRenderRevealsContentStageByStage(t *testing.T) {
	round, flow := renderFixture()

	screen := Render(round, flow, types.PhaseStocked)
	assert.Equal(t, "signal", screen.StageName)
	assert.Equal(t, 4, screen.EventNumber)
	assert.Equal(t, 7, screen.TotalEvents)
	assert.Equal(t, types.SignalRed, screen.Signal)
	assert.Equal(t, 1.2, screen.SignalCoefficient)
	assert.Empty(t, screen.Story)
	assert.Empty(t, screen.Options)

	flow.CurrentStage = types.StageStory
	screen = Render(round, flow, types.PhaseStocked)
	assert.Equal(t, "Commuters flood the street", screen.Story)
	assert.Empty(t, screen.Options)

	flow.CurrentStage = types.StageChoice
	screen = Render(round, flow, types.PhaseStocked)
	assert.Equal(t, []types.OptionView{{ID: "a", Text: "Extra staff"}, {ID: "b", Text: "Do nothing"}}, screen.Options)
	assert.Empty(t, screen.Feedback)
}

func TestRenderFeedbackSurvivesSerialization(t *testing.T) {
	round, flow := renderFixture()
	opt := flow.CurrentEvent.Options[1]
	flow.CurrentStage = types.StageFeedback
	flow.SelectedOption = &opt
	flow.EventCompleted = true
	flow.Outcome = &types.EventLineItem{ID: "li-1", EventID: "rush-hour", OptionID: "b", SalesVolume: 120, SalesRevenue: 3000}

	before := Render(round, flow, types.PhaseStocked)
	assert.Equal(t, "b", before.SelectedOptionID)
	assert.Equal(t, "Lost sales", before.Feedback)

	data, err := json.Marshal(flow)
	require.NoError(t, err)
	var restored types.EventFlowState
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, flow.CurrentStage, restored.CurrentStage)
	assert.Equal(t, flow.CurrentEvent, restored.CurrentEvent)
	assert.Equal(t, flow.SelectedOption, restored.SelectedOption)
	assert.True(t, restored.EventCompleted)
	assert.Equal(t, before, Render(round, &restored, types.PhaseStocked))
}

func TestRenderWithoutEvent(t *testing.T) {
	round := types.NewRoundState(7)
	screen := Render(round, &types.EventFlowState{}, types.PhaseNoRegion)
	assert.Equal(t, "idle", screen.StageName)
	assert.Equal(t, 1, screen.Round)
	assert.Zero(t, screen.EventNumber)
	assert.Empty(t, screen.EventID)
}
