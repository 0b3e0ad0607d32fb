package game

import "github.com/user/honey-market/internal/types"

// Render builds the screen for the current stage from persisted state alone.
// It has no side effects, so a restored session renders exactly what it
// showed before the restart.
func Render(round *types.RoundState, flow *types.EventFlowState, phase types.Phase) types.Screen {
	screen := types.Screen{
		Round:       round.CurrentRound,
		Phase:       phase,
		TotalEvents: round.EventsThisRound(),
		StageName:   "idle",
	}
	if !flow.Active() {
		return screen
	}

	ev := flow.CurrentEvent
	screen.EventNumber = round.EventsCompleted + 1
	screen.Stage = flow.CurrentStage
	screen.StageName = flow.CurrentStage.String()
	screen.EventID = ev.ID
	screen.Title = ev.Title
	screen.Signal = ev.Signal
	screen.SignalCoefficient = ev.Signal.Coefficient()

	if flow.CurrentStage >= types.StageStory {
		screen.Story = ev.Story
	}
	if flow.CurrentStage >= types.StageChoice {
		screen.Options = make([]types.OptionView, 0, len(ev.Options))
		for _, opt := range ev.Options {
			screen.Options = append(screen.Options, types.OptionView{ID: opt.ID, Text: opt.Text})
		}
	}
	if flow.CurrentStage == types.StageFeedback && flow.SelectedOption != nil {
		screen.SelectedOptionID = flow.SelectedOption.ID
		screen.Feedback = flow.SelectedOption.Feedback
		screen.Outcome = flow.Outcome
	}
	return screen
}
