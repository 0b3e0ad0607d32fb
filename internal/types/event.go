package types

// Effects are the scripted resource changes of an option
type Effects struct {
	HoneyDelta        int `json:"honey_delta" yaml:"honey_delta"`
	SatisfactionDelta int `json:"satisfaction_delta,omitempty" yaml:"satisfaction_delta"`
	ReputationDelta   int `json:"reputation_delta,omitempty" yaml:"reputation_delta"`
}

// Option is one answer to an event
type Option struct {
	ID          string  `json:"id"`
	Text        string  `json:"text"`
	Feedback    string  `json:"feedback"`
	Coefficient float64 `json:"coefficient"`
	Correct     bool    `json:"correct,omitempty"`
	Effects     Effects `json:"effects"`
}

// Event is a narrative market event with its options
type Event struct {
	ID      string         `json:"id"`
	Title   string         `json:"title"`
	Signal  EconomicSignal `json:"signal"`
	Story   string         `json:"story"`
	Options []Option       `json:"options"`
}

// Option looks an option up by id
func (e *Event) Option(id string) (*Option, bool) {
	for i := range e.Options {
		if e.Options[i].ID == id {
			return &e.Options[i], true
		}
	}
	return nil, false
}

// CorrectOption returns the option flagged correct, if any
func (e *Event) CorrectOption() (*Option, bool) {
	for i := range e.Options {
		if e.Options[i].Correct {
			return &e.Options[i], true
		}
	}
	return nil, false
}

// Stage is a step of the event flow
type Stage int

const (
	StageSignal Stage = iota
	StageStory
	StageChoice
	StageFeedback
)

func (s Stage) String() string {
	switch s {
	case StageSignal:
		return "signal"
	case StageStory:
		return "story"
	case StageChoice:
		return "choice"
	case StageFeedback:
		return "feedback"
	default:
		return "unknown"
	}
}

// SalesDetail is the per-product breakdown of one sales resolution
type SalesDetail struct {
	ProductID      string `json:"product_id"`
	Demand         int    `json:"demand"`
	AdjustedDemand int    `json:"adjusted_demand"`
	Stock          int    `json:"stock"`
	Sales          int    `json:"sales"`
	Revenue        int    `json:"revenue"`
}

// EventLineItem records the outcome of one resolved event
type EventLineItem struct {
	ID                string         `json:"id"`
	EventID           string         `json:"event_id"`
	Title             string         `json:"title"`
	Signal            EconomicSignal `json:"signal"`
	OptionID          string         `json:"option_id"`
	Correct           bool           `json:"correct"`
	SalesVolume       int            `json:"sales_volume"`
	SalesRevenue      int            `json:"sales_revenue"`
	HoneyDelta        int            `json:"honey_delta"`
	SatisfactionDelta int            `json:"satisfaction_delta"`
	ReputationDelta   int            `json:"reputation_delta"`
	Revenue           int            `json:"revenue"`
	Cost              int            `json:"cost"`
	Details           []SalesDetail  `json:"details"`
}

// EventFlowState is everything needed to rebuild the in-progress event screen.
// EventCompleted is set once the choice's effects have been applied and guards
// against applying them again.
type EventFlowState struct {
	CurrentEvent   *Event         `json:"current_event"`
	EventIndex     int            `json:"event_index"`
	CurrentStage   Stage          `json:"current_stage"`
	SelectedOption *Option        `json:"selected_option"`
	EventCompleted bool           `json:"event_completed"`
	Outcome        *EventLineItem `json:"outcome,omitempty"`
}

// Active reports whether an event is in progress
func (f *EventFlowState) Active() bool {
	return f != nil && f.CurrentEvent != nil
}
