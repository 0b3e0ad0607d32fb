package types

import "fmt"

// Phase is the coarse progression state of a round
type Phase string

const (
	PhaseNoRegion       Phase = "no_region"
	PhaseRegionChosen   Phase = "region_chosen"
	PhaseDistrictChosen Phase = "district_chosen"
	PhaseStocked        Phase = "stocked"
	PhaseRoundComplete  Phase = "round_complete"
)

// ResultStatus says whether a command was applied
type ResultStatus string

const (
	StatusAccepted ResultStatus = "accepted"
	StatusRejected ResultStatus = "rejected"
	StatusWarning  ResultStatus = "warning"
)

// ResultCode names the business condition behind a rejection or warning
type ResultCode string

const (
	CodeInsufficientFunds ResultCode = "insufficient_funds"
	CodeAlreadyStocked    ResultCode = "already_stocked"
	CodeNoRegion          ResultCode = "no_region"
	CodeNoDistrict        ResultCode = "no_district"
	CodeNotStocked        ResultCode = "not_stocked"
	CodeUnknownRegion     ResultCode = "unknown_region"
	CodeUnknownDistrict   ResultCode = "unknown_district"
	CodeInvalidQuantity   ResultCode = "invalid_quantity"
	CodeNoEvent           ResultCode = "no_event"
	CodeWrongStage        ResultCode = "wrong_stage"
	CodeUnknownOption     ResultCode = "unknown_option"
	CodeRoundInProgress   ResultCode = "round_in_progress"
	CodeRoundComplete     ResultCode = "round_complete"
)

// OptionView is an option as shown to the player, without its correctness flag
type OptionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Screen is the view model for the current event stage
type Screen struct {
	Round             int            `json:"round"`
	Phase             Phase          `json:"phase"`
	EventNumber       int            `json:"event_number"`
	TotalEvents       int            `json:"total_events"`
	Stage             Stage          `json:"stage"`
	StageName         string         `json:"stage_name"`
	EventID           string         `json:"event_id,omitempty"`
	Title             string         `json:"title,omitempty"`
	Signal            EconomicSignal `json:"signal,omitempty"`
	SignalCoefficient float64        `json:"signal_coefficient,omitempty"`
	Story             string         `json:"story,omitempty"`
	Options           []OptionView   `json:"options,omitempty"`
	SelectedOptionID  string         `json:"selected_option_id,omitempty"`
	Feedback          string         `json:"feedback,omitempty"`
	Outcome           *EventLineItem `json:"outcome,omitempty"`
}

// CommandResult is returned by every command. Business conditions are carried
// here; Go errors are reserved for infrastructure failures.
type CommandResult struct {
	Status    ResultStatus     `json:"status"`
	Code      ResultCode       `json:"code,omitempty"`
	Message   string           `json:"message,omitempty"`
	Required  int              `json:"required,omitempty"`
	Available int              `json:"available,omitempty"`
	Phase     Phase            `json:"phase,omitempty"`
	Amount    int              `json:"amount,omitempty"`
	Resources *Resources       `json:"resources,omitempty"`
	Screen    *Screen          `json:"screen,omitempty"`
	Report    *FinancialReport `json:"report,omitempty"`
}

// OK reports whether the command changed state
func (r *CommandResult) OK() bool {
	return r != nil && r.Status == StatusAccepted
}

// Accepted builds a successful result
func Accepted(message string) *CommandResult {
	return &CommandResult{Status: StatusAccepted, Message: message}
}

// Rejected builds a validation rejection; state was left unchanged
func Rejected(code ResultCode, message string) *CommandResult {
	return &CommandResult{Status: StatusRejected, Code: code, Message: message}
}

// Warning builds a no-op notice; state was left unchanged
func Warning(code ResultCode, message string) *CommandResult {
	return &CommandResult{Status: StatusWarning, Code: code, Message: message}
}

// InsufficientFunds builds the rejection for an unaffordable payment
func InsufficientFunds(what string, required, available int) *CommandResult {
	r := Rejected(CodeInsufficientFunds, fmt.Sprintf("not enough honey for %s: need %d, have %d", what, required, available))
	r.Required = required
	r.Available = available
	return r
}
