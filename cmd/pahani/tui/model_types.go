package tui

import (
	"pahani/internal/api"
)

// ViewMode determines which screen is active.
type ViewMode int

const (
	FormView ViewMode = iota
	RequestsView
	PickerView
	HelpView
)

// formField identifies the focused form field.
type formField int

const (
	fieldDistrict formField = iota
	fieldMandal
	fieldVillage
	fieldFromYear
	fieldToYear
	fieldSurvey
	fieldSubmit
	fieldCount
)

// submitStatus is the outcome banner shown after a submission attempt.
type submitStatus int

const (
	statusNone submitStatus = iota
	statusSuccess
	statusError
	statusUnauthorized
)

// paymentState is the payment modal's micro state machine:
// closed -> open -> submitting -> (closed | open with error).
type paymentState int

const (
	paymentClosed paymentState = iota
	paymentOpen
	paymentSubmitting
)

// pickerItem adapts a plain option string to the bubbles list.
type pickerItem string

func (i pickerItem) Title() string       { return string(i) }
func (i pickerItem) Description() string { return "" }
func (i pickerItem) FilterValue() string { return string(i) }

// Messages produced by background commands.
type (
	districtsLoadedMsg struct {
		options []string
		err     error
	}

	// mandalsLoadedMsg and villagesLoadedMsg carry the cascade sequence
	// token captured at dispatch; a stale token means a newer selection
	// superseded this lookup and the payload must be dropped.
	mandalsLoadedMsg struct {
		seq     int
		options []string
		err     error
	}
	villagesLoadedMsg struct {
		seq     int
		options []string
		err     error
	}

	requestsLoadedMsg struct {
		requests []api.Request
		err      error
	}

	submitFinishedMsg struct {
		refID string
		err   error
	}

	paymentFinishedMsg struct {
		amount int
		err    error
	}

	liveStatusMsg struct {
		id     int64
		status api.RequestStatus
		err    error
	}

	downloadFinishedMsg struct {
		id   int64
		path string
		err  error
	}
)
