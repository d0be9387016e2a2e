// Package dashboard implements the weather dashboard client: a single view
// whose state moves idle → loading → success | failed, driven by calls to
// the weather service.
package dashboard

import (
	"github.com/i474232898/weather-history-dashboard/internal/weather"
)

// User-facing messages.
const (
	MsgEmptyCity          = "Please enter a city name"
	MsgCityNotFound       = "City not found! Please check the spelling."
	MsgServerUnreachable  = "Something went wrong! Check if the server is running."
	MsgHistoryUnavailable = "Could not load weather history."
)

// Phase is the stage of the submit flow.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// State is the whole client-side view state. It is a value; transitions
// return a new State. An error message exists only in PhaseFailed, so a
// loading state can never carry one.
type State struct {
	phase   Phase
	input   string
	current *weather.Record
	history []weather.Record
	message string
}

func (s State) Phase() Phase { return s.phase }
func (s State) Loading() bool { return s.phase == PhaseLoading }
func (s State) Input() string { return s.input }

// Current returns the last successfully submitted record, if any.
func (s State) Current() (weather.Record, bool) {
	if s.current == nil {
		return weather.Record{}, false
	}
	return *s.current, true
}

// History returns the records of the last history query, newest first.
func (s State) History() []weather.Record {
	return append([]weather.Record(nil), s.history...)
}

// Error returns the message of a failed submit, or "".
func (s State) Error() string {
	if s.phase != PhaseFailed {
		return ""
	}
	return s.message
}

func (s State) withInput(input string) State {
	s.input = input
	return s
}

// begin enters Loading and drops any previous error.
func (s State) begin() State {
	s.phase = PhaseLoading
	s.message = ""
	return s
}

func (s State) withCurrent(rec weather.Record) State {
	s.current = &rec
	return s
}

// succeed stores history, clears the input and leaves Loading.
func (s State) succeed(history []weather.Record) State {
	s.phase = PhaseSuccess
	s.history = append([]weather.Record(nil), history...)
	s.input = ""
	s.message = ""
	return s
}

// fail leaves current weather and history as they were.
func (s State) fail(msg string) State {
	s.phase = PhaseFailed
	s.message = msg
	return s
}
