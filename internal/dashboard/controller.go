package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/i474232898/weather-history-dashboard/internal/weather"
)

// ErrSubmitInFlight is returned when Submit is called while another submit
// is still loading. No call is made to the service.
var ErrSubmitInFlight = errors.New("a submit is already in progress")

// Controller runs the submit flow against the service and owns the view state.
// It is safe for concurrent use; at most one submit runs at a time.
type Controller struct {
	api API

	mu    sync.Mutex
	state State
}

func NewController(api API) *Controller {
	return &Controller{api: api}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetInput records pending input without submitting it.
func (c *Controller) SetInput(input string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.withInput(input)
}

// Submit validates input, submits it, then loads the matching history.
// The returned state is the one the controller settled in. The only error
// returned is ErrSubmitInFlight; service failures end up in State.Error.
func (c *Controller) Submit(ctx context.Context, input string) (State, error) {
	c.mu.Lock()
	if c.state.Loading() {
		st := c.state
		c.mu.Unlock()
		return st, ErrSubmitInFlight
	}

	c.state = c.state.withInput(input)
	city := strings.TrimSpace(input)
	if city == "" {
		c.state = c.state.fail(MsgEmptyCity)
		st := c.state
		c.mu.Unlock()
		return st, nil
	}

	c.state = c.state.begin()
	loading := c.state
	c.mu.Unlock()

	// Leaving Loading happens in the deferred store, whatever run does.
	final := loading.fail(MsgServerUnreachable)
	defer func() {
		c.mu.Lock()
		c.state = final
		c.mu.Unlock()
	}()

	final = c.run(ctx, loading, city)
	return final, nil
}

func (c *Controller) run(ctx context.Context, st State, city string) State {
	rec, err := c.api.Submit(ctx, city)
	if err != nil {
		return st.fail(message(err, MsgCityNotFound))
	}
	st = st.withCurrent(rec)

	history, err := c.api.History(ctx, city)
	if err != nil {
		return st.fail(message(err, MsgHistoryUnavailable))
	}
	return st.succeed(history)
}

// message picks the user-facing text for a failed call: unreachable service
// versus an error answer from it.
func message(err error, onStatus string) string {
	if weather.IsKind(err, weather.KindTransportFailure) || !IsStatusError(err) {
		return MsgServerUnreachable
	}
	return onStatus
}
