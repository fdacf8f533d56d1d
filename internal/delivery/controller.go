package delivery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/KaranKool/mishtee-mitra/internal/gateway"
	"github.com/KaranKool/mishtee-mitra/internal/models"
	"github.com/KaranKool/mishtee-mitra/internal/utils"
)

// DefaultRequestTimeout bounds every gateway call when none is configured.
const DefaultRequestTimeout = 10 * time.Second

// Controller owns the State of one session and runs the effects Transition
// asks for. It is safe for concurrent use; overlapping Dispatch calls are
// turned away by the busy guard.
type Controller struct {
	mu      sync.Mutex
	state   State
	gw      gateway.Gateway
	timeout time.Duration
}

func NewController(gw gateway.Gateway, timeout time.Duration) *Controller {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Controller{
		state:   NewState(),
		gw:      gw,
		timeout: timeout,
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Dispatch applies a user event and, if it starts a call, waits for the
// call chain to settle. The lock is not held while the store is contacted,
// so a concurrent Dispatch observes Loading and gets ErrBusy.
func (c *Controller) Dispatch(ctx context.Context, ev Event) (State, error) {
	c.mu.Lock()
	next, eff, err := Transition(c.state, ev)
	if err != nil {
		snap := c.state.Clone()
		c.mu.Unlock()
		return snap, err
	}
	c.state = next
	agentID := agentIDOf(next)
	c.mu.Unlock()

	log := utils.Logger.WithFields(logrus.Fields{
		"event": EventName(ev),
		"agent": agentID,
	})

	for eff != nil {
		result := c.run(ctx, log, eff)

		c.mu.Lock()
		next, eff, err = Transition(c.state, result)
		if err != nil {
			// Only reachable if the state was mutated behind our back.
			log.WithError(err).Errorf("Dropping %s result", EventName(result))
			c.state.Loading = false
			c.state.InFlight = nil
			eff = nil
		} else {
			c.state = next
		}
		c.mu.Unlock()
	}

	return c.State(), nil
}

// run performs one effect under the request timeout and converts its
// outcome into a result event. A remote call is never abandoned by the
// caller going away, only by the timeout.
func (c *Controller) run(ctx context.Context, log *logrus.Entry, eff Effect) Event {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	switch e := eff.(type) {
	case EffectLookupAgent:
		agent, err := call(callCtx, func(ctx context.Context) (*models.Agent, error) {
			return c.gw.LookupAgent(ctx, e.Phone)
		})
		if err == nil && agent == nil {
			err = gateway.ErrAgentNotFound
		}
		if err != nil {
			log.WithError(err).Warn("Agent lookup failed")
			return AgentRejected{Err: err}
		}
		log.WithField("agent", agent.ID).Info("Agent signed in")
		return AgentResolved{Agent: agent}

	case EffectFetchActiveJob:
		job, err := call(callCtx, func(ctx context.Context) (*models.Job, error) {
			return c.gw.FetchActiveJob(ctx, e.AgentID)
		})
		if err != nil {
			log.WithError(err).Warn("Active job fetch failed, showing empty dashboard")
		}
		return JobLoaded{Job: job, Err: err}

	case EffectSetJobStatus:
		_, err := call(callCtx, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.gw.SetJobStatus(ctx, e.JobID, e.Status)
		})
		if err != nil {
			log.WithError(err).WithField("job", e.JobID).Warn("Job status update rejected")
			return StatusRejected{Reason: gateway.Reason(err), Err: err}
		}
		log.WithFields(logrus.Fields{"job": e.JobID, "status": e.Status}).Info("Job status updated")
		return StatusApplied{JobID: e.JobID, Status: e.Status}
	}

	panic(fmt.Sprintf("delivery: unknown effect %T", eff))
}

// call runs fn and gives up when ctx is done, even if fn ignores ctx.
func call[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("%w: %w", gateway.ErrUnavailable, ctx.Err())
	}
}

func agentIDOf(s State) string {
	if s.Agent == nil {
		return ""
	}
	return s.Agent.ID
}
