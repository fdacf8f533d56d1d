package delivery

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaranKool/mishtee-mitra/internal/gateway"
	"github.com/KaranKool/mishtee-mitra/internal/models"
)

var (
	// ErrBusy is returned for any user event while a call is in flight.
	ErrBusy = errors.New("busy")

	// ErrNotAllowed is returned when an event's precondition does not hold
	// in the current state.
	ErrNotAllowed = errors.New("event_not_allowed")

	// ErrUnexpectedResult is returned for a gateway outcome that does not
	// answer the call in flight.
	ErrUnexpectedResult = errors.New("unexpected_result")
)

// Transition applies e to s. It never performs I/O; when the next step needs
// the store it returns the Effect to run and marks the returned state as
// loading. On error the returned state is s unchanged.
func Transition(s State, e Event) (State, Effect, error) {
	if e.fromUser() && s.Loading {
		return s, nil, ErrBusy
	}
	if !e.fromUser() && !s.Loading {
		return s, nil, ErrUnexpectedResult
	}

	next := s.Clone()

	switch ev := e.(type) {

	// ----------------------------------------------------------------
	// User actions
	// ----------------------------------------------------------------

	case SubmitPhone:
		if next.View != ViewLogin {
			return s, nil, ErrNotAllowed
		}
		next.Error = ""
		phone := strings.TrimSpace(ev.Phone)
		if phone == "" {
			next.Error = MsgPhoneRequired
			return next, nil, nil
		}
		return next.begin(EffectLookupAgent{Phone: phone})

	case StartRoute:
		if !next.CanStartRoute() {
			return s, nil, ErrNotAllowed
		}
		return next.begin(EffectSetJobStatus{JobID: next.Job.ID, Status: models.JobStatusOutForDelivery})

	case MarkDelivered:
		if !next.CanMarkDelivered() {
			return s, nil, ErrNotAllowed
		}
		next.View = ViewPOD
		next.Recipient = ""
		next.Alert = ""
		return next, nil, nil

	case ConfirmDelivery:
		if next.View != ViewPOD || next.Job == nil || next.Job.Status != models.JobStatusOutForDelivery {
			return s, nil, ErrNotAllowed
		}
		recipient := strings.TrimSpace(ev.Recipient)
		if recipient == "" {
			next.Alert = MsgRecipientRequired
			return next, nil, nil
		}
		next.Recipient = recipient
		return next.begin(EffectSetJobStatus{JobID: next.Job.ID, Status: models.JobStatusDelivered})

	case CancelPOD:
		if next.View != ViewPOD {
			return s, nil, ErrNotAllowed
		}
		next.View = ViewDashboard
		next.Alert = ""
		return next, nil, nil

	case FindNext:
		if next.View != ViewSuccess || next.Agent == nil {
			return s, nil, ErrNotAllowed
		}
		next.Recipient = ""
		return next.begin(EffectFetchActiveJob{AgentID: next.Agent.ID})

	case ToggleOnline:
		if next.View != ViewDashboard {
			return s, nil, ErrNotAllowed
		}
		next.Online = !next.Online
		return next, nil, nil

	case DismissAlert:
		next.Alert = ""
		return next, nil, nil

	case Logout:
		return NewState(), nil, nil

	// ----------------------------------------------------------------
	// Gateway outcomes
	// ----------------------------------------------------------------

	case AgentResolved:
		if _, ok := next.InFlight.(EffectLookupAgent); !ok || ev.Agent == nil {
			return s, nil, ErrUnexpectedResult
		}
		next.Agent = ev.Agent
		return next.begin(EffectFetchActiveJob{AgentID: ev.Agent.ID})

	case AgentRejected:
		if _, ok := next.InFlight.(EffectLookupAgent); !ok {
			return s, nil, ErrUnexpectedResult
		}
		next.finish()
		next.Agent = nil
		if gateway.IsUnavailable(ev.Err) {
			next.Error = MsgConnectionFailed
		} else {
			next.Error = MsgAgentNotFound
		}
		return next, nil, nil

	case JobLoaded:
		if _, ok := next.InFlight.(EffectFetchActiveJob); !ok {
			return s, nil, ErrUnexpectedResult
		}
		next.finish()
		next.View = ViewDashboard
		next.Error = ""
		next.DeliveredJobID = ""
		next.Job = nil
		if ev.Err == nil && ev.Job != nil && ev.Job.Status.IsActive() {
			next.Job = ev.Job.Clone()
		}
		return next, nil, nil

	case StatusApplied:
		req, ok := next.InFlight.(EffectSetJobStatus)
		if !ok || req.JobID != ev.JobID || req.Status != ev.Status || next.Job == nil {
			return s, nil, ErrUnexpectedResult
		}
		next.finish()
		next.Job.Status = ev.Status
		if ev.Status == models.JobStatusDelivered {
			next.View = ViewSuccess
			next.DeliveredJobID = ev.JobID
		}
		return next, nil, nil

	case StatusRejected:
		if _, ok := next.InFlight.(EffectSetJobStatus); !ok {
			return s, nil, ErrUnexpectedResult
		}
		next.finish()
		reason := ev.Reason
		if reason == "" && ev.Err != nil {
			reason = gateway.Reason(ev.Err)
		}
		next.Alert = fmt.Sprintf(msgUpdateFailedFmt, reason)
		return next, nil, nil
	}

	return s, nil, fmt.Errorf("%w: %T", ErrNotAllowed, e)
}

// begin starts a call. Any alert belongs to the previous attempt.
func (s State) begin(eff Effect) (State, Effect, error) {
	s.Alert = ""
	s.Loading = true
	s.InFlight = eff
	return s, eff, nil
}

func (s *State) finish() {
	s.Loading = false
	s.InFlight = nil
}
