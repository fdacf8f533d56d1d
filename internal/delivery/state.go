// Package delivery holds the dashboard's view state machine. Transition is a
// pure function of (State, Event); Controller runs the gateway calls a
// transition asks for and feeds their outcome back in.
package delivery

import "github.com/KaranKool/mishtee-mitra/internal/models"

type View string

const (
	ViewLogin     View = "LOGIN"
	ViewDashboard View = "DASHBOARD"
	ViewPOD       View = "POD"
	ViewSuccess   View = "SUCCESS"
)

// State is everything one agent's dashboard shows.
type State struct {
	View View

	// Loading is set while a gateway call is in flight. It doubles as the
	// busy guard: no user event is accepted while it is true.
	Loading  bool
	InFlight Effect

	// Error is the inline message of the LOGIN view.
	Error string
	// Alert is a blocking message shown over DASHBOARD or POD.
	Alert string

	Agent *models.Agent
	Job   *models.Job

	// Recipient is the proof-of-delivery input.
	Recipient string

	// DeliveredJobID is the job confirmed on the way into SUCCESS.
	DeliveredJobID string

	// Online is the local availability toggle. Never sent to the store.
	Online bool
}

// NewState is the state of a fresh session.
func NewState() State {
	return State{View: ViewLogin, Online: true}
}

// Clone returns a copy that shares no pointers with s.
func (s State) Clone() State {
	c := s
	c.Job = s.Job.Clone()
	if s.Agent != nil {
		a := *s.Agent
		c.Agent = &a
	}
	return c
}

func (s State) HasJob() bool {
	return s.Job != nil
}

// CanStartRoute mirrors the StartRoute precondition.
func (s State) CanStartRoute() bool {
	return !s.Loading && s.View == ViewDashboard && s.Job != nil && s.Job.Status == models.JobStatusPending
}

// CanMarkDelivered mirrors the MarkDelivered precondition.
func (s State) CanMarkDelivered() bool {
	return !s.Loading && s.View == ViewDashboard && s.Job != nil && s.Job.Status == models.JobStatusOutForDelivery
}
