package delivery

import "github.com/KaranKool/mishtee-mitra/internal/models"

// Event is either a user action or the outcome of a gateway call.
type Event interface {
	eventName() string
	fromUser() bool
}

type userEvent struct{}

func (userEvent) fromUser() bool { return true }

type resultEvent struct{}

func (resultEvent) fromUser() bool { return false }

// ----------------------------------------------------------------
// User actions
// ----------------------------------------------------------------

type SubmitPhone struct {
	userEvent
	Phone string
}

type StartRoute struct{ userEvent }

type MarkDelivered struct{ userEvent }

type ConfirmDelivery struct {
	userEvent
	Recipient string
}

type CancelPOD struct{ userEvent }

type FindNext struct{ userEvent }

type ToggleOnline struct{ userEvent }

type DismissAlert struct{ userEvent }

type Logout struct{ userEvent }

func (SubmitPhone) eventName() string     { return "submit_phone" }
func (StartRoute) eventName() string      { return "start_route" }
func (MarkDelivered) eventName() string   { return "mark_delivered" }
func (ConfirmDelivery) eventName() string { return "confirm_delivery" }
func (CancelPOD) eventName() string       { return "cancel_pod" }
func (FindNext) eventName() string        { return "find_next" }
func (ToggleOnline) eventName() string    { return "toggle_online" }
func (DismissAlert) eventName() string    { return "dismiss_alert" }
func (Logout) eventName() string          { return "logout" }

// ----------------------------------------------------------------
// Gateway outcomes
// ----------------------------------------------------------------

type AgentResolved struct {
	resultEvent
	Agent *models.Agent
}

type AgentRejected struct {
	resultEvent
	Err error
}

// JobLoaded carries the fetched job. A nil Job means no active assignment;
// Err is kept for logging only, a failed fetch renders like an empty one.
type JobLoaded struct {
	resultEvent
	Job *models.Job
	Err error
}

type StatusApplied struct {
	resultEvent
	JobID  string
	Status models.JobStatusType
}

type StatusRejected struct {
	resultEvent
	Reason string
	Err    error
}

func (AgentResolved) eventName() string  { return "agent_resolved" }
func (AgentRejected) eventName() string  { return "agent_rejected" }
func (JobLoaded) eventName() string      { return "job_loaded" }
func (StatusApplied) eventName() string  { return "status_applied" }
func (StatusRejected) eventName() string { return "status_rejected" }

// EventName exposes the stable name of an event for logging.
func EventName(e Event) string {
	return e.eventName()
}
