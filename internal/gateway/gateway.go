// Package gateway defines the only point of contact between the delivery
// dashboard and the remote data store.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/KaranKool/mishtee-mitra/internal/models"
)

var (
	// ErrAgentNotFound covers zero matches, duplicate matches and rejected
	// lookup queries alike.
	ErrAgentNotFound = errors.New("agent_not_found")

	// ErrUnavailable is returned when the store could not be reached or did
	// not answer in time.
	ErrUnavailable = errors.New("data_store_unavailable")
)

// UpdateError is a status update the store refused.
type UpdateError struct {
	JobID  string
	Reason string
	Err    error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("update of job %s rejected: %s", e.JobID, e.Reason)
}

func (e *UpdateError) Unwrap() error {
	return e.Err
}

// Gateway is implemented by every data store backend.
type Gateway interface {
	// LookupAgent returns the single agent registered under phone.
	LookupAgent(ctx context.Context, phone string) (*models.Agent, error)

	// FetchActiveJob returns the agent's most recently created job that is
	// not yet delivered, or nil when there is none.
	FetchActiveJob(ctx context.Context, agentID string) (*models.Job, error)

	// SetJobStatus writes status to the job. Writing the status a job already
	// has succeeds without further effect.
	SetJobStatus(ctx context.Context, jobID string, status models.JobStatusType) error

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}

// IsUnavailable reports whether err is a transport failure or a deadline.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

// Reason extracts the user-facing reason from a SetJobStatus error.
func Reason(err error) string {
	var upd *UpdateError
	if errors.As(err, &upd) && upd.Reason != "" {
		return upd.Reason
	}
	if IsUnavailable(err) {
		return "connection failed"
	}
	return err.Error()
}
