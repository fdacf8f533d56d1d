// Package postgres serves the gateway straight from the store's SQL tables.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"

	"github.com/KaranKool/mishtee-mitra/internal/gateway"
	"github.com/KaranKool/mishtee-mitra/internal/models"
	"github.com/KaranKool/mishtee-mitra/internal/utils"
)

type Store struct {
	db     DB
	agents AgentRepository
	jobs   JobRepository
}

var _ gateway.Gateway = (*Store)(nil)

func NewStore(db DB) *Store {
	return &Store{
		db:     db,
		agents: NewAgentRepository(db),
		jobs:   NewJobRepository(db),
	}
}

func (s *Store) LookupAgent(ctx context.Context, phone string) (*models.Agent, error) {
	agents, err := s.agents.ListByPhoneNumber(ctx, phone, 2)
	if err != nil {
		if cerr := classify(err); gateway.IsUnavailable(cerr) {
			return nil, cerr
		}
		utils.Logger.WithError(err).Warn("Agent lookup query rejected")
		return nil, gateway.ErrAgentNotFound
	}
	if len(agents) != 1 {
		return nil, gateway.ErrAgentNotFound
	}
	return agents[0], nil
}

func (s *Store) FetchActiveJob(ctx context.Context, agentID string) (*models.Job, error) {
	job, err := s.jobs.GetLatestActiveForAgent(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("fetch active job for agent %s: %w", agentID, classify(err))
	}
	return job, nil
}

func (s *Store) SetJobStatus(ctx context.Context, jobID string, status models.JobStatusType) error {
	n, err := s.jobs.UpdateStatus(ctx, jobID, status)
	if err != nil {
		cerr := classify(err)
		if gateway.IsUnavailable(cerr) {
			return cerr
		}
		reason := err.Error()
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			reason = pgErr.Message
		}
		return &gateway.UpdateError{JobID: jobID, Reason: reason, Err: err}
	}
	if n == 0 {
		return &gateway.UpdateError{JobID: jobID, Reason: "job not found"}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return classify(s.db.Ping(ctx))
}
