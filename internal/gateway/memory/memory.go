package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/KaranKool/mishtee-mitra/internal/gateway"
	"github.com/KaranKool/mishtee-mitra/internal/models"
	"github.com/KaranKool/mishtee-mitra/internal/utils"
)

// Customer is the joined customer record of a job.
type Customer struct {
	ID        string
	FullName  string
	Address   string
	Latitude  *float64
	Longitude *float64
}

// JobRecord is a job row as stored, before the customer join.
type JobRecord struct {
	ID         string
	Status     models.JobStatusType
	Quantity   string
	Payment    string
	AgentID    string
	CustomerID string
	CreatedAt  time.Time
}

// Store is an in-process implementation of gateway.Gateway.
type Store struct {
	mu        sync.RWMutex
	agents    map[string]models.Agent
	customers map[string]Customer
	jobs      map[string]JobRecord
}

var _ gateway.Gateway = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		agents:    make(map[string]models.Agent),
		customers: make(map[string]Customer),
		jobs:      make(map[string]JobRecord),
	}
}

func (s *Store) PutAgent(a models.Agent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agents[a.ID] = a
}

func (s *Store) PutCustomer(c Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = c
}

func (s *Store) PutJob(j JobRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}
	s.jobs[j.ID] = j
}

// JobStatus returns the stored status of a job, for assertions and seeding.
func (s *Store) JobStatus(jobID string) (models.JobStatusType, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[jobID]
	return j.Status, ok
}

func (s *Store) LookupAgent(ctx context.Context, phone string) (*models.Agent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", gateway.ErrUnavailable, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []models.Agent
	for _, a := range s.agents {
		if a.PhoneNumber == phone {
			matches = append(matches, a)
		}
	}
	if len(matches) != 1 {
		utils.Logger.Debugf("memory: %d agents match phone lookup", len(matches))
		return nil, gateway.ErrAgentNotFound
	}
	agent := matches[0]
	return &agent, nil
}

func (s *Store) FetchActiveJob(ctx context.Context, agentID string) (*models.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", gateway.ErrUnavailable, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var active []JobRecord
	for _, j := range s.jobs {
		if j.AgentID == agentID && j.Status.IsActive() {
			active = append(active, j)
		}
	}
	if len(active) == 0 {
		return nil, nil
	}
	sort.Slice(active, func(a, b int) bool {
		return active[a].CreatedAt.After(active[b].CreatedAt)
	})

	rec := active[0]
	job := &models.Job{
		ID:        rec.ID,
		Status:    rec.Status,
		Quantity:  rec.Quantity,
		Payment:   rec.Payment,
		AgentID:   rec.AgentID,
		CreatedAt: rec.CreatedAt,
	}
	if c, ok := s.customers[rec.CustomerID]; ok {
		job.CustomerName = c.FullName
		job.Address = c.Address
		job.Latitude = c.Latitude
		job.Longitude = c.Longitude
	}
	return job.Clone(), nil
}

func (s *Store) SetJobStatus(ctx context.Context, jobID string, status models.JobStatusType) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", gateway.ErrUnavailable, err)
	}
	if !status.IsValid() {
		return &gateway.UpdateError{JobID: jobID, Reason: fmt.Sprintf("invalid status %q", status)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return &gateway.UpdateError{JobID: jobID, Reason: "job not found"}
	}
	j.Status = status
	s.jobs[jobID] = j
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}
