// Package gatewaymock provides a testify mock of gateway.Gateway.
package gatewaymock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/KaranKool/mishtee-mitra/internal/gateway"
	"github.com/KaranKool/mishtee-mitra/internal/models"
)

type MockGateway struct {
	mock.Mock
}

var _ gateway.Gateway = (*MockGateway)(nil)

func (m *MockGateway) LookupAgent(ctx context.Context, phone string) (*models.Agent, error) {
	args := m.Called(ctx, phone)
	var agent *models.Agent
	if v := args.Get(0); v != nil {
		agent = v.(*models.Agent)
	}
	return agent, args.Error(1)
}

func (m *MockGateway) FetchActiveJob(ctx context.Context, agentID string) (*models.Job, error) {
	args := m.Called(ctx, agentID)
	var job *models.Job
	if v := args.Get(0); v != nil {
		job = v.(*models.Job)
	}
	return job, args.Error(1)
}

func (m *MockGateway) SetJobStatus(ctx context.Context, jobID string, status models.JobStatusType) error {
	args := m.Called(ctx, jobID, status)
	return args.Error(0)
}

func (m *MockGateway) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
