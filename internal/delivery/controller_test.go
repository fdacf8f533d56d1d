package delivery_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KaranKool/mishtee-mitra/internal/delivery"
	"github.com/KaranKool/mishtee-mitra/internal/gateway"
	"github.com/KaranKool/mishtee-mitra/internal/gateway/gatewaymock"
	"github.com/KaranKool/mishtee-mitra/internal/models"
)

func TestControllerDispatch(t *testing.T) {
	tests := map[string]struct {
		mock    func(m *gatewaymock.MockGateway)
		events  []delivery.Event
		expErr  error
		expView delivery.View
		check   func(t *testing.T, s delivery.State)
	}{
		"Logging in with a known phone should land on the dashboard with the job": {
			mock: func(m *gatewaymock.MockGateway) {
				m.On("LookupAgent", mock.Anything, "9876543210").Once().Return(testAgent, nil)
				m.On("FetchActiveJob", mock.Anything, "agent-1").Once().Return(jobWith(models.JobStatusPending), nil)
			},
			events:  []delivery.Event{delivery.SubmitPhone{Phone: "9876543210"}},
			expView: delivery.ViewDashboard,
			check: func(t *testing.T, s delivery.State) {
				assert.False(t, s.Loading)
				require.NotNil(t, s.Job)
				assert.Equal(t, "MT-1", s.Job.ID)
			},
		},

		"Logging in with an unknown phone should stay on login": {
			mock: func(m *gatewaymock.MockGateway) {
				m.On("LookupAgent", mock.Anything, "0000000000").Once().Return(nil, gateway.ErrAgentNotFound)
			},
			events:  []delivery.Event{delivery.SubmitPhone{Phone: "0000000000"}},
			expView: delivery.ViewLogin,
			check: func(t *testing.T, s delivery.State) {
				assert.Equal(t, delivery.MsgAgentNotFound, s.Error)
			},
		},

		"A lookup returning no agent and no error should count as not found": {
			mock: func(m *gatewaymock.MockGateway) {
				m.On("LookupAgent", mock.Anything, "1").Once().Return(nil, nil)
			},
			events:  []delivery.Event{delivery.SubmitPhone{Phone: "1"}},
			expView: delivery.ViewLogin,
			check: func(t *testing.T, s delivery.State) {
				assert.Equal(t, delivery.MsgAgentNotFound, s.Error)
			},
		},

		"A failing job fetch should still open the empty dashboard": {
			mock: func(m *gatewaymock.MockGateway) {
				m.On("LookupAgent", mock.Anything, "9876543210").Once().Return(testAgent, nil)
				m.On("FetchActiveJob", mock.Anything, "agent-1").Once().Return(nil, errors.New("relation does not exist"))
			},
			events:  []delivery.Event{delivery.SubmitPhone{Phone: "9876543210"}},
			expView: delivery.ViewDashboard,
			check: func(t *testing.T, s delivery.State) {
				assert.Nil(t, s.Job)
			},
		},

		"The full lifecycle should reach success and then the next job": {
			mock: func(m *gatewaymock.MockGateway) {
				m.On("LookupAgent", mock.Anything, "9876543210").Once().Return(testAgent, nil)
				m.On("FetchActiveJob", mock.Anything, "agent-1").Once().Return(jobWith(models.JobStatusPending), nil)
				m.On("SetJobStatus", mock.Anything, "MT-1", models.JobStatusOutForDelivery).Once().Return(nil)
				m.On("SetJobStatus", mock.Anything, "MT-1", models.JobStatusDelivered).Once().Return(nil)
				m.On("FetchActiveJob", mock.Anything, "agent-1").Once().Return(nil, nil)
			},
			events: []delivery.Event{
				delivery.SubmitPhone{Phone: "9876543210"},
				delivery.StartRoute{},
				delivery.MarkDelivered{},
				delivery.ConfirmDelivery{Recipient: "Mrs. Mehta"},
				delivery.FindNext{},
			},
			expView: delivery.ViewDashboard,
			check: func(t *testing.T, s delivery.State) {
				assert.Nil(t, s.Job)
				assert.Empty(t, s.Recipient)
				assert.Empty(t, s.DeliveredJobID)
			},
		},

		"A rejected delivery should keep the form open": {
			mock: func(m *gatewaymock.MockGateway) {
				m.On("LookupAgent", mock.Anything, "9876543210").Once().Return(testAgent, nil)
				m.On("FetchActiveJob", mock.Anything, "agent-1").Once().Return(jobWith(models.JobStatusOutForDelivery), nil)
				m.On("SetJobStatus", mock.Anything, "MT-1", models.JobStatusDelivered).Once().
					Return(&gateway.UpdateError{JobID: "MT-1", Reason: "permission denied"})
			},
			events: []delivery.Event{
				delivery.SubmitPhone{Phone: "9876543210"},
				delivery.MarkDelivered{},
				delivery.ConfirmDelivery{Recipient: "Mrs. Mehta"},
			},
			expView: delivery.ViewPOD,
			check: func(t *testing.T, s delivery.State) {
				assert.Equal(t, "Could not update order: permission denied", s.Alert)
				assert.Equal(t, models.JobStatusOutForDelivery, s.Job.Status)
			},
		},

		"A blank recipient should not reach the store": {
			mock: func(m *gatewaymock.MockGateway) {
				m.On("LookupAgent", mock.Anything, "9876543210").Once().Return(testAgent, nil)
				m.On("FetchActiveJob", mock.Anything, "agent-1").Once().Return(jobWith(models.JobStatusOutForDelivery), nil)
			},
			events: []delivery.Event{
				delivery.SubmitPhone{Phone: "9876543210"},
				delivery.MarkDelivered{},
				delivery.ConfirmDelivery{Recipient: ""},
			},
			expView: delivery.ViewPOD,
			check: func(t *testing.T, s delivery.State) {
				assert.Equal(t, delivery.MsgRecipientRequired, s.Alert)
			},
		},

		"A precondition failure should be returned without calling the store": {
			mock:    func(m *gatewaymock.MockGateway) {},
			events:  []delivery.Event{delivery.StartRoute{}},
			expErr:  delivery.ErrNotAllowed,
			expView: delivery.ViewLogin,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			m := &gatewaymock.MockGateway{}
			test.mock(m)

			c := delivery.NewController(m, time.Second)

			var err error
			for _, ev := range test.events {
				_, err = c.Dispatch(context.Background(), ev)
			}

			if test.expErr != nil {
				assert.ErrorIs(t, err, test.expErr)
			} else {
				assert.NoError(t, err)
			}

			s := c.State()
			assert.Equal(t, test.expView, s.View)
			if test.check != nil {
				test.check(t, s)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestControllerBusyGuard(t *testing.T) {
	release := make(chan time.Time)
	m := &gatewaymock.MockGateway{}
	m.On("LookupAgent", mock.Anything, "9876543210").Once().
		WaitUntil(release).
		Return(testAgent, nil)
	m.On("FetchActiveJob", mock.Anything, "agent-1").Once().Return(nil, nil)

	c := delivery.NewController(m, 5*time.Second)

	done := make(chan error, 1)
	go func() {
		_, err := c.Dispatch(context.Background(), delivery.SubmitPhone{Phone: "9876543210"})
		done <- err
	}()

	require.Eventually(t, func() bool { return c.State().Loading }, time.Second, 5*time.Millisecond)

	_, err := c.Dispatch(context.Background(), delivery.SubmitPhone{Phone: "9876543210"})
	assert.ErrorIs(t, err, delivery.ErrBusy)
	_, err = c.Dispatch(context.Background(), delivery.Logout{})
	assert.ErrorIs(t, err, delivery.ErrBusy)

	close(release)
	require.NoError(t, <-done)

	s := c.State()
	assert.False(t, s.Loading)
	assert.Equal(t, delivery.ViewDashboard, s.View)
	m.AssertExpectations(t)
}

func TestControllerTimeoutSurfacesAsConnectionFailure(t *testing.T) {
	release := make(chan time.Time)
	defer close(release)

	m := &gatewaymock.MockGateway{}
	m.On("LookupAgent", mock.Anything, "9876543210").Once().
		WaitUntil(release).
		Return(testAgent, nil)

	c := delivery.NewController(m, 20*time.Millisecond)

	s, err := c.Dispatch(context.Background(), delivery.SubmitPhone{Phone: "9876543210"})
	require.NoError(t, err)
	assert.False(t, s.Loading)
	assert.Equal(t, delivery.ViewLogin, s.View)
	assert.Equal(t, delivery.MsgConnectionFailed, s.Error)
}

func TestControllerIgnoresCallerCancellation(t *testing.T) {
	m := &gatewaymock.MockGateway{}
	m.On("LookupAgent", mock.Anything, "9876543210").Once().
		After(30*time.Millisecond).
		Return(testAgent, nil)
	m.On("FetchActiveJob", mock.Anything, "agent-1").Once().Return(nil, nil)

	c := delivery.NewController(m, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := c.Dispatch(ctx, delivery.SubmitPhone{Phone: "9876543210"})
	require.NoError(t, err)
	assert.Equal(t, delivery.ViewDashboard, s.View)
	m.AssertExpectations(t)
}
