//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaranKool/mishtee-mitra/internal/delivery"
	"github.com/KaranKool/mishtee-mitra/internal/gateway"
	"github.com/KaranKool/mishtee-mitra/internal/gateway/postgres"
	"github.com/KaranKool/mishtee-mitra/internal/models"
)

func seedRows(t *testing.T, ctx context.Context) {
	t.Helper()
	now := time.Now().UTC()

	for _, stmt := range []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO agents (id, phone_number, name) VALUES ($1, $2, $3)`, []any{"it-ravi", "7000000001", "Ravi"}},
		{`INSERT INTO agents (id, phone_number, name) VALUES ($1, $2, $3)`, []any{"it-dup-1", "7000000002", "Dup One"}},
		{`INSERT INTO agents (id, phone_number, name) VALUES ($1, $2, $3)`, []any{"it-dup-2", "7000000002", "Dup Two"}},
		{`INSERT INTO customers (id, full_name, address, latitude, longitude) VALUES ($1, $2, $3, $4, $5)`,
			[]any{"it-mehta", "Arjun Mehta", "Andheri West", 19.1364, 72.8296}},
		{`INSERT INTO jobs (id, status, quantity, agent_id, customer_id, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			[]any{"IT-1", "Delivered", 1, "it-ravi", "it-mehta", now.Add(-2 * time.Hour)}},
		{`INSERT INTO jobs (id, status, quantity, cod_amount, agent_id, customer_id, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			[]any{"IT-2", "Pending", 2, 450, "it-ravi", "it-mehta", now.Add(-1 * time.Hour)}},
	} {
		_, err := pool.Exec(ctx, stmt.sql, stmt.args...)
		require.NoError(t, err)
	}

	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM jobs; DELETE FROM customers; DELETE FROM agents;`)
	})
}

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()
	seedRows(t, ctx)
	store := postgres.NewStore(pool)

	require.NoError(t, store.Ping(ctx))

	agent, err := store.LookupAgent(ctx, "7000000001")
	require.NoError(t, err)
	assert.Equal(t, &models.Agent{ID: "it-ravi", Name: "Ravi", PhoneNumber: "7000000001"}, agent)

	_, err = store.LookupAgent(ctx, "7000000002")
	assert.ErrorIs(t, err, gateway.ErrAgentNotFound)
	_, err = store.LookupAgent(ctx, "0000000000")
	assert.ErrorIs(t, err, gateway.ErrAgentNotFound)

	job, err := store.FetchActiveJob(ctx, "it-ravi")
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, "IT-2", job.ID)
	assert.Equal(t, "2", job.Quantity)
	assert.Equal(t, "450.00", job.Payment)
	assert.Equal(t, "Arjun Mehta", job.CustomerName)
	assert.True(t, job.HasCoordinates())

	require.NoError(t, store.SetJobStatus(ctx, "IT-2", models.JobStatusDelivered))
	require.NoError(t, store.SetJobStatus(ctx, "IT-2", models.JobStatusDelivered))

	job, err = store.FetchActiveJob(ctx, "it-ravi")
	require.NoError(t, err)
	assert.Nil(t, job)

	var upd *gateway.UpdateError
	err = store.SetJobStatus(ctx, "IT-404", models.JobStatusDelivered)
	require.ErrorAs(t, err, &upd)
	assert.Equal(t, "job not found", upd.Reason)
}

func TestPostgresDeliveryFlow(t *testing.T) {
	ctx := context.Background()
	seedRows(t, ctx)

	c := delivery.NewController(postgres.NewStore(pool), 5*time.Second)

	s, err := c.Dispatch(ctx, delivery.SubmitPhone{Phone: "7000000001"})
	require.NoError(t, err)
	require.Equal(t, delivery.ViewDashboard, s.View)
	require.NotNil(t, s.Job)

	for _, ev := range []delivery.Event{
		delivery.StartRoute{},
		delivery.MarkDelivered{},
		delivery.ConfirmDelivery{Recipient: "Security desk"},
	} {
		s, err = c.Dispatch(ctx, ev)
		require.NoError(t, err)
	}
	assert.Equal(t, delivery.ViewSuccess, s.View)
	assert.Equal(t, "IT-2", s.DeliveredJobID)

	var status string
	require.NoError(t, pool.QueryRow(ctx, `SELECT status FROM jobs WHERE id = 'IT-2'`).Scan(&status))
	assert.Equal(t, string(models.JobStatusDelivered), status)
}

func TestPostgresSeedIsRepeatable(t *testing.T) {
	ctx := context.Background()
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM jobs; DELETE FROM customers; DELETE FROM agents;`)
	})

	require.NoError(t, postgres.SeedDemoData(ctx, pool))
	require.NoError(t, postgres.SeedDemoData(ctx, pool))

	var n int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM agents`).Scan(&n))
	assert.Equal(t, 2, n)

	store := postgres.NewStore(pool)
	agent, err := store.LookupAgent(ctx, "+9990000001")
	require.NoError(t, err)
	job, err := store.FetchActiveJob(ctx, agent.ID)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, models.JobStatusPending, job.Status)
}
