package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/KaranKool/mishtee-mitra/internal/models"
)

type JobRepository interface {
	GetLatestActiveForAgent(ctx context.Context, agentID string) (*models.Job, error)
	UpdateStatus(ctx context.Context, jobID string, status models.JobStatusType) (int64, error)
}

type jobRepo struct {
	db DB
}

func NewJobRepository(db DB) JobRepository {
	return &jobRepo{db: db}
}

func baseSelectJob() string {
	return `
        SELECT
            j.id::text, j.status, COALESCE(j.quantity::text, ''), COALESCE(j.cod_amount::text, ''),
            j.agent_id::text, j.created_at,
            COALESCE(c.full_name, ''), COALESCE(c.address, ''), c.latitude, c.longitude
        FROM jobs j
        LEFT JOIN customers c ON c.id = j.customer_id
    `
}

func scanJob(row pgx.Row) (*models.Job, error) {
	var (
		j      models.Job
		status string
	)
	err := row.Scan(
		&j.ID,
		&status,
		&j.Quantity,
		&j.Payment,
		&j.AgentID,
		&j.CreatedAt,
		&j.CustomerName,
		&j.Address,
		&j.Latitude,
		&j.Longitude,
	)
	if err != nil {
		return nil, err
	}
	j.Status = models.JobStatusType(status)
	return &j, nil
}

// GetLatestActiveForAgent returns nil when the agent has no open job.
func (r *jobRepo) GetLatestActiveForAgent(ctx context.Context, agentID string) (*models.Job, error) {
	statuses := make([]string, 0, len(models.ActiveJobStatuses))
	for _, st := range models.ActiveJobStatuses {
		statuses = append(statuses, string(st))
	}

	q := baseSelectJob() + `
        WHERE j.agent_id::text = $1
          AND j.status = ANY($2)
        ORDER BY j.created_at DESC
        LIMIT 1
    `
	job, err := scanJob(r.db.QueryRow(ctx, q, agentID, statuses))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return job, err
}

// UpdateStatus reports the number of matched rows. Postgres counts a row
// whose value does not change, so repeating a status still reports 1.
func (r *jobRepo) UpdateStatus(ctx context.Context, jobID string, status models.JobStatusType) (int64, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE jobs
        SET status=$1
        WHERE id::text=$2
    `, string(status), jobID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
