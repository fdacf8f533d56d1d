package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"

	"github.com/KaranKool/mishtee-mitra/internal/models"
)

type AgentRepository interface {
	ListByPhoneNumber(ctx context.Context, phone string, limit int) ([]*models.Agent, error)
}

type agentRepo struct {
	db DB
}

func NewAgentRepository(db DB) AgentRepository {
	return &agentRepo{db}
}

func (r *agentRepo) ListByPhoneNumber(ctx context.Context, phone string, limit int) ([]*models.Agent, error) {
	q := baseSelectAgent() + " WHERE phone_number=$1 LIMIT $2"
	rows, err := r.db.Query(ctx, q, phone, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func baseSelectAgent() string {
	return `
        SELECT
            id::text, COALESCE(name, ''), phone_number
        FROM agents
    `
}

func scanAgent(row pgx.Row) (*models.Agent, error) {
	var a models.Agent
	if err := row.Scan(&a.ID, &a.Name, &a.PhoneNumber); err != nil {
		return nil, err
	}
	return &a, nil
}
