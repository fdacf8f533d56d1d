package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/KaranKool/mishtee-mitra/internal/gateway"
	"github.com/KaranKool/mishtee-mitra/internal/models"
	"github.com/KaranKool/mishtee-mitra/internal/utils"
)

const (
	tableAgents = "agents"
	tableJobs   = "jobs"

	jobSelect = "id,status,quantity,cod_amount,agent_id,created_at,customers(full_name,address,latitude,longitude)"
)

var _ gateway.Gateway = (*Client)(nil)

// LookupAgent asks for up to two matches so duplicates can be told apart
// from a unique hit.
func (c *Client) LookupAgent(ctx context.Context, phone string) (*models.Agent, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("phone_number", "eq."+phone)
	q.Set("limit", "2")

	var rows []agentRow
	if err := c.doRequest(ctx, http.MethodGet, tableAgents, q, nil, &rows, nil); err != nil {
		if gateway.IsUnavailable(err) {
			return nil, err
		}
		utils.Logger.WithError(err).Warn("Agent lookup query rejected")
		return nil, gateway.ErrAgentNotFound
	}
	if len(rows) != 1 {
		utils.Logger.Debugf("Agent lookup returned %d rows", len(rows))
		return nil, gateway.ErrAgentNotFound
	}
	return rows[0].toModel(), nil
}

func (c *Client) FetchActiveJob(ctx context.Context, agentID string) (*models.Job, error) {
	q := url.Values{}
	q.Set("select", jobSelect)
	q.Set("agent_id", "eq."+agentID)
	q.Set("status", "in.("+quotedStatuses(models.ActiveJobStatuses)+")")
	q.Set("order", "created_at.desc")
	q.Set("limit", "1")

	var rows []jobRow
	if err := c.doRequest(ctx, http.MethodGet, tableJobs, q, nil, &rows, nil); err != nil {
		return nil, fmt.Errorf("fetch active job for agent %s: %w", agentID, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toModel(), nil
}

func (c *Client) SetJobStatus(ctx context.Context, jobID string, status models.JobStatusType) error {
	q := url.Values{}
	q.Set("id", "eq."+jobID)
	q.Set("select", "id,status")

	var rows []statusRow
	err := c.doRequest(
		ctx,
		http.MethodPatch,
		tableJobs,
		q,
		statusPatch{Status: status},
		&rows,
		&requestOptions{Prefer: "return=representation"},
	)
	if err != nil {
		if gateway.IsUnavailable(err) {
			return err
		}
		reason := err.Error()
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			reason = apiErr.Message
		}
		return &gateway.UpdateError{JobID: jobID, Reason: reason, Err: err}
	}
	if len(rows) == 0 {
		return &gateway.UpdateError{JobID: jobID, Reason: "job not found"}
	}
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("limit", "1")
	var rows []agentRow
	return c.doRequest(ctx, http.MethodGet, tableAgents, q, nil, &rows, nil)
}

func quotedStatuses(statuses []models.JobStatusType) string {
	parts := make([]string, 0, len(statuses))
	for _, st := range statuses {
		parts = append(parts, `"`+string(st)+`"`)
	}
	return strings.Join(parts, ",")
}
