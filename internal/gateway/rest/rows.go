package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/KaranKool/mishtee-mitra/internal/models"
)

// flexID accepts both numeric and string primary keys.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

// opaque keeps a scalar as the store rendered it: strings verbatim, numbers
// in their literal form, null as empty.
type opaque string

func (o *opaque) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*o = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*o = opaque(s)
	default:
		*o = opaque(b)
	}
	return nil
}

// flexTime accepts timestamptz and plain timestamp renderings.
type flexTime time.Time

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
}

func (f *flexTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*f = flexTime(time.Time{})
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*f = flexTime(t.UTC())
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

type agentRow struct {
	ID          flexID `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

func (r agentRow) toModel() *models.Agent {
	return &models.Agent{
		ID:          string(r.ID),
		Name:        r.Name,
		PhoneNumber: r.PhoneNumber,
	}
}

type customerRow struct {
	FullName  string   `json:"full_name"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type jobRow struct {
	ID        flexID       `json:"id"`
	Status    string       `json:"status"`
	Quantity  opaque       `json:"quantity"`
	Payment   opaque       `json:"cod_amount"`
	AgentID   flexID       `json:"agent_id"`
	CreatedAt flexTime     `json:"created_at"`
	Customer  *customerRow `json:"customers"`
}

func (r jobRow) toModel() *models.Job {
	job := &models.Job{
		ID:        string(r.ID),
		Status:    models.JobStatusType(strings.TrimSpace(r.Status)),
		AgentID:   string(r.AgentID),
		CreatedAt: time.Time(r.CreatedAt),
		Quantity:  string(r.Quantity),
		Payment:   string(r.Payment),
	}
	if r.Customer != nil {
		job.CustomerName = r.Customer.FullName
		job.Address = r.Customer.Address
		job.Latitude = r.Customer.Latitude
		job.Longitude = r.Customer.Longitude
	}
	return job
}

type statusPatch struct {
	Status models.JobStatusType `json:"status"`
}

type statusRow struct {
	ID     flexID `json:"id"`
	Status string `json:"status"`
}
