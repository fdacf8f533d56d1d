package models

import "time"

type JobStatusType string

const (
	JobStatusPending        JobStatusType = "Pending"
	JobStatusOutForDelivery JobStatusType = "Out for Delivery"
	JobStatusDelivered      JobStatusType = "Delivered"
)

// ActiveJobStatuses are the non-terminal statuses, in lifecycle order.
var ActiveJobStatuses = []JobStatusType{JobStatusPending, JobStatusOutForDelivery}

func (s JobStatusType) IsActive() bool {
	return s == JobStatusPending || s == JobStatusOutForDelivery
}

func (s JobStatusType) IsValid() bool {
	return s.IsActive() || s == JobStatusDelivered
}

// Job is one order assignment joined with its customer.
type Job struct {
	ID        string        `json:"id"`
	Status    JobStatusType `json:"status"`
	AgentID   string        `json:"agent_id"`
	CreatedAt time.Time     `json:"created_at"`

	// Quantity and Payment are opaque; shown exactly as the store holds them.
	Quantity string `json:"quantity"`
	Payment  string `json:"cod_amount,omitempty"`

	CustomerName string   `json:"customer_name"`
	Address      string   `json:"address"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

// HasCoordinates reports whether both coordinates are known.
func (j *Job) HasCoordinates() bool {
	return j != nil && j.Latitude != nil && j.Longitude != nil
}

// Clone returns a deep copy so callers can hold snapshots safely.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	c := *j
	if j.Latitude != nil {
		lat := *j.Latitude
		c.Latitude = &lat
	}
	if j.Longitude != nil {
		lng := *j.Longitude
		c.Longitude = &lng
	}
	return &c
}
