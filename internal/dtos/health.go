package dtos

import "time"

type HealthCheckResponse struct {
	Status    string    `json:"status"`
	DataStore string    `json:"data_store"`
	Backend   string    `json:"backend"`
	Sessions  int       `json:"sessions"`
	CheckedAt time.Time `json:"checked_at"`
}
