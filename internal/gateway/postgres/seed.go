package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/KaranKool/mishtee-mitra/internal/models"
	"github.com/KaranKool/mishtee-mitra/internal/utils"
)

type seedAgent struct {
	Name      string
	Phone     string
	Customer  string
	Address   string
	Latitude  *float64
	Longitude *float64
	Status    models.JobStatusType
}

var demoAgents = []seedAgent{
	{
		Name:      "Test Agent Pending",
		Phone:     utils.TestPhoneNumberBase + "0000001",
		Customer:  "Arjun Mehta",
		Address:   "Flat 402, Sunshine Towers, Andheri West, Mumbai",
		Latitude:  utils.Ptr(19.1364),
		Longitude: utils.Ptr(72.8296),
		Status:    models.JobStatusPending,
	},
	{
		Name:     "Test Agent On Route",
		Phone:    utils.TestPhoneNumberBase + "0000002",
		Customer: "Priya Iyer",
		Address:  "12 Hill Road, Bandra West, Mumbai",
		Status:   models.JobStatusOutForDelivery,
	},
}

// SeedDemoData inserts test agents, each with one open job. Agents whose
// phone number already exists are skipped, so reruns are harmless.
func SeedDemoData(ctx context.Context, db DB) error {
	agents := NewAgentRepository(db)

	for _, a := range demoAgents {
		existing, err := agents.ListByPhoneNumber(ctx, a.Phone, 1)
		if err != nil {
			return fmt.Errorf("seed lookup %s: %w", a.Phone, err)
		}
		if len(existing) > 0 {
			continue
		}

		agentID, customerID, jobID := uuid.NewString(), uuid.NewString(), uuid.NewString()

		if _, err := db.Exec(ctx,
			`INSERT INTO agents (id, phone_number, name) VALUES ($1, $2, $3)`,
			agentID, a.Phone, a.Name,
		); err != nil {
			return fmt.Errorf("seed agent %s: %w", a.Phone, err)
		}
		if _, err := db.Exec(ctx,
			`INSERT INTO customers (id, full_name, address, latitude, longitude) VALUES ($1, $2, $3, $4, $5)`,
			customerID, a.Customer, a.Address, a.Latitude, a.Longitude,
		); err != nil {
			return fmt.Errorf("seed customer for %s: %w", a.Phone, err)
		}
		if _, err := db.Exec(ctx,
			`INSERT INTO jobs (id, status, quantity, agent_id, customer_id, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			jobID, string(a.Status), 1, agentID, customerID, time.Now().UTC(),
		); err != nil {
			return fmt.Errorf("seed job for %s: %w", a.Phone, err)
		}
		utils.Logger.Infof("Seeded test agent %s with job %s", a.Phone, jobID)
	}
	return nil
}
