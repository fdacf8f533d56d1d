package memory

import (
	"time"

	"github.com/KaranKool/mishtee-mitra/internal/models"
	"github.com/KaranKool/mishtee-mitra/internal/utils"
)

// Phone numbers of the seeded demo agents.
const (
	SeedPhoneWithPendingJob = "9876543210"
	SeedPhoneWithRouteJob   = "9123456780"
	SeedPhoneIdle           = "9000000001"
)

// SeedDemoData fills the store with a small, self-consistent data set for
// local development.
func SeedDemoData(s *Store) {
	now := time.Now().UTC()

	s.PutAgent(models.Agent{ID: "agent-ravi", Name: "Ravi Kumar", PhoneNumber: SeedPhoneWithPendingJob})
	s.PutAgent(models.Agent{ID: "agent-sana", Name: "Sana Shaikh", PhoneNumber: SeedPhoneWithRouteJob})
	s.PutAgent(models.Agent{ID: "agent-idle", Name: "Imran Ali", PhoneNumber: SeedPhoneIdle})

	s.PutCustomer(Customer{
		ID:        "cust-mehta",
		FullName:  "Arjun Mehta",
		Address:   "Flat 402, Sunshine Towers, Andheri West, Mumbai",
		Latitude:  utils.Ptr(19.1364),
		Longitude: utils.Ptr(72.8296),
	})
	s.PutCustomer(Customer{
		ID:       "cust-iyer",
		FullName: "Priya Iyer",
		Address:  "12 Hill Road, Bandra West, Mumbai",
	})

	// Ravi: one pending job plus an older delivered one.
	s.PutJob(JobRecord{ID: "MT-1001", Status: models.JobStatusDelivered, Quantity: "1", AgentID: "agent-ravi", CustomerID: "cust-iyer", CreatedAt: now.Add(-48 * time.Hour)})
	s.PutJob(JobRecord{ID: "MT-1002", Status: models.JobStatusPending, Quantity: "2", Payment: "₹450", AgentID: "agent-ravi", CustomerID: "cust-mehta", CreatedAt: now.Add(-1 * time.Hour)})

	// Sana: already on the road, drop point without coordinates.
	s.PutJob(JobRecord{ID: "MT-2001", Status: models.JobStatusOutForDelivery, Quantity: "3", AgentID: "agent-sana", CustomerID: "cust-iyer", CreatedAt: now.Add(-30 * time.Minute)})

	utils.Logger.Info("Seeded in-memory data store with demo agents and jobs")
}
