package controllers

import (
	"bytes"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaranKool/mishtee-mitra/internal/delivery"
	"github.com/KaranKool/mishtee-mitra/internal/models"
	"github.com/KaranKool/mishtee-mitra/internal/utils"
)

func TestNewJobCard(t *testing.T) {
	created := time.Date(2024, 5, 1, 4, 30, 0, 0, time.UTC)

	tests := map[string]struct {
		job         *models.Job
		hub         *Hub
		expDistance bool
		expCreated  string
		expMapPart  string
	}{
		"A job with coordinates should get distance, local time and a precise map": {
			job: &models.Job{
				ID: "MT-1", Status: models.JobStatusPending, CreatedAt: created,
				Latitude: utils.Ptr(19.1364), Longitude: utils.Ptr(72.8296),
			},
			hub:         &Hub{Latitude: 19.0760, Longitude: 72.8777},
			expDistance: true,
			expCreated:  "01 May 10:00 IST",
			expMapPart:  "mlat=19.136400",
		},
		"A job without coordinates should fall back to the default map center": {
			job:        &models.Job{ID: "MT-2", Status: models.JobStatusOutForDelivery, CreatedAt: created},
			hub:        &Hub{Latitude: 19.0760, Longitude: 72.8777},
			expCreated: "01 May 04:30 UTC",
			expMapPart: "mlat=19.076000",
		},
		"No hub should mean no distance": {
			job: &models.Job{
				ID: "MT-3", Status: models.JobStatusPending,
				Latitude: utils.Ptr(19.1364), Longitude: utils.Ptr(72.8296),
			},
			expMapPart: "mlon=72.829600",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			s := delivery.NewState()
			s.View = delivery.ViewDashboard
			s.Job = test.job

			card := newJobCard(s, test.hub)
			assert.Equal(t, test.expDistance, card.DistanceKm != "")
			assert.Equal(t, test.expDistance, strings.HasSuffix(card.ETA, " Mins"))
			assert.Equal(t, test.expCreated, card.CreatedLocal)
			assert.Contains(t, card.MapURL, test.expMapPart)
		})
	}
}

func TestRenderPageEscapesStoreValues(t *testing.T) {
	s := delivery.NewState()
	s.View = delivery.ViewDashboard
	s.Agent = &models.Agent{ID: "a", Name: "<b>Ravi</b>"}
	s.Job = &models.Job{ID: "MT-1", Status: models.JobStatusPending, CustomerName: "<script>x</script>"}

	var buf bytes.Buffer
	require.NoError(t, renderPage(&buf, newPageData(s, nil, "")))

	out := buf.String()
	assert.NotContains(t, out, "<script>x</script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "&lt;b&gt;Ravi&lt;/b&gt;")
	assert.Contains(t, out, "badge pending")
}

func TestRenderDashboardShowsPartnerAndOrderMetadata(t *testing.T) {
	s := delivery.NewState()
	s.View = delivery.ViewDashboard
	s.Agent = &models.Agent{ID: "MT-8821", Name: "Ravi"}
	s.Job = &models.Job{ID: "MT-1", Status: models.JobStatusPending, Quantity: "1.5 kg", Payment: "₹450"}

	var buf bytes.Buffer
	require.NoError(t, renderPage(&buf, newPageData(s, nil, "")))

	out := buf.String()
	assert.Contains(t, out, "Partner ID: #MT-8821")
	assert.Contains(t, out, "COD: ₹450")
	assert.Contains(t, out, "Qty 1.5 kg")
	assert.NotContains(t, out, "Est. Time")
}
