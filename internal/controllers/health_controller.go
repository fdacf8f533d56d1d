package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/KaranKool/mishtee-mitra/internal/app"
	"github.com/KaranKool/mishtee-mitra/internal/dtos"
	"github.com/KaranKool/mishtee-mitra/internal/utils"
)

const healthPingTimeout = 3 * time.Second

// HealthController checks data store connectivity.
type HealthController struct {
	app *app.App
}

func NewHealthController(app *app.App) *HealthController {
	return &HealthController{app}
}

// GET /health
func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	if err := c.app.Gateway.Ping(ctx); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusServiceUnavailable, utils.ErrCodeExternalUnavailable, "Data store unreachable", nil, err,
		)
		return
	}
	resp := dtos.HealthCheckResponse{
		Status:    "OK",
		DataStore: "reachable",
		Backend:   string(c.app.Backend),
		Sessions:  c.app.Sessions.Len(),
		CheckedAt: time.Now().UTC(),
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
