package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/oklog/run"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/KaranKool/mishtee-mitra/internal/app"
	"github.com/KaranKool/mishtee-mitra/internal/config"
	"github.com/KaranKool/mishtee-mitra/internal/constants"
	"github.com/KaranKool/mishtee-mitra/internal/controllers"
	"github.com/KaranKool/mishtee-mitra/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(context.Background(), cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize mishtee-mitra:", err)
	}
	defer application.Close()

	router := controllers.NewRouter(application)

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}
	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: co.Handler(router),
	}

	if err := serve(srv, application); err != nil {
		utils.Logger.WithError(err).Error("mishtee-mitra stopped with error")
		application.Close()
		os.Exit(1)
	}
	utils.Logger.Info("mishtee-mitra stopped")
}

// serve runs the HTTP server and the session sweeper until a signal arrives
// or one of them fails.
func serve(srv *http.Server, application *app.App) error {
	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer signalCancel()

		g.Add(
			func() error {
				<-signalCtx.Done()
				utils.Logger.Info("Termination signal received")
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// Idle session sweeper.
	{
		c := cron.New()
		idle := application.Config.SessionIdleTimeout
		if _, err := c.AddFunc(constants.SessionSweepSchedule, func() {
			application.Sessions.Sweep(idle)
		}); err != nil {
			return fmt.Errorf("schedule session sweep: %w", err)
		}

		stopped := make(chan struct{})
		g.Add(
			func() error {
				c.Start()
				<-stopped
				return nil
			},
			func(_ error) {
				<-c.Stop().Done()
				close(stopped)
			},
		)
	}

	// HTTP server.
	{
		g.Add(
			func() error {
				utils.Logger.Infof("Starting %s on port: %s", application.Config.AppName, application.Config.AppPort)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			},
			func(_ error) {
				ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(ctx); err != nil {
					utils.Logger.WithError(err).Warn("HTTP server shutdown incomplete")
				}
			},
		)
	}

	return g.Run()
}
