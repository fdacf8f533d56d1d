package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/KaranKool/mishtee-mitra/internal/app"
	"github.com/KaranKool/mishtee-mitra/internal/middleware"
	"github.com/KaranKool/mishtee-mitra/internal/routes"
)

// NewRouter wires every route of the dashboard.
func NewRouter(a *app.App) *mux.Router {
	healthController := NewHealthController(a)
	dashboardController := NewDashboardController(a)

	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)

	withSession := router.NewRoute().Subrouter()
	withSession.Use(middleware.SessionMiddleware(a.Sessions, a.Signer, !a.Config.IsDev()))

	withSession.HandleFunc(routes.Home, dashboardController.PageHandler).Methods(http.MethodGet)
	withSession.HandleFunc(routes.Login, dashboardController.LoginHandler).Methods(http.MethodPost)
	withSession.HandleFunc(routes.Logout, dashboardController.LogoutHandler).Methods(http.MethodPost)
	withSession.HandleFunc(routes.JobStartRoute, dashboardController.StartRouteHandler).Methods(http.MethodPost)
	withSession.HandleFunc(routes.JobMarkDelivered, dashboardController.MarkDeliveredHandler).Methods(http.MethodPost)
	withSession.HandleFunc(routes.JobToggleOnline, dashboardController.ToggleOnlineHandler).Methods(http.MethodPost)
	withSession.HandleFunc(routes.PODConfirm, dashboardController.ConfirmDeliveryHandler).Methods(http.MethodPost)
	withSession.HandleFunc(routes.PODCancel, dashboardController.CancelPODHandler).Methods(http.MethodPost)
	withSession.HandleFunc(routes.SuccessNext, dashboardController.FindNextHandler).Methods(http.MethodPost)
	withSession.HandleFunc(routes.AlertDismiss, dashboardController.DismissAlertHandler).Methods(http.MethodPost)

	return router
}
