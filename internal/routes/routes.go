package routes

const (
	// Health
	Health = "/health"

	// Dashboard
	Home   = "/"
	Login  = "/login"
	Logout = "/logout"

	JobStartRoute    = "/job/start-route"
	JobMarkDelivered = "/job/mark-delivered"
	JobToggleOnline  = "/job/toggle-online"

	PODConfirm = "/pod/confirm"
	PODCancel  = "/pod/cancel"

	SuccessNext = "/success/next"

	AlertDismiss = "/alert/dismiss"
)
