package constants

import "time"

const (
	SessionCookieName = "mitra_session"
	SessionIssuer     = "mishtee-mitra"

	// SessionTokenTTL is the lifetime of the signed cookie. Idle sessions are
	// dropped server-side much earlier, see DefaultSessionIdleTimeout.
	SessionTokenTTL = 24 * time.Hour

	DefaultRequestTimeout     = 10 * time.Second
	DefaultSessionIdleTimeout = 30 * time.Minute

	// MaxSessions bounds the registry between sweeps.
	MaxSessions = 10000

	// SessionSweepSchedule uses robfig/cron syntax.
	SessionSweepSchedule = "@every 1m"

	ShutdownTimeout = 10 * time.Second

	MaxFormBytes = 4 << 10
)
