package application

import "expvar"

// Counters published under /debug/vars.
var (
	metricRegistrations        = expvar.NewInt("auth_registrations")
	metricVerifications        = expvar.NewInt("auth_verifications")
	metricLoginsOK             = expvar.NewInt("auth_logins_ok")
	metricLoginsFailed         = expvar.NewInt("auth_logins_failed")
	metricPasswordResets       = expvar.NewInt("auth_password_resets")
	metricNotificationFailures = expvar.NewInt("notification_failures")
	metricResultsCreated       = expvar.NewInt("results_created")
)
