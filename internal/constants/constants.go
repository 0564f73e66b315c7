package constants

// Session
const (
	SessionCookieName   = "taskhub_session"
	ContextKeyAccountID = "account_id"
)

// Auth
const (
	MinPasswordLength = 8
	ResetTokenTTL     = 60 // minutes
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Reminders
const (
	DefaultRemindBeforeMinutes = 60
)
