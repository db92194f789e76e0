package constants

// ContextKeyUserID is the key under which the authenticated user's ID is
// stored in both the session and the gin context.
const ContextKeyUserID = "user_id"

// SessionCookieName is the cookie backing the authentication session.
const SessionCookieName = "tempofeed_session"

// Pagination
const (
	MinPage         = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Feed pagination (cursor-based)
const (
	DefaultFeedPageSize = 20
	MaxFeedPageSize     = 50
)

// MaxCustomActivityTypes is the per-user quota of custom activity types.
// System types do not count against it.
const MaxCustomActivityTypes = 10

// SystemActivityTypeCount is the size of the fixed seed list. System types
// occupy order values 1..SystemActivityTypeCount.
const SystemActivityTypeCount = 10

const MinPasswordLength = 8
