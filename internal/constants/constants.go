package constants

// Context keys shared between middleware and handlers
const (
	ContextKeyUserID    = "user_id"
	ContextKeyCompanyID = "company_id"
	ContextKeyRoles     = "roles"
	ContextKeyRequestID = "request_id"
	ContextKeyLogger    = "logger"
)

// Pagination limits
const (
	MinPage         = 1
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// HeaderRequestID is propagated from the client when present
const HeaderRequestID = "X-Request-ID"
