package contextkeys

// ContextKey is a dedicated key type so values stored by this application
// cannot collide with other packages writing to the same context.
type ContextKey string

const (
	// RequestIDContextKey carries the per-request correlation id.
	RequestIDContextKey = ContextKey("request_id")

	// UserIDContextKey carries the authenticated user id.
	UserIDContextKey = ContextKey("user_id")
)
