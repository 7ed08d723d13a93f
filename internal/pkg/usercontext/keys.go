package usercontext

// Shared Locals keys used across controllers and middlewares
const (
	KeyUserContext = "USER_CONTEXT"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "token"
