package apperr

// Code identifies the class of a domain error
type Code string

const (
	// CodeNotFound covers both absent rows and rows not owned by the
	// acting user. The two cases are intentionally indistinguishable so
	// that ownership information is not leaked to unauthorized callers.
	CodeNotFound Code = "NOT_FOUND"

	// CodeUnauthorized means the request carries no valid session, or the
	// session's user no longer exists.
	CodeUnauthorized Code = "UNAUTHORIZED"

	// CodeBadRequest means a malformed precondition, e.g. a missing
	// required upstream identifier.
	CodeBadRequest Code = "BAD_REQUEST"

	// CodeTooManyRequests means the per-user rate limit was exceeded.
	CodeTooManyRequests Code = "TOO_MANY_REQUESTS"

	// CodeInternal means an unexpected failure in the persistence layer
	// or an external service.
	CodeInternal Code = "INTERNAL_ERROR"
)

// Error is a domain error carrying one of the API error codes
type Error struct {
	Code    Code
	Message string
	Cause   error
}
