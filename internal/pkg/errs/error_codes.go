/*
Package errs provides the application's error taxonomy.

Error codes identify specific business or system failures both inside the
server and in responses to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON is malformed.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates trailing content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Share Token Errors
const (
	// ErrTokenMissing indicates that no share token was supplied where one is required.
	ErrTokenMissing = 2101

	// ErrInvalidToken covers every verification failure: malformed, tampered,
	// wrong secret, expired, or revoked. The causes are deliberately not
	// distinguishable by callers.
	ErrInvalidToken = 2102

	// ErrTokenSubjectMismatch indicates that the subject presented for anonymous
	// resolution does not match the verified token's embedded subject.
	ErrTokenSubjectMismatch = 2103

	// ErrShareHistoryUnavailable indicates that the issuance audit store is not configured.
	ErrShareHistoryUnavailable = 2104

	// ErrRevocationUnavailable indicates that no revocation store is configured.
	ErrRevocationUnavailable = 2105
)

// 3xxx: Identity and Resolution Errors
const (
	// ErrUnauthenticated indicates that an authenticated session is required and absent.
	ErrUnauthenticated = 3001

	// ErrInsufficientData indicates that profile resolution cannot proceed
	// because neither a token username nor a session identity is available.
	ErrInsufficientData = 3002
)

// 4xxx: Upstream API Errors
const (
	// ErrUpstreamFailure indicates that a fetch against the upstream API failed.
	ErrUpstreamFailure = 4001

	// ErrUpstreamNotFound indicates that the upstream API has no such account.
	ErrUpstreamNotFound = 4002

	// ErrUpstreamRateLimited indicates that the upstream API throttled the request.
	ErrUpstreamRateLimited = 4003
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified internal server error.
	ErrUnknown = 5000
)
