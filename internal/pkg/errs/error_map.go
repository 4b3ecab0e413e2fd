/*
Package errs provides the application's error taxonomy.

This file maps every error code to its CustomError template, standardizing
the message and HTTP status the code resolves to.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
// A zero Status means 200 and is normalized in NewError.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Share Token Errors
	ErrTokenMissing:            {Code: ErrTokenMissing, Message: "No share token provided.", Status: http.StatusBadRequest},
	ErrInvalidToken:            {Code: ErrInvalidToken, Message: "This share link is invalid or has expired.", Status: http.StatusUnauthorized},
	ErrTokenSubjectMismatch:    {Code: ErrTokenSubjectMismatch, Message: "This share link does not grant access to the requested profile.", Status: http.StatusUnauthorized},
	ErrShareHistoryUnavailable: {Code: ErrShareHistoryUnavailable, Message: "Share history is not available.", Status: http.StatusNotImplemented},
	ErrRevocationUnavailable:   {Code: ErrRevocationUnavailable, Message: "Share link revocation is not available.", Status: http.StatusNotImplemented},

	// 3xxx: Identity and Resolution Errors
	ErrUnauthenticated:  {Code: ErrUnauthenticated, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrInsufficientData: {Code: ErrInsufficientData, Message: "Unable to resolve profile data. No username available.", Status: http.StatusBadRequest},

	// 4xxx: Upstream API Errors
	ErrUpstreamFailure:     {Code: ErrUpstreamFailure, Message: "Failed to fetch profile data. Please try again later.", Status: http.StatusBadGateway},
	ErrUpstreamNotFound:    {Code: ErrUpstreamNotFound, Message: "Account not found.", Status: http.StatusNotFound},
	ErrUpstreamRateLimited: {Code: ErrUpstreamRateLimited, Message: "The upstream service is rate limiting requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
