package domain

import "errors"

var (
	// ErrVendorNotFound is returned when a vendor profile does not exist
	ErrVendorNotFound = errors.New("vendor not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnauthorized is returned when a request has no valid session
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrBackendFailure is returned when the managed backend request fails
	ErrBackendFailure = errors.New("backend request failed")
)
