package models

import "errors"

var (
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned for malformed date ranges, unknown item
	// types, or missing required references.
	ErrInvalidInput = errors.New("invalid input")

	// ErrResolutionFailed is returned when the places provider could not
	// resolve an external place reference (upstream error, timeout, or
	// malformed data).
	ErrResolutionFailed = errors.New("place resolution failed")

	// ErrDistanceLookupFailed is returned when a travel distance/duration
	// lookup between two stops did not succeed. Mutations that hit this
	// error are aborted before any write.
	ErrDistanceLookupFailed = errors.New("distance lookup failed")

	// ErrTimingNotConfigured is returned when a user has no default timing
	// profile. The engine surfaces this rather than assuming zero defaults.
	ErrTimingNotConfigured = errors.New("default timing profile not configured")

	// ErrInconsistentChain is returned when recomputation encounters an item
	// whose location cannot be resolved. Surfaced, never silently skipped.
	ErrInconsistentChain = errors.New("itinerary chain is inconsistent")

	// ErrConflict is returned when a write collides with an existing record.
	ErrConflict = errors.New("resource already exists")
)

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Message string `json:"message"`
}
