package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNoContent marks a 204 response. Distinct from an empty or null
	// JSON body, which decodes into a zero value without error.
	ErrNoContent = errors.New("no content")

	// ErrInvalidToken marks a 401 on a resource call. The client already
	// refreshed before the request, so callers should treat this as
	// surprising rather than refresh again.
	ErrInvalidToken = errors.New("invalid access token")

	// ErrUnauthorized marks a 403, typically a missing scope.
	ErrUnauthorized = errors.New("unauthorized for this resource")

	// ErrNotFound marks a 404. Player call sites translate this to
	// [ErrNoActiveDevice] since the provider overloads the status.
	ErrNotFound = errors.New("resource not found")

	// ErrNoActiveDevice marks a player call with no active playback device.
	ErrNoActiveDevice = errors.New("no active playback device")
)

// ResponseError carries the provider's structured error envelope from a
// 400 or 429 response.
type ResponseError struct {
	Status  int
	Message string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("spotify API error: status %d: %s", e.Status, e.Message)
}

// errorEnvelope is the provider's {"error":{"status","message"}} shape.
type errorEnvelope struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}
