package ethos

import (
	"errors"
	"fmt"
)

// Sentinel kinds for lookup errors.
var (
	ErrEmptyUsername = errors.New("username must not be empty")
	ErrNotFound      = errors.New("user not found")
	ErrRateLimited   = errors.New("rate limit exceeded")
	ErrRequestFailed = errors.New("ethos request failed")
	ErrBadPayload    = errors.New("ethos response is not valid json")
)

// APIError is any other non-2xx answer.
type APIError struct {
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ethos api error: %d", e.Status)
}
