package providers

import (
	"errors"
	"fmt"
)

type authError struct {
	message string
}

func (e *authError) Error() string {
	return "authentication error: " + e.message
}

type rateLimitError struct{}

func (e *rateLimitError) Error() string { return "rate limited" }

type serverError struct {
	statusCode int
	body       string
}

func (e *serverError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.statusCode, e.body)
}

type emptyResponseError struct {
	provider string
}

func (e *emptyResponseError) Error() string {
	return e.provider + ": empty response content"
}

// IsAuth reports whether err is an authentication/credential failure.
func IsAuth(err error) bool {
	var e *authError
	return errors.As(err, &e)
}

// IsRateLimit reports whether err is a rate-limit rejection.
func IsRateLimit(err error) bool {
	var e *rateLimitError
	return errors.As(err, &e)
}

// IsServer reports whether err is a 5xx provider failure.
func IsServer(err error) bool {
	var e *serverError
	return errors.As(err, &e)
}

// IsEmptyResponse reports whether the provider returned no usable content.
func IsEmptyResponse(err error) bool {
	var e *emptyResponseError
	return errors.As(err, &e)
}
