package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/newsletter/internal/subscriber"
	"github.com/dmitrymomot/newsletter/internal/subscription"
	"github.com/dmitrymomot/newsletter/pkg/mailer"
)

// HTTPError is an error with everything needed to render a response.
// Err is logged and never sent to the client.
type HTTPError struct {
	Err     error
	Data    any
	Message string
	Code    int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func newHTTPError(code int, message string, err error) *HTTPError {
	return &HTTPError{Code: code, Message: message, Err: err}
}

const (
	msgInvalidBody      = "Invalid request body"
	msgInvalidEmail     = "Invalid email address"
	msgAlreadySubscribe = "Email is already subscribed"
	msgNotSubscribed    = "Email is not subscribed"
	msgUnauthorized     = "Unauthorized"
	msgInternal         = "Internal server error"
)

// toHTTPError maps a domain error to its response. fallback is the message
// used for server-side failures, so internal detail stays in the logs.
func toHTTPError(err error, fallback string) *HTTPError {
	var he *HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, subscriber.ErrConflict):
		return newHTTPError(http.StatusConflict, msgAlreadySubscribe, err)
	case errors.Is(err, subscription.ErrUndeliverable):
		return newHTTPError(http.StatusBadRequest, msgInvalidEmail, err)
	case errors.Is(err, subscriber.ErrNotFound):
		return newHTTPError(http.StatusNotFound, msgNotSubscribed, err)
	case errors.Is(err, mailer.ErrSendFailed):
		return newHTTPError(http.StatusBadGateway, fallback, err)
	default:
		return newHTTPError(http.StatusInternalServerError, fallback, err)
	}
}
