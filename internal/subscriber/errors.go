package subscriber

import "errors"

var (
	// ErrConflict means the email is already subscribed.
	ErrConflict = errors.New("subscriber: email already subscribed")
	// ErrNotFound means no subscriber matched the email.
	ErrNotFound = errors.New("subscriber: email not found")
	// ErrStoreUnavailable covers connection loss, timeouts and failed queries.
	ErrStoreUnavailable = errors.New("subscriber: store unavailable")
)
