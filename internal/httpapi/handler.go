package httpapi

import (
	"log/slog"
	"net/http"
)

// handlerFunc is an HTTP handler that reports failures by returning an error.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// wrap renders a returned error as the JSON envelope. 5xx errors are logged
// with their cause; 4xx are expected outcomes and logged at debug.
func (a *API) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		he := toHTTPError(err, msgInternal)
		if he.Code >= http.StatusInternalServerError {
			a.log.ErrorContext(r.Context(), "request failed",
				slog.Int("status", he.Code),
				slog.Any("error", he.Err),
			)
		} else {
			a.log.DebugContext(r.Context(), "request rejected",
				slog.Int("status", he.Code),
				slog.Any("error", he.Err),
			)
		}
		writeError(w, he)
	}
}
