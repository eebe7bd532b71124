package httpapi

import (
	"encoding/json"
	"net/http"
)

// Response is the JSON envelope of every API reply.
type Response struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// EmailData carries a single address.
type EmailData struct {
	Email string `json:"email"`
}

// EmailList carries the subscriber list.
type EmailList struct {
	Emails []string `json:"emails"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Response{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, e *HTTPError) {
	writeJSON(w, e.Code, Response{Success: false, Message: e.Message, Data: e.Data})
}
