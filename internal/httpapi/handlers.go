package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/dmitrymomot/newsletter/internal/subscription"
)

type subscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Name  string `json:"name" validate:"max=100"`
}

func (r *subscribeRequest) normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
}

type unsubscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

func (r *unsubscribeRequest) normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

type sendEmailRequest struct {
	To      string `json:"to" validate:"required,email,max=254"`
	Subject string `json:"subject" validate:"required,max=998"`
	Body    string `json:"body" validate:"required"`
}

func (r *sendEmailRequest) normalize() {
	r.To = strings.TrimSpace(r.To)
	r.Subject = strings.TrimSpace(r.Subject)
}

func (a *API) subscribe(w http.ResponseWriter, r *http.Request) error {
	var req subscribeRequest
	if err := bind(w, r, &req); err != nil {
		return err
	}

	res, err := a.svc.Subscribe(r.Context(), subscription.SubscribeInput{Email: req.Email, Name: req.Name})
	if err != nil {
		return toHTTPError(err, "Failed to subscribe")
	}

	msg := "Subscription successful"
	if res.Outcome == subscription.OutcomeSubscribedNotifyFailed {
		msg = "Subscription successful, but the welcome email could not be sent"
	}
	writeSuccess(w, http.StatusCreated, msg, EmailData{Email: res.Subscriber.Email})
	return nil
}

func (a *API) listSubscribers(w http.ResponseWriter, r *http.Request) error {
	emails, err := a.svc.List(r.Context())
	if err != nil {
		he := toHTTPError(err, "Failed to fetch subscribers")
		he.Data = EmailList{Emails: []string{}}
		return he
	}

	writeSuccess(w, http.StatusOK, "Subscribers retrieved successfully", EmailList{Emails: emails})
	return nil
}

func (a *API) unsubscribe(w http.ResponseWriter, r *http.Request) error {
	var req unsubscribeRequest
	if err := bind(w, r, &req); err != nil {
		return err
	}

	if _, err := a.svc.Unsubscribe(r.Context(), req.Email); err != nil {
		return toHTTPError(err, "Failed to unsubscribe")
	}

	writeSuccess(w, http.StatusOK, "Unsubscribed successfully", EmailData{Email: req.Email})
	return nil
}

func (a *API) sendEmail(w http.ResponseWriter, r *http.Request) error {
	var req sendEmailRequest
	if err := bind(w, r, &req); err != nil {
		return err
	}

	if err := a.mail.Send(r.Context(), req.To, req.Subject, req.Body); err != nil {
		return toHTTPError(err, "Failed to send email")
	}

	writeSuccess(w, http.StatusOK, "Email sent successfully", nil)
	return nil
}

// requireAPIKey guards admin routes with a shared key in X-API-Key.
func (a *API) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(got), []byte(a.adminKey)) != 1 {
			writeError(w, newHTTPError(http.StatusUnauthorized, msgUnauthorized, nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}
