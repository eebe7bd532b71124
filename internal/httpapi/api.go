package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/newsletter/internal/subscription"
	"github.com/dmitrymomot/newsletter/middlewares"
	"github.com/dmitrymomot/newsletter/pkg/health"
	"github.com/dmitrymomot/newsletter/pkg/logger"
)

// Subscriptions is the workflow behind the subscriber routes.
type Subscriptions interface {
	Subscribe(ctx context.Context, in subscription.SubscribeInput) (subscription.Result, error)
	Unsubscribe(ctx context.Context, email string) (subscription.Outcome, error)
	List(ctx context.Context) ([]string, error)
}

// Mailer sends ad-hoc messages for the admin route.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// API holds the route dependencies.
type API struct {
	svc            Subscriptions
	mail           Mailer
	log            *slog.Logger
	checks         health.Checks
	adminKey       string
	requestTimeout time.Duration
}

// Option configures the API.
type Option func(*API)

// WithLogger sets the logger for access logs and failures.
func WithLogger(l *slog.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.log = l
		}
	}
}

// WithAdmin mounts POST /send-email guarded by key. An empty key leaves the route unmounted.
func WithAdmin(key string, m Mailer) Option {
	return func(a *API) {
		a.adminKey = key
		a.mail = m
	}
}

// WithReadinessChecks sets the checks run by GET /health/ready.
func WithReadinessChecks(checks health.Checks) Option {
	return func(a *API) {
		a.checks = checks
	}
}

// WithRequestTimeout bounds each request's context.
func WithRequestTimeout(d time.Duration) Option {
	return func(a *API) {
		if d > 0 {
			a.requestTimeout = d
		}
	}
}

// New builds the router.
func New(svc Subscriptions, opts ...Option) http.Handler {
	a := &API{
		svc:            svc,
		log:            logger.NewNope(),
		requestTimeout: middlewares.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a.routes()
}

func (a *API) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middlewares.RequestID(),
		middlewares.Logger(a.log),
		middlewares.Recover(
			middlewares.WithRecoverLogger(a.log),
			middlewares.WithRecoverHandler(func(w http.ResponseWriter, _ *http.Request, _ *middlewares.PanicError) {
				writeError(w, newHTTPError(http.StatusInternalServerError, msgInternal, nil))
			}),
		),
		middlewares.Timeout(a.requestTimeout),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, newHTTPError(http.StatusNotFound, "Not found", nil))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, newHTTPError(http.StatusMethodNotAllowed, "Method not allowed", nil))
	})

	r.Get("/health", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(a.checks, health.WithLogger(a.log)))

	r.Post("/subscribe", a.wrap(a.subscribe))
	r.Get("/subscribers", a.wrap(a.listSubscribers))
	r.Delete("/unsubscribe", a.wrap(a.unsubscribe))

	if a.adminKey != "" && a.mail != nil {
		r.With(a.requireAPIKey).Post("/send-email", a.wrap(a.sendEmail))
	}

	return r
}
