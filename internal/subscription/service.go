package subscription

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/newsletter/internal/subscriber"
	"github.com/dmitrymomot/newsletter/pkg/dnsverify"
	"github.com/dmitrymomot/newsletter/pkg/logger"
	"github.com/dmitrymomot/newsletter/pkg/sanitizer"
)

// ErrUndeliverable means the address's domain publishes no mail exchanger.
var ErrUndeliverable = errors.New("subscription: email domain does not accept mail")

// Store persists subscribers.
type Store interface {
	Insert(ctx context.Context, email string) (*subscriber.Subscriber, error)
	ListEmails(ctx context.Context) ([]string, error)
	DeleteByEmail(ctx context.Context, email string) (bool, error)
}

// Notifier sends the welcome message.
type Notifier interface {
	Welcome(ctx context.Context, email, name string) error
}

// Service runs the subscribe and unsubscribe workflows.
type Service struct {
	store    Store
	notifier Notifier
	log      *slog.Logger

	mx          dnsverify.Resolver
	checkDomain bool
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMXCheck rejects addresses whose domain has no MX record before
// anything is stored. Resolver failures are logged and the address accepted.
// A nil resolver uses the system resolver.
func WithMXCheck(r dnsverify.Resolver) Option {
	return func(s *Service) {
		s.checkDomain = true
		s.mx = r
	}
}

// NewService creates a Service.
func NewService(store Store, notifier Notifier, opts ...Option) *Service {
	s := &Service{store: store, notifier: notifier, log: logger.NewNope()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubscribeInput is a validated subscription request.
type SubscribeInput struct {
	Email string
	Name  string
}

// Result describes a completed subscription.
type Result struct {
	Subscriber *subscriber.Subscriber
	Outcome    Outcome
	NotifyErr  error // set for OutcomeSubscribedNotifyFailed
}

// Subscribe stores the email and then sends a welcome message.
// A failed welcome message does not undo the subscription: the result is
// OutcomeSubscribedNotifyFailed with a nil error.
func (s *Service) Subscribe(ctx context.Context, in SubscribeInput) (Result, error) {
	email := normalizeEmail(in.Email)
	name := sanitizer.StripHTML(in.Name)

	if s.checkDomain {
		if err := s.verifyDomain(ctx, email); err != nil {
			return Result{Outcome: OutcomeRejectedInvalid}, err
		}
	}

	sub, err := s.store.Insert(ctx, email)
	if err != nil {
		if errors.Is(err, subscriber.ErrConflict) {
			return Result{Outcome: OutcomeRejectedDuplicate}, err
		}
		s.log.ErrorContext(ctx, "subscribe: store insert failed",
			slog.String("email", email),
			slog.Any("error", err),
		)
		return Result{Outcome: OutcomeFailedStore}, err
	}

	if err := s.notifier.Welcome(ctx, sub.Email, name); err != nil {
		s.log.WarnContext(ctx, "subscribe: welcome email not sent",
			slog.String("email", sub.Email),
			slog.Any("error", err),
		)
		return Result{Subscriber: sub, Outcome: OutcomeSubscribedNotifyFailed, NotifyErr: err}, nil
	}

	s.log.InfoContext(ctx, "subscribed", slog.Int64("subscriber_id", sub.ID))
	return Result{Subscriber: sub, Outcome: OutcomeSubscribed}, nil
}

// Unsubscribe deletes the subscriber. A missing email returns subscriber.ErrNotFound.
func (s *Service) Unsubscribe(ctx context.Context, email string) (Outcome, error) {
	email = normalizeEmail(email)

	removed, err := s.store.DeleteByEmail(ctx, email)
	if err != nil {
		s.log.ErrorContext(ctx, "unsubscribe: store delete failed",
			slog.String("email", email),
			slog.Any("error", err),
		)
		return OutcomeFailedStore, err
	}
	if !removed {
		return OutcomeNotFound, subscriber.ErrNotFound
	}

	s.log.InfoContext(ctx, "unsubscribed", slog.String("email", email))
	return OutcomeRemoved, nil
}

// List returns every subscribed email in insertion order.
func (s *Service) List(ctx context.Context) ([]string, error) {
	emails, err := s.store.ListEmails(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "list: store query failed", slog.Any("error", err))
		return nil, err
	}
	return emails, nil
}

func (s *Service) verifyDomain(ctx context.Context, email string) error {
	err := dnsverify.VerifyMailDomain(ctx, s.mx, email)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, dnsverify.ErrDNSLookupFailed):
		s.log.WarnContext(ctx, "subscribe: mx lookup failed, accepting address",
			slog.String("email", email),
			slog.Any("error", err),
		)
		return nil
	default:
		return errors.Join(ErrUndeliverable, err)
	}
}

// normalizeEmail trims surrounding whitespace. Case is preserved.
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
