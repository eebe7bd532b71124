package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrymomot/newsletter/internal/config"
	"github.com/dmitrymomot/newsletter/internal/httpapi"
	"github.com/dmitrymomot/newsletter/internal/notify"
	"github.com/dmitrymomot/newsletter/internal/subscriber"
	"github.com/dmitrymomot/newsletter/internal/subscription"
	"github.com/dmitrymomot/newsletter/middlewares"
	"github.com/dmitrymomot/newsletter/pkg/db"
	"github.com/dmitrymomot/newsletter/pkg/health"
	"github.com/dmitrymomot/newsletter/pkg/logger"
	"github.com/dmitrymomot/newsletter/pkg/mailer"
	"github.com/dmitrymomot/newsletter/pkg/mailer/resend"
	"github.com/dmitrymomot/newsletter/pkg/mailer/smtp"
	"github.com/dmitrymomot/newsletter/pkg/server"
)

const relayVerifyTimeout = 15 * time.Second

func main() {
	dotenv := flag.String("env-file", ".env", "optional dotenv file")
	flag.Parse()

	cfg, err := config.Load(*dotenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log, middlewares.RequestIDExtractor())
	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("newsletter stopped", slog.Any("error", err))
		_ = logger.Flush(2 * time.Second)(context.Background())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	sender, err := newSender(ctx, cfg.Mailer)
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}

	store := subscriber.NewPgStore(pool, cfg.DB.MigrationsTable, log)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return err
	}

	notifier := notify.NewWithSender(sender, cfg.Mailer.Config)
	svcOpts := []subscription.Option{subscription.WithLogger(log)}
	if cfg.Subscription.VerifyMX {
		svcOpts = append(svcOpts, subscription.WithMXCheck(nil))
	}
	svc := subscription.NewService(store, notifier, svcOpts...)

	router := httpapi.New(svc,
		httpapi.WithLogger(log),
		httpapi.WithRequestTimeout(cfg.Server.RequestTimeout),
		httpapi.WithReadinessChecks(health.Checks{"postgres": db.Healthcheck(pool)}),
		httpapi.WithAdmin(cfg.Server.AdminAPIKey, notifier),
	)

	return server.Run(ctx, router,
		server.Address(cfg.Server.Addr()),
		server.Logger(log),
		server.ShutdownTimeout(cfg.Server.ShutdownTimeout),
		server.ShutdownHook(db.Shutdown(pool)),
		server.ShutdownHook(logger.Flush(2*time.Second)),
	)
}

// newSender builds the configured provider. An SMTP relay that cannot be
// reached aborts startup before the listener binds.
func newSender(ctx context.Context, cfg config.MailerConfig) (mailer.Sender, error) {
	switch cfg.Provider {
	case config.ProviderResend:
		s, err := resend.New(cfg.Resend)
		if err != nil {
			return nil, errors.Join(config.ErrInvalidConfig, err)
		}
		return s, nil
	default:
		s, err := smtp.New(cfg.SMTP)
		if err != nil {
			return nil, errors.Join(config.ErrInvalidConfig, err)
		}

		vctx, cancel := context.WithTimeout(ctx, relayVerifyTimeout)
		defer cancel()
		if err := s.Verify(vctx); err != nil {
			return nil, errors.Join(config.ErrInvalidConfig, err)
		}
		return s, nil
	}
}
