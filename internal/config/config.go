package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/newsletter/pkg/db"
	"github.com/dmitrymomot/newsletter/pkg/logger"
	"github.com/dmitrymomot/newsletter/pkg/mailer"
	"github.com/dmitrymomot/newsletter/pkg/mailer/resend"
	"github.com/dmitrymomot/newsletter/pkg/mailer/smtp"
)

// Mail providers accepted in MAILER_PROVIDER.
const (
	ProviderSMTP   = "smtp"
	ProviderResend = "resend"
)

// ErrInvalidConfig is returned for any missing or malformed variable.
// The process must not start serving when it occurs.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the complete service configuration.
type Config struct {
	Server       ServerConfig
	Subscription SubscriptionConfig
	DB           db.Config
	Log          logger.Config
	Mailer       MailerConfig
}

// SubscriptionConfig tunes the subscribe workflow.
type SubscriptionConfig struct {
	// Reject addresses whose domain has no MX record.
	VerifyMX bool `env:"EMAIL_VERIFY_MX" envDefault:"false"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `env:"HTTP_PORT,required"`
	Host            string        `env:"HTTP_HOST"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`

	// Enables POST /send-email when set.
	AdminAPIKey string `env:"ADMIN_API_KEY"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// MailerConfig selects and configures the outbound mail provider.
// Only the selected provider's section is populated.
type MailerConfig struct {
	mailer.Config
	Provider string `env:"MAILER_PROVIDER" envDefault:"smtp"`

	SMTP   smtp.Config
	Resend resend.Config
}

type base struct {
	Server       ServerConfig
	Subscription SubscriptionConfig
	DB           db.Config
	Log          logger.Config
	Mailer       mailer.Config
	Provider     string `env:"MAILER_PROVIDER" envDefault:"smtp"`
}

// Load reads an optional dotenv file, then the process environment.
// Variables already set in the environment win over the file.
func Load(dotenv string) (Config, error) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Join(ErrInvalidConfig, err)
		}
	}
	return parse(env.Options{})
}

// FromMap builds the configuration from explicit key/value pairs instead of the process environment.
func FromMap(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var b base
	if err := env.ParseWithOptions(&b, opts); err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}

	cfg := Config{
		Server:       b.Server,
		Subscription: b.Subscription,
		DB:           b.DB,
		Log:          b.Log,
		Mailer:       MailerConfig{Config: b.Mailer, Provider: b.Provider},
	}

	switch b.Provider {
	case ProviderSMTP:
		if err := env.ParseWithOptions(&cfg.Mailer.SMTP, opts); err != nil {
			return Config{}, errors.Join(ErrInvalidConfig, err)
		}
	case ProviderResend:
		if err := env.ParseWithOptions(&cfg.Mailer.Resend, opts); err != nil {
			return Config{}, errors.Join(ErrInvalidConfig, err)
		}
		if cfg.Mailer.Resend.APIKey == "" {
			return Config{}, fmt.Errorf("%w: RESEND_API_KEY is required for the resend provider", ErrInvalidConfig)
		}
	default:
		return Config{}, fmt.Errorf("%w: unknown MAILER_PROVIDER %q", ErrInvalidConfig, b.Provider)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: HTTP_PORT %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("%w: REQUEST_TIMEOUT must be positive", ErrInvalidConfig)
	}
	if c.DB.MaxOpenConns <= 0 {
		return fmt.Errorf("%w: DATABASE_MAX_OPEN_CONNS must be positive", ErrInvalidConfig)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("%w: LOG_FORMAT must be json or text", ErrInvalidConfig)
	}
	return nil
}
