package smtp

import "time"

// TLS policies accepted in SMTP_TLS_POLICY.
const (
	TLSMandatory     = "mandatory"     // STARTTLS required
	TLSOpportunistic = "opportunistic" // STARTTLS when offered
	TLSNone          = "none"          // plain connection
	TLSImplicit      = "ssl"           // TLS from the first byte, usually port 465
)

// Auth mechanisms accepted in SMTP_AUTH. Empty picks plain, or plain-noenc
// when the TLS policy may leave the session unencrypted.
const (
	AuthPlain        = "plain"
	AuthPlainNoEnc   = "plain-noenc"
	AuthLogin        = "login"
	AuthLoginNoEnc   = "login-noenc"
	AuthCramMD5      = "cram-md5"
	AuthAutoDiscover = "autodiscover"
	AuthNone         = "noauth"
)

// Config holds SMTP relay settings.
type Config struct {
	Host      string        `env:"SMTP_HOST,required"`
	Port      int           `env:"SMTP_PORT,required"`
	Username  string        `env:"SMTP_USERNAME,required"`
	Password  string        `env:"SMTP_PASSWORD,required"`
	TLSPolicy string        `env:"SMTP_TLS_POLICY,required"`
	Auth      string        `env:"SMTP_AUTH"`
	From      string        `env:"SMTP_FROM"`
	FromName  string        `env:"SMTP_FROM_NAME"`
	Timeout   time.Duration `env:"SMTP_TIMEOUT" envDefault:"10s"`
}

// sender returns the envelope sender, falling back to the username.
func (c Config) sender() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}
