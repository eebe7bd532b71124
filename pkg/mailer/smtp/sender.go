package smtp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/dmitrymomot/newsletter/pkg/mailer"
)

// Sender implements mailer.Sender over an SMTP relay.
// The underlying client is shared and safe for concurrent use.
type Sender struct {
	client *mail.Client
	config Config
}

// New validates cfg and builds a client. It does not connect; call Verify for that.
func New(cfg Config) (*Sender, error) {
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	return &Sender{client: client, config: cfg}, nil
}

func clientOptions(cfg Config) ([]mail.Option, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: host is empty", ErrInvalidConfig)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, cfg.Port)
	}

	auth, err := authType(cfg)
	if err != nil {
		return nil, err
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(auth),
	}
	if auth != mail.SMTPAuthNoAuth {
		opts = append(opts, mail.WithUsername(cfg.Username), mail.WithPassword(cfg.Password))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}

	switch strings.ToLower(cfg.TLSPolicy) {
	case TLSMandatory:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	case TLSOpportunistic:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	case TLSNone:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	case TLSImplicit:
		opts = append(opts, mail.WithSSL())
	default:
		return nil, fmt.Errorf("%w: unknown tls policy %q", ErrInvalidConfig, cfg.TLSPolicy)
	}

	return opts, nil
}

// authType maps SMTP_AUTH to a go-mail mechanism. PLAIN and LOGIN refuse to
// run over a cleartext session, so the unset default follows the TLS policy.
func authType(cfg Config) (mail.SMTPAuthType, error) {
	switch strings.ToLower(cfg.Auth) {
	case "":
		switch strings.ToLower(cfg.TLSPolicy) {
		case TLSNone, TLSOpportunistic:
			return mail.SMTPAuthPlainNoEnc, nil
		default:
			return mail.SMTPAuthPlain, nil
		}
	case AuthPlain:
		return mail.SMTPAuthPlain, nil
	case AuthPlainNoEnc:
		return mail.SMTPAuthPlainNoEnc, nil
	case AuthLogin:
		return mail.SMTPAuthLogin, nil
	case AuthLoginNoEnc:
		return mail.SMTPAuthLoginNoEnc, nil
	case AuthCramMD5:
		return mail.SMTPAuthCramMD5, nil
	case AuthAutoDiscover:
		return mail.SMTPAuthAutoDiscover, nil
	case AuthNone:
		return mail.SMTPAuthNoAuth, nil
	default:
		return "", fmt.Errorf("%w: unknown auth mechanism %q", ErrInvalidConfig, cfg.Auth)
	}
}

// Verify dials the relay, authenticates and disconnects.
func (s *Sender) Verify(ctx context.Context) error {
	if err := s.client.DialWithContext(ctx); err != nil {
		return errors.Join(ErrRelayUnreachable, err)
	}
	return s.client.Close()
}

// Send implements mailer.Sender with one delivery attempt.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	msg, err := s.message(email)
	if err != nil {
		return err
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Join(ErrDelivery, err)
	}
	return nil
}

func (s *Sender) message(email *mailer.Email) (*mail.Msg, error) {
	msg := mail.NewMsg()

	var err error
	if email.From != "" {
		err = msg.From(email.From)
	} else if s.config.FromName != "" {
		err = msg.FromFormat(s.config.FromName, s.config.sender())
	} else {
		err = msg.From(s.config.sender())
	}
	if err != nil {
		return nil, errors.Join(ErrBuildMessage, err)
	}

	if err := msg.To(email.To...); err != nil {
		return nil, errors.Join(ErrBuildMessage, err)
	}
	if email.ReplyTo != "" {
		if err := msg.ReplyTo(email.ReplyTo); err != nil {
			return nil, errors.Join(ErrBuildMessage, err)
		}
	}
	for k, v := range email.Headers {
		msg.SetGenHeader(mail.Header(k), v)
	}
	msg.Subject(email.Subject)

	switch {
	case email.HTML != "" && email.Text != "":
		msg.SetBodyString(mail.TypeTextPlain, email.Text)
		msg.AddAlternativeString(mail.TypeTextHTML, email.HTML)
	case email.HTML != "":
		msg.SetBodyString(mail.TypeTextHTML, email.HTML)
	default:
		msg.SetBodyString(mail.TypeTextPlain, email.Text)
	}

	return msg, nil
}
