package smtp

import (
	"bufio"
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/dmitrymomot/newsletter/pkg/mailer"
)

func validConfig() Config {
	return Config{
		Host:      "smtp.example.com",
		Port:      587,
		Username:  "user@example.com",
		Password:  "secret",
		TLSPolicy: TLSMandatory,
		Timeout:   time.Second,
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "mandatory", mutate: func(*Config) {}},
		{name: "opportunistic", mutate: func(c *Config) { c.TLSPolicy = TLSOpportunistic }},
		{name: "none", mutate: func(c *Config) { c.TLSPolicy = TLSNone }},
		{name: "implicit tls", mutate: func(c *Config) { c.TLSPolicy = TLSImplicit; c.Port = 465 }},
		{name: "policy is case insensitive", mutate: func(c *Config) { c.TLSPolicy = "MANDATORY" }},
		{name: "unknown policy", mutate: func(c *Config) { c.TLSPolicy = "maybe" }, wantErr: true},
		{name: "empty host", mutate: func(c *Config) { c.Host = "" }, wantErr: true},
		{name: "zero port", mutate: func(c *Config) { c.Port = 0 }, wantErr: true},
		{name: "port out of range", mutate: func(c *Config) { c.Port = 70000 }, wantErr: true},
		{name: "explicit auth", mutate: func(c *Config) { c.Auth = AuthLogin }},
		{name: "no auth", mutate: func(c *Config) { c.Auth = AuthNone }},
		{name: "unknown auth", mutate: func(c *Config) { c.Auth = "kerberos" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)

			s, err := New(cfg)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}

func TestSender_Verify_Unreachable(t *testing.T) {
	t.Parallel()

	// Grab a free port and close it so nothing is listening.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	cfg := validConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = port
	cfg.TLSPolicy = TLSNone

	s, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err = s.Verify(ctx)
	require.ErrorIs(t, err, ErrRelayUnreachable)
}

func TestSender_Message(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.From = "news@example.com"
	cfg.FromName = "Newsletter"

	s, err := New(cfg)
	require.NoError(t, err)

	t.Run("builds headers", func(t *testing.T) {
		t.Parallel()

		msg, err := s.message(&mailer.Email{
			To:      []string{"alice@example.com"},
			Subject: "Welcome",
			HTML:    "<p>hi</p>",
			Text:    "hi",
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"<alice@example.com>"}, msg.GetToString())
		from := msg.GetFromString()
		require.Len(t, from, 1)
		assert.Contains(t, from[0], "news@example.com")
		assert.Contains(t, from[0], "Newsletter")
	})

	t.Run("invalid recipient", func(t *testing.T) {
		t.Parallel()

		_, err := s.message(&mailer.Email{To: []string{"not an address"}, Subject: "S", Text: "x"})
		require.ErrorIs(t, err, ErrBuildMessage)
	})
}

func TestConfig_Sender(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "user@example.com", Config{Username: "user@example.com"}.sender())
	assert.Equal(t, "from@example.com", Config{Username: "u", From: "from@example.com"}.sender())
}

func TestAuthType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		policy string
		auth   string
		want   mail.SMTPAuthType
	}{
		{name: "mandatory defaults to plain", policy: TLSMandatory, want: mail.SMTPAuthPlain},
		{name: "implicit tls defaults to plain", policy: TLSImplicit, want: mail.SMTPAuthPlain},
		{name: "none allows cleartext plain", policy: TLSNone, want: mail.SMTPAuthPlainNoEnc},
		{name: "opportunistic allows cleartext plain", policy: TLSOpportunistic, want: mail.SMTPAuthPlainNoEnc},
		{name: "explicit setting wins", policy: TLSNone, auth: "LOGIN", want: mail.SMTPAuthLogin},
		{name: "autodiscover", policy: TLSMandatory, auth: AuthAutoDiscover, want: mail.SMTPAuthAutoDiscover},
		{name: "noauth", policy: TLSNone, auth: AuthNone, want: mail.SMTPAuthNoAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := authType(Config{TLSPolicy: tt.policy, Auth: tt.auth})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// fakeRelay is a cleartext ESMTP server that accepts any credentials and
// records the commands it receives.
type fakeRelay struct {
	ln net.Listener

	mu       sync.Mutex
	commands []string
}

func startFakeRelay(t *testing.T, addr string) *fakeRelay {
	t.Helper()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		t.Skipf("cannot listen on %s: %v", addr, err)
	}
	r := &fakeRelay{ln: ln}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go r.serve(conn)
		}
	}()
	return r
}

func (r *fakeRelay) serve(conn net.Conn) {
	defer conn.Close()

	w := bufio.NewWriter(conn)
	reply := func(lines ...string) {
		for _, l := range lines {
			_, _ = w.WriteString(l + "\r\n")
		}
		_ = w.Flush()
	}

	reply("220 relay.test ESMTP")
	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Text()
		r.mu.Lock()
		r.commands = append(r.commands, line)
		r.mu.Unlock()

		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])
		switch verb {
		case "EHLO", "HELO":
			reply("250-relay.test", "250 AUTH PLAIN LOGIN")
		case "AUTH":
			reply("235 2.7.0 Authentication successful")
		case "NOOP", "RSET":
			reply("250 2.0.0 OK")
		case "QUIT":
			reply("221 2.0.0 Bye")
			return
		default:
			reply("502 5.5.2 Command not recognized")
		}
	}
}

func (r *fakeRelay) port() int {
	return r.ln.Addr().(*net.TCPAddr).Port
}

func (r *fakeRelay) sawAuth() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.commands {
		if strings.HasPrefix(strings.ToUpper(c), "AUTH ") {
			return true
		}
	}
	return false
}

func TestSender_Verify_CleartextRelay(t *testing.T) {
	t.Parallel()

	// 127.0.0.2 is a loopback address go-mail does not treat as localhost,
	// so cleartext auth behaves as it would against a remote relay.
	tests := []struct {
		name     string
		policy   string
		auth     string
		wantErr  bool
		wantAuth bool
	}{
		{name: "none with default auth", policy: TLSNone, wantAuth: true},
		{name: "opportunistic without starttls", policy: TLSOpportunistic, wantAuth: true},
		{name: "noauth skips authentication", policy: TLSNone, auth: AuthNone},
		{name: "plain refuses cleartext", policy: TLSNone, auth: AuthPlain, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			relay := startFakeRelay(t, "127.0.0.2:0")

			cfg := validConfig()
			cfg.Host = "127.0.0.2"
			cfg.Port = relay.port()
			cfg.TLSPolicy = tt.policy
			cfg.Auth = tt.auth

			s, err := New(cfg)
			require.NoError(t, err)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			err = s.Verify(ctx)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrRelayUnreachable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAuth, relay.sawAuth())
		})
	}
}
