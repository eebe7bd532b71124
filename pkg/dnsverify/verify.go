package dnsverify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	ErrInvalidInput    = errors.New("dnsverify: invalid email address")
	ErrNoMailExchanger = errors.New("dnsverify: domain does not accept mail")
	ErrDNSLookupFailed = errors.New("dnsverify: dns lookup failed")
)

// Resolver looks up MX records. *net.Resolver satisfies it.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// VerifyMailDomain checks that the domain part of email publishes at least
// one usable MX record. A null MX ("." per RFC 7505) counts as none.
// A nil resolver uses net.DefaultResolver.
func VerifyMailDomain(ctx context.Context, r Resolver, email string) error {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return ErrInvalidInput
	}
	domain := strings.ToLower(strings.TrimSpace(email[at+1:]))

	if r == nil {
		r = net.DefaultResolver
	}

	records, err := r.LookupMX(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return ErrNoMailExchanger
		}
		return fmt.Errorf("%w: %v", ErrDNSLookupFailed, err)
	}

	for _, mx := range records {
		if mx.Host != "" && mx.Host != "." {
			return nil
		}
	}
	return ErrNoMailExchanger
}
