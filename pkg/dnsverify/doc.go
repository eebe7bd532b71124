// Package dnsverify checks that an email address's domain can receive mail
// by looking up its MX records.
//
//	err := dnsverify.VerifyMailDomain(ctx, nil, "reader@example.com")
//	switch {
//	case errors.Is(err, dnsverify.ErrNoMailExchanger):
//		// reject the address
//	case errors.Is(err, dnsverify.ErrDNSLookupFailed):
//		// resolver trouble; the address may still be fine
//	}
package dnsverify
