package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

const emailLookupTimeout = 3 * time.Second

// EmailDomainCheck reports whether an address's domain can receive mail:
// an MX record, or failing that any A/AAAA record. A nil resolver uses
// net.DefaultResolver.
func EmailDomainCheck(resolver *net.Resolver) func(email string) bool {
	if resolver == nil {
		resolver = net.DefaultResolver
	}

	return func(email string) bool {
		domain, ok := emailDomain(email)
		if !ok {
			return false
		}

		ctx, cancel := context.WithTimeout(context.Background(), emailLookupTimeout)
		defer cancel()

		if mx, err := resolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
			return true
		}
		addrs, err := resolver.LookupIPAddr(ctx, domain)
		return err == nil && len(addrs) > 0
	}
}

func emailDomain(email string) (string, bool) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", false
	}
	domain := strings.ToLower(strings.TrimSuffix(email[at+1:], "."))
	if !strings.Contains(domain, ".") {
		return "", false
	}
	return domain, true
}
