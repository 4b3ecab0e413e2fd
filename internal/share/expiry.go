package share

import "time"

// Expiry option labels exposed to issuers.
const (
	ExpiryOption24Hours = "24h"
	ExpiryOption7Days   = "7days"
	ExpiryOption30Days  = "30days"
	ExpiryOptionNever   = "never"
)

// Expiry is a resolved expiry window: the short label echoed to clients and
// the duration fed into the token envelope.
type Expiry struct {
	Label    string
	Duration time.Duration
}

// ResolveExpiry maps an issuer-supplied expiry option to its window.
// "never" is capped at one year. Unrecognized options fall back to the
// 7-day default rather than failing.
func ResolveExpiry(option string) Expiry {
	switch option {
	case ExpiryOption24Hours:
		return Expiry{Label: "24h", Duration: 24 * time.Hour}
	case ExpiryOption7Days:
		return Expiry{Label: "7d", Duration: 7 * 24 * time.Hour}
	case ExpiryOption30Days:
		return Expiry{Label: "30d", Duration: 30 * 24 * time.Hour}
	case ExpiryOptionNever:
		return Expiry{Label: "365d", Duration: 365 * 24 * time.Hour}
	default:
		return Expiry{Label: "7d", Duration: 7 * 24 * time.Hour}
	}
}
