/*
Package store holds the service's optional persistence: the share-token
revocation list and the issuance audit log.

Tokens are stateless bearer capabilities, so neither store is required for
the service to run. When configured, the revocation list lets an issuer kill
a link before its expiry, and the audit log records every issued link for
the owner's history view.
*/
package store

import (
	"context"
	"time"
)

// Revocations is the denylist consulted by the verification gateway. Entries
// are keyed by token ID and only need to live until the token's own expiry.
type Revocations interface {
	// Revoke marks the token ID revoked until the given expiry time.
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error

	// IsRevoked reports whether the token ID has been revoked.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)

	Close() error
}
