package share

import (
	"context"

	"karmashare/internal/pkg/logx"
	"karmashare/internal/store"
)

// Verifier is the single choke point for inbound share tokens. Every decode
// failure, and a revoked token ID when a revocation store is configured,
// collapses into the same nil result: callers cannot probe whether a token
// expired, was tampered with, or was revoked.
type Verifier struct {
	codec *Codec

	// revocations may be nil, in which case tokens are valid until expiry
	// with no server-side denylist.
	revocations store.Revocations
}

// NewVerifier builds a Verifier over the codec and an optional revocation store.
func NewVerifier(codec *Codec, revocations store.Revocations) *Verifier {
	return &Verifier{
		codec:       codec,
		revocations: revocations,
	}
}

// Verify decodes and validates the token, returning its payload or nil.
// It is idempotent and side-effect-free; verifying the same token twice
// yields the same result.
func (v *Verifier) Verify(ctx context.Context, token string) *Payload {
	payload, err := v.codec.Decode(token)
	if err != nil {
		// The reason stays in the log; the caller only learns "invalid".
		logx.Warn("Share token failed verification", "error", err)
		return nil
	}

	if v.revocations != nil {
		revoked, err := v.revocations.IsRevoked(ctx, payload.Id)
		if err != nil {
			// Fail closed: an unreachable revocation store must not turn
			// revoked tokens back on.
			logx.Error(err, "Revocation check failed, rejecting token", "token_id", payload.Id)
			return nil
		}
		if revoked {
			logx.Info("Rejected revoked share token", "token_id", payload.Id)
			return nil
		}
	}

	return payload
}
