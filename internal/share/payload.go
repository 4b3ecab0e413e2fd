/*
Package share implements the capability-token core: the signed payload, the
codec that encodes and verifies it, the issuance service that turns an
authenticated session into a shareable link, and the verification gateway
every inbound token must pass through.
*/
package share

import "github.com/golang-jwt/jwt"

// Payload is the decoded content of a share capability token. It embeds the
// standard claims so the signature envelope itself enforces expiry; the
// custom fields describe what the bearer may view.
type Payload struct {
	// StandardClaims carries Exp, Iat, Iss and the token ID (Jti). Expiry is
	// enforced here, not by the Created field below.
	jwt.StandardClaims

	// UserID is the stable identifier for the subject account. For anonymous
	// links this is the only subject reference ever echoed to viewers.
	UserID string `json:"userId"`

	// Username is the subject's real account name when known. It is embedded
	// even for anonymous links so the server can fetch real data, but it must
	// never be echoed to an unauthenticated viewer of an anonymous profile.
	// Its presence doubles as the "has underlying identity" signal downstream.
	Username string `json:"username,omitempty"`

	// Created is the issuance time in milliseconds since epoch. Informational
	// only; the envelope's Exp claim is the expiry authority.
	Created int64 `json:"created"`

	// IsAnonymous is the issuer-chosen policy flag that makes the resolution
	// policy redact identity fields from the resolved view.
	IsAnonymous bool `json:"isAnonymous"`
}
