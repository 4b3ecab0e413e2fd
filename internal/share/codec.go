package share

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"

	"karmashare/internal/pkg/randx"
)

// TokenIssuer identifies tokens minted by this service.
const TokenIssuer = "karmashare"

// Codec failure modes. Callers above the verification gateway never see the
// distinction; the gateway collapses both into one uniform invalid result.
var (
	// ErrInvalidSignature covers a malformed token, a tampered payload, or a
	// token signed with a different secret.
	ErrInvalidSignature = errors.New("share token signature is invalid")

	// ErrTokenExpired indicates the token verified but its expiry has passed.
	ErrTokenExpired = errors.New("share token has expired")
)

// Codec produces and consumes signed, self-expiring share tokens. The
// signing secret is injected at construction; there is no package-level
// secret and no fallback at this layer.
type Codec struct {
	secret []byte

	// now is the clock used when stamping the envelope. Tests substitute it.
	now func() time.Time
}

// NewCodec returns a Codec signing with the given symmetric secret.
func NewCodec(secret string) *Codec {
	return &Codec{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Encode signs the payload into an opaque HS256 token whose envelope expires
// after the given window. The payload's custom fields pass through
// unmodified; the standard claims are stamped here, and a token ID is
// generated when the payload carries none. Any alteration of the encoded
// fields invalidates the signature.
func (c *Codec) Encode(payload *Payload, expiry Expiry) (string, error) {
	now := c.now()

	tokenID := payload.Id
	if tokenID == "" {
		tokenID = randx.TokenID()
	}

	payload.StandardClaims = jwt.StandardClaims{
		Id:        tokenID,
		ExpiresAt: now.Add(expiry.Duration).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    TokenIssuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)

	return token.SignedString(c.secret)
}

// Decode verifies the token's signature and expiry and returns the payload
// exactly as encoded. Signature comparison is constant-time inside the HMAC
// verification; the signing method is pinned to HMAC so an attacker cannot
// downgrade to "none" or swap in an asymmetric scheme.
func (c *Codec) Decode(tokenString string) (*Payload, error) {
	claims := &Payload{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})

	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidSignature
	}

	if !token.Valid {
		return nil, ErrInvalidSignature
	}

	return claims, nil
}
