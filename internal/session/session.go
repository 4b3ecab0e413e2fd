/*
Package session supplies the authenticated-session contract the share core
depends on: given a request, produce either a session payload with at least
a display name, or nil.

The default implementation reads an HS256 session JWT from the Authorization
header. How that JWT is minted (the OAuth sign-in flow against the upstream
identity provider) is outside this service; GenerateToken exists for the
login callback and for tests.
*/
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	// Expiration is the lifetime of an issued session token.
	Expiration = 24 * time.Hour

	// tokenIssuer identifies session tokens minted by this service.
	tokenIssuer = "karmashare-session"
)

// Payload is the session token's claims: the subject's display name on the
// upstream platform and the bearer credential for its OAuth API.
type Payload struct {
	jwt.StandardClaims

	// Name is the subject's display name, used as share-link subject identity.
	Name string `json:"name"`

	// AccessToken is the upstream OAuth bearer token. It never leaves the
	// server; the dashboard handlers use it to call the upstream API on the
	// session owner's behalf.
	AccessToken string `json:"accessToken,omitempty"`
}

// GenerateToken signs a session token for the given payload.
func GenerateToken(payload *Payload, secretKey string) (string, error) {
	now := time.Now()

	payload.StandardClaims = jwt.StandardClaims{
		ExpiresAt: now.Add(Expiration).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    tokenIssuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)

	return token.SignedString([]byte(secretKey))
}

// ParseToken parses and validates a session token string.
func ParseToken(tokenString string, secretKey string) (*Payload, error) {
	claims := &Payload{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid or expired session token")
	}

	return claims, nil
}
