/*
Package randx generates cryptographically secure random identifiers.

It produces the opaque Base62 subject IDs used when a session carries no
display name, and UUID token IDs that make individual share tokens
addressable by the revocation store.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the size of the Base62 character set.
	Base62Len = int64(len(Base62Chars))

	// SubjectIDLength is the length of generated opaque subject identifiers.
	SubjectIDLength = 10
)

// base62String returns a random Base62 string of the given length using crypto/rand.
func base62String(length int) (string, error) {
	result := make([]byte, length)

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// SubjectID generates an opaque identifier for a share subject whose session
// has no display name. Every issued token gets a stable subject id even for
// degenerate sessions.
func SubjectID() (string, error) {
	return base62String(SubjectIDLength)
}

// TokenID generates a UUID v4 string used as the jti of a share token.
func TokenID() string {
	return uuid.New().String()
}
