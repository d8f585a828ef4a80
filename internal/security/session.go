package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// sessionTokenBytes is the entropy of a raw session token
const sessionTokenBytes = 32

// GenerateSessionToken returns 32 random bytes, hex encoded
func GenerateSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashSessionID hashes a raw session token with a fresh bcrypt salt.
// Two calls with the same input return different hashes, so the value
// returned at issuance must be stored and compared directly.
func HashSessionID(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash session id: %w", err)
	}
	return string(hash), nil
}

// SessionMatches compares a presented session value with the stored hash
// in constant time.
func SessionMatches(presented, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(presented), []byte(stored)) == 1
}

// GenerateRequestID creates a UUID used to correlate log lines of one request
func GenerateRequestID() string {
	return uuid.New().String()
}
