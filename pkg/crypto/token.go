package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
)

const (
	DefaultTokenLength = 32 // 256 bits
)

// TokenPair holds both sides of an opaque bearer token.
type TokenPair struct {
	Token string // value returned to client
	Hash  string // value in storage
}

// GenerateHashedToken creates a random bearer token and its storage hash.
// A byteLength of zero or less falls back to DefaultTokenLength.
func GenerateHashedToken(byteLength int) (*TokenPair, error) {
	if byteLength <= 0 {
		byteLength = DefaultTokenLength
	}

	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		return nil, err
	}

	token := base64.RawURLEncoding.EncodeToString(bytes)

	return &TokenPair{
		Token: token,
		Hash:  HashToken(token),
	}, nil
}

// HashToken derives the storage hash for a bearer token.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// VerifyToken checks a bearer token against its stored hash.
func VerifyToken(token, storedHash string) (bool, error) {
	if token == "" || storedHash == "" {
		return false, errors.New("token and hash cannot be empty")
	}

	tokenHash := HashToken(token)

	// Constant-time comparison to prevent timing attacks
	return subtle.ConstantTimeCompare([]byte(tokenHash), []byte(storedHash)) == 1, nil
}
