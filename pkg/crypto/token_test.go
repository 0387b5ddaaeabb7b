package crypto

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"
)

func TestGenerateHashedToken_CreatePair(t *testing.T) {
	tests := []struct {
		name           string
		byteLength     int
		expectedLength int
	}{
		{name: "zero uses default", byteLength: 0, expectedLength: DefaultTokenLength},
		{name: "negative uses default", byteLength: -10, expectedLength: DefaultTokenLength},
		{name: "16 bytes", byteLength: 16, expectedLength: 16},
		{name: "32 bytes", byteLength: 32, expectedLength: 32},
		{name: "64 bytes", byteLength: 64, expectedLength: 64},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Act
			pair, err := GenerateHashedToken(test.byteLength)

			// Assert
			if err != nil {
				t.Fatalf("GenerateHashedToken() error = %v", err)
			}
			if pair == nil {
				t.Fatal("GenerateHashedToken() returned nil")
			}
			if pair.Token == "" {
				t.Error("GenerateHashedToken() token is empty")
			}
			if pair.Token == pair.Hash {
				t.Error("GenerateHashedToken() token and hash should differ")
			}
			// Decode to verify byte length
			decoded, err := base64.RawURLEncoding.DecodeString(pair.Token)
			if err != nil {
				t.Fatalf("failed to decode token: %v", err)
			}
			if len(decoded) != test.expectedLength {
				t.Errorf("token length = %d bytes, want %d", len(decoded), test.expectedLength)
			}
			// Verify URL-safe characters
			if strings.ContainsAny(pair.Token, "+/= ") {
				t.Errorf("token contains URL-unsafe characters: %q", pair.Token)
			}
			// Verify hash is valid SHA256
			if len(pair.Hash) != 64 {
				t.Errorf("hash length = %d, want 64 (SHA256)", len(pair.Hash))
			}
			if _, err := hex.DecodeString(pair.Hash); err != nil {
				t.Errorf("hash is not valid hex: %v", err)
			}
		})
	}
}

func TestGenerateHashedToken_Unique(t *testing.T) {
	// Arrange
	const iterations = 100
	tokens := make(map[string]bool)
	hashes := make(map[string]bool)

	// Act & Assert
	for i := 0; i < iterations; i++ {
		pair, err := GenerateHashedToken(32)
		if err != nil {
			t.Fatalf("iteration %d: GenerateHashedToken() error = %v", i, err)
		}
		if tokens[pair.Token] {
			t.Errorf("iteration %d: duplicate token", i)
		}
		if hashes[pair.Hash] {
			t.Errorf("iteration %d: duplicate hash", i)
		}
		tokens[pair.Token] = true
		hashes[pair.Hash] = true
	}
}

func TestHashToken_Deterministic(t *testing.T) {
	// Arrange
	pair, _ := GenerateHashedToken(32)

	// Act & Assert
	for i := 0; i < 10; i++ {
		if got := HashToken(pair.Token); got != pair.Hash {
			t.Errorf("iteration %d: HashToken() = %q, want %q", i, got, pair.Hash)
		}
	}
}

func TestVerifyToken_ValidateToken(t *testing.T) {
	tests := []struct {
		name    string
		setup   func() (token, hash string)
		token   string
		hash    string
		wantErr bool
		wantOk  bool
	}{
		{
			name: "correct token",
			setup: func() (string, string) {
				pair, _ := GenerateHashedToken(32)
				return pair.Token, pair.Hash
			},
			wantErr: false,
			wantOk:  true,
		},
		{
			name: "wrong token",
			setup: func() (string, string) {
				pair, _ := GenerateHashedToken(32)
				return "wrong_token_value", pair.Hash
			},
			wantErr: false,
			wantOk:  false,
		},
		{
			name: "wrong hash",
			setup: func() (string, string) {
				pair, _ := GenerateHashedToken(32)
				return pair.Token, "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
			},
			wantErr: false,
			wantOk:  false,
		},
		{
			name:    "empty token",
			token:   "",
			hash:    "somehash",
			wantErr: true,
			wantOk:  false,
		},
		{
			name:    "empty hash",
			token:   "sometoken",
			hash:    "",
			wantErr: true,
			wantOk:  false,
		},
		{
			name: "modified token",
			setup: func() (string, string) {
				pair, _ := GenerateHashedToken(32)
				modifiedToken := pair.Token[:len(pair.Token)-1] + "X"
				return modifiedToken, pair.Hash
			},
			wantErr: false,
			wantOk:  false,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			token, hash := test.token, test.hash
			if test.setup != nil {
				token, hash = test.setup()
			}

			// Act
			ok, err := VerifyToken(token, hash)

			// Assert
			if (err != nil) != test.wantErr {
				t.Fatalf("VerifyToken() error = %v, wantErr %v", err, test.wantErr)
			}
			if !test.wantErr && ok != test.wantOk {
				t.Errorf("VerifyToken() = %v, want %v", ok, test.wantOk)
			}
		})
	}
}
