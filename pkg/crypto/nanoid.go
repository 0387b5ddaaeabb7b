package crypto

import (
	"crypto/rand"
	"errors"
	"math"
	"unicode/utf8"
)

const (
	defaultAlphabet string = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	defaultSize     int    = 22 // 22 * 6 = 132 bits of entropy, more than a uuid
	maxAlphabetSize int    = 255
	minAlphabetSize int    = 8
)

var (
	ErrAlphabetTooLong     = errors.New("alphabet must contain no more than 255 characters")
	ErrAlphabetTooShort    = errors.New("alphabet must contain at least 8 characters")
	ErrAlphabetInvalidUTF8 = errors.New("alphabet must contain valid UTF-8")
	ErrAlphabetNotASCII    = errors.New("alphabet must contain only ASCII characters")
)

// NanoIDGenerator produces short, URL-safe random identifiers.
type NanoIDGenerator struct {
	alphabet string
	mask     int
}

func getMask(alphabetLen int) int {
	for i := 1; i <= 8; i++ {
		mask := (2 << uint(i)) - 1
		if mask > alphabetLen-1 {
			return mask
		}
	}
	return maxAlphabetSize
}

// NewNanoID creates a generator over the given alphabet, or the default
// URL-safe alphabet when alphabet is empty.
func NewNanoID(alphabet string) (*NanoIDGenerator, error) {
	if alphabet == "" {
		alphabet = defaultAlphabet
	}

	if !utf8.ValidString(alphabet) {
		return nil, ErrAlphabetInvalidUTF8
	}

	// Generate() indexes by byte position, so every character must be a
	// single-byte ASCII rune.
	for _, r := range alphabet {
		if r > 127 {
			return nil, ErrAlphabetNotASCII
		}
	}

	if len(alphabet) > maxAlphabetSize {
		return nil, ErrAlphabetTooLong
	}
	if len(alphabet) < minAlphabetSize {
		return nil, ErrAlphabetTooShort
	}

	return &NanoIDGenerator{
		alphabet: alphabet,
		mask:     getMask(len(alphabet)),
	}, nil
}

// Generate returns a new random identifier of the default size.
func (n *NanoIDGenerator) Generate() (string, error) {
	size := defaultSize
	alphabetLen := len(n.alphabet)

	// Oversample so rejected bytes rarely force another read.
	step := int(math.Ceil(1.6 * float64(n.mask*size) / float64(alphabetLen)))

	id := make([]byte, 0, size)
	bytes := make([]byte, step)

	for {
		if _, err := rand.Read(bytes); err != nil {
			return "", err
		}

		for i := 0; i < step; i++ {
			idx := int(bytes[i]) & n.mask
			if idx >= alphabetLen {
				continue
			}
			id = append(id, n.alphabet[idx])
			if len(id) == size {
				return string(id), nil
			}
		}
	}
}
