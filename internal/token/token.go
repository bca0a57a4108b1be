package token

import (
	"context"
	"strings"
)

// CodeLength is the length of every promotional token code.
const CodeLength = 5

// CodeAlphabet is the set of characters a token code is drawn from.
const CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeSet represents a batch of token codes read from an external source.
type CodeSet interface {
	// Contains checks if a code exists in the set.
	Contains(code string) bool

	// Codes returns the codes in the order they were read.
	Codes() []string

	// Size returns the number of codes in the set.
	Size() int
}

// Loader defines the interface for loading pre-printed token batches.
type Loader interface {
	// Load reads a gzipped batch file with one code per line.
	Load(ctx context.Context, path string) (CodeSet, error)
}

// Normalize canonicalises a user-supplied code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsWellFormed reports whether code is CodeLength characters drawn from
// CodeAlphabet.
func IsWellFormed(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(CodeAlphabet, rune(code[i])) {
			return false
		}
	}
	return true
}
