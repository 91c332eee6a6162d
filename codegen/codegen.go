// Package codegen provides short-code generation functionality.
// Generators should be safe for concurrent use.
package codegen

import (
	"crypto/rand"
)

const (
	// CodeLength is the fixed length of every generated short code.
	CodeLength = 8

	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"
)

// Generator produces candidate short codes. A generator makes no
// uniqueness guarantee; collision handling belongs to the caller.
// Implementations should be safe for concurrent use.
type Generator interface {
	Generate() (string, error)
}

// alphanumericGenerator draws 8-character codes uniformly at random
// from [a-zA-Z0-9]. It is safe for concurrent use.
type alphanumericGenerator struct{}

// NewAlphanumeric returns a new random alphanumeric code generator.
func NewAlphanumeric() Generator {
	return &alphanumericGenerator{}
}

// Generate returns a random code of exactly CodeLength characters.
func (g *alphanumericGenerator) Generate() (string, error) {
	b := make([]byte, CodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	for i := range b {
		b[i] = alphabet[int(b[i])%len(alphabet)]
	}

	return string(b), nil
}
