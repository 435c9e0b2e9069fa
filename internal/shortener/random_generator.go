package shortener

import (
	"context"
	"crypto/rand"
	"fmt"
)

// URL-safe alphabet, 64 characters so a random byte maps to a character
// without modulo bias.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// RandomGenerator generates short codes from cryptographically random bytes
type RandomGenerator struct {
	length int
}

// NewRandomGenerator creates a new random generator producing codes of the
// given length
func NewRandomGenerator(length int) (*RandomGenerator, error) {
	if length < 4 {
		return nil, fmt.Errorf("code length must be at least 4, got %d", length)
	}

	return &RandomGenerator{length: length}, nil
}

// GenerateCode generates a new short code
func (g *RandomGenerator) GenerateCode(ctx context.Context) (string, error) {
	buf := make([]byte, g.length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	for i, b := range buf {
		buf[i] = alphabet[b&0x3f]
	}

	return string(buf), nil
}

// Type returns the type identifier of the generator
func (g *RandomGenerator) Type() string {
	return TypeRandom
}

// Length returns the configured code length
func (g *RandomGenerator) Length() int {
	return g.length
}

// Close performs cleanup when the generator is no longer needed
func (g *RandomGenerator) Close() error {
	return nil
}

// Ensure RandomGenerator implements the interface
var _ Generator = (*RandomGenerator)(nil)
