package shortener

import (
	"context"
)

// Generator defines the interface for generating short codes
type Generator interface {
	// GenerateCode generates a new short code
	GenerateCode(ctx context.Context) (string, error)

	// Type returns the type identifier of the generator
	Type() string

	// Close performs cleanup when the generator is no longer needed
	Close() error
}

// Config holds configuration for shortener generators
type Config struct {
	CodeLength int `json:"code_length"` // Length of generated short codes
}

// GeneratorType constants
const (
	TypeRandom = "random"
)

// DefaultCodeLength is the short code length used when none is configured.
const DefaultCodeLength = 7

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		CodeLength: DefaultCodeLength,
	}
}
