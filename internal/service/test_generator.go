package service

import (
	"context"
)

// TestGenerator is a deterministic generator for tests. It returns the
// configured codes in order and sticks on the last one.
type TestGenerator struct {
	codes []string
	next  int
}

// NewTestGenerator creates a generator yielding the given codes
func NewTestGenerator(codes ...string) *TestGenerator {
	if len(codes) == 0 {
		codes = []string{"testcd1"}
	}
	return &TestGenerator{codes: codes}
}

// GenerateCode generates a new short code
func (g *TestGenerator) GenerateCode(ctx context.Context) (string, error) {
	code := g.codes[g.next]
	if g.next < len(g.codes)-1 {
		g.next++
	}
	return code, nil
}

// Type returns the type identifier of the generator
func (g *TestGenerator) Type() string {
	return "test"
}

// Close performs cleanup when the generator is no longer needed
func (g *TestGenerator) Close() error {
	return nil
}
