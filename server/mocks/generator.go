// Package mocks provides test doubles for the relay's boundaries.
package mocks

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/glintlabs/glint/server/upstream"
)

// GeneratorCall records one Generate invocation.
type GeneratorCall struct {
	Model string
	Parts []upstream.Part
}

// Generator is a mock upstream.Generator that records calls and returns a
// configured response or error.
type Generator struct {
	mu       sync.Mutex
	calls    []GeneratorCall
	Response json.RawMessage
	Err      error
}

var _ upstream.Generator = (*Generator)(nil)

// Generate records the call and returns the configured response.
func (g *Generator) Generate(ctx context.Context, model string, parts []upstream.Part) (json.RawMessage, error) {
	g.mu.Lock()
	g.calls = append(g.calls, GeneratorCall{Model: model, Parts: parts})
	g.mu.Unlock()

	if g.Err != nil {
		return nil, g.Err
	}
	return g.Response, nil
}

// Calls returns a copy of the recorded calls.
func (g *Generator) Calls() []GeneratorCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]GeneratorCall, len(g.calls))
	copy(out, g.calls)
	return out
}
