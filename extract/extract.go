// Package extract locates the human-readable text inside a generation
// result. Upstream response shapes are not contractually stable across SDK
// versions or call modes (sync vs. streamed, wrapped vs. unwrapped), so the
// extractor probes a priority-ordered list of known shapes and degrades to a
// serialized dump of the whole result rather than rejecting.
package extract

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Sentinel is returned when the result cannot even be serialized.
// Extraction never propagates an error to the caller.
const Sentinel = "[unextractable response]"

// textPaths are the known result shapes, probed in order. First match wins.
// gjson tolerates absent intermediate keys, so probing can never panic on a
// malformed tree.
var textPaths = []string{
	"response.candidates.0.content.parts.0.text",
	"candidates.0.content.parts.0.text",
	"response.candidates.0.content.text",
}

// Outcome describes how the text was obtained.
type Outcome int

const (
	// OutcomeText means one of the known shapes matched.
	OutcomeText Outcome = iota
	// OutcomeFallback means no shape matched and the whole result was
	// serialized instead.
	OutcomeFallback
	// OutcomeSentinel means the result could not be serialized at all.
	OutcomeSentinel
)

// String returns the outcome label used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeText:
		return "text"
	case OutcomeFallback:
		return "fallback"
	default:
		return "sentinel"
	}
}

// Extractor resolves generation results to display text.
type Extractor struct {
	logger *zap.Logger
}

// New creates an Extractor that reports degradations through logger.
func New(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Text returns the text payload of result, falling back to a pretty-printed
// JSON dump of the whole result when no known shape matches. It never fails:
// any internal error yields the fallback, and if serialization itself fails
// the fixed Sentinel is returned.
func (e *Extractor) Text(result interface{}) string {
	text, _ := e.Extract(result)
	return text
}

// Extract is Text plus the outcome, so callers can count degradations.
func (e *Extractor) Extract(result interface{}) (text string, outcome Outcome) {
	// Traversal and serialization must never take the process down, even
	// for inputs that make the marshaler panic.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("extraction panicked", zap.Any("panic", r))
			text, outcome = Sentinel, OutcomeSentinel
		}
	}()

	raw, err := normalize(result)
	if err != nil {
		e.logger.Error("result not serializable", zap.Error(err))
		return Sentinel, OutcomeSentinel
	}

	for _, path := range textPaths {
		if v := gjson.GetBytes(raw, path); v.Exists() && v.Type != gjson.Null {
			return v.String(), OutcomeText
		}
	}

	dump, err := prettyPrint(raw)
	if err != nil {
		e.logger.Error("fallback serialization failed", zap.Error(err))
		return Sentinel, OutcomeSentinel
	}

	e.logger.Warn("no known response shape matched, returning serialized result",
		zap.Int("result_bytes", len(raw)),
	)
	return dump, OutcomeFallback
}

// normalize converts an arbitrary result into JSON bytes. Raw JSON inputs
// are used as-is when valid; everything else goes through the marshaler.
func normalize(result interface{}) ([]byte, error) {
	switch v := result.(type) {
	case nil:
		return []byte("null"), nil
	case json.RawMessage:
		if json.Valid(v) {
			return v, nil
		}
		return nil, fmt.Errorf("raw result is not valid JSON")
	case []byte:
		if json.Valid(v) {
			return v, nil
		}
		return nil, fmt.Errorf("raw result is not valid JSON")
	default:
		return json.Marshal(v)
	}
}

// prettyPrint renders raw JSON with two-space indentation, matching the
// fallback format clients already expect.
func prettyPrint(raw []byte) (string, error) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
