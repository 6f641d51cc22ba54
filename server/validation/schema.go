// Package validation defines the request schemas accepted by the relay and
// the token budgeting applied to prompts before they are forwarded upstream.
package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkoukk/tiktoken-go"
)

// validate is the shared validator instance. validator.Validate is
// thread-safe and caches struct metadata, so one instance serves all
// requests.
var validate = validator.New()

// GenerateRequest is the JSON body of POST /generate-text.
type GenerateRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// Message is a single chat message.
type Message struct {
	Role    string `json:"role" validate:"required,oneof=user bot assistant system"`
	Content string `json:"content" validate:"required"`
}

// ChatRequest is the JSON body of POST /api/chat.
type ChatRequest struct {
	Messages []Message `json:"messages" validate:"required,min=1,dive"`
}

// ValidateGenerateRequest checks a decoded generate request against its schema.
func ValidateGenerateRequest(req *GenerateRequest) error {
	return validate.Struct(req)
}

// ValidateChatRequest checks a decoded chat request against its schema.
func ValidateChatRequest(req *ChatRequest) error {
	return validate.Struct(req)
}

// Tokenizer defines the interface for token counting
type Tokenizer interface {
	CountTokens(text string) int
}

// tiktokenWrapper adapts tiktoken to the Tokenizer interface
type tiktokenWrapper struct {
	*tiktoken.Tiktoken
}

func (t *tiktokenWrapper) CountTokens(text string) int {
	tokens := t.Encode(text, nil, nil)
	return len(tokens)
}

// TokenCounter enforces the prompt token budget. The cl100k_base encoding is
// an approximation for non-OpenAI models, which is fine for a safety bound.
type TokenCounter struct {
	encoding Tokenizer
}

// NewTokenCounter creates a TokenCounter backed by tiktoken.
func NewTokenCounter() (*TokenCounter, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("load token encoding: %w", err)
	}
	return &TokenCounter{encoding: &tiktokenWrapper{enc}}, nil
}

// NewTokenCounterWith creates a TokenCounter with a custom tokenizer.
// Used in tests to avoid loading encoding data.
func NewTokenCounterWith(t Tokenizer) *TokenCounter {
	return &TokenCounter{encoding: t}
}

// Count returns the token count of text.
func (tc *TokenCounter) Count(text string) int {
	return tc.encoding.CountTokens(text)
}

// CheckBudget returns an error when text exceeds maxTokens.
// A zero or negative budget disables the check.
func (tc *TokenCounter) CheckBudget(text string, maxTokens int) error {
	if maxTokens <= 0 {
		return nil
	}
	n := tc.Count(text)
	if n > maxTokens {
		return fmt.Errorf("prompt is %d tokens, budget is %d", n, maxTokens)
	}
	return nil
}
