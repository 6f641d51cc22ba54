// Package upstream implements the client for the generation API the relay
// fronts. The response body is returned as raw JSON: response shapes vary
// across API versions and call modes, so interpretation is left to the
// extraction layer downstream.
package upstream

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/glintlabs/glint/config"
	"go.uber.org/zap"
)

// maxResponseBytes bounds how much of an upstream response is buffered.
const maxResponseBytes = 10 << 20

// Part is one piece of a generation request: plain text, or an inline
// binary attachment with an explicit MIME type.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

// TextPart builds a text part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// InlinePart builds an inline binary part.
func InlinePart(mimeType string, data []byte) Part {
	return Part{MIMEType: mimeType, Data: data}
}

// Generator is the boundary to the generation API. Implementations return
// the raw response body; callers never depend on its shape.
type Generator interface {
	Generate(ctx context.Context, model string, parts []Part) (json.RawMessage, error)
}

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Snippet    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Snippet)
}

// Client calls the generateContent endpoint of a Gemini-style API.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ Generator = (*Client)(nil)

// NewClient creates a Client from the upstream configuration.
func NewClient(cfg config.UpstreamConfig, logger *zap.Logger) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Wire types for the generateContent request. Inline binary data travels
// base64-encoded next to the text prompt.
type generateRequest struct {
	Contents []contentBlock `json:"contents"`
}

type contentBlock struct {
	Parts []wirePart `json:"parts"`
}

type wirePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

// Generate sends parts to the named model and returns the raw response body.
func (c *Client) Generate(ctx context.Context, model string, parts []Part) (json.RawMessage, error) {
	if model == "" {
		return nil, fmt.Errorf("model must not be empty")
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("at least one part is required")
	}

	wire := make([]wirePart, 0, len(parts))
	for _, p := range parts {
		if p.Data != nil {
			wire = append(wire, wirePart{
				InlineData: &inlineData{
					MIMEType: p.MIMEType,
					Data:     base64.StdEncoding.EncodeToString(p.Data),
				},
			})
			continue
		}
		wire = append(wire, wirePart{Text: p.Text})
	}

	body, err := json.Marshal(generateRequest{
		Contents: []contentBlock{{Parts: wire}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read generate response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("upstream call failed",
			zap.String("model", model),
			zap.Int("status", resp.StatusCode),
		)
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Snippet:    snippet(respBody),
		}
	}

	return json.RawMessage(respBody), nil
}

// snippet trims a response body to a loggable size.
func snippet(b []byte) string {
	const max = 256
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
