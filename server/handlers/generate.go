// Package handlers provides the HTTP handlers for the glint relay.
// It implements the generation endpoints (text, image, document, audio)
// and the chat endpoint consumed by the embedded web client.
//
// The package follows these design principles:
// 1. Consistent error handling using the errors package
// 2. Structured logging with request IDs
// 3. Clear request validation before any upstream call
// 4. The upstream response stays opaque until the extraction step
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/glintlabs/glint/config"
	"github.com/glintlabs/glint/errors"
	"github.com/glintlabs/glint/extract"
	"github.com/glintlabs/glint/server/metrics"
	"github.com/glintlabs/glint/server/middleware"
	"github.com/glintlabs/glint/server/upstream"
	"github.com/glintlabs/glint/server/validation"
	"go.uber.org/zap"
)

// GenerateResponse is the success body of the generation endpoints.
type GenerateResponse struct {
	Result string `json:"result"`
}

// Handler serves the generation endpoints. All fields are read-only after
// construction; per-request state lives on the stack.
type Handler struct {
	generator upstream.Generator
	extractor *extract.Extractor
	watcher   config.Watcher
	tokens    *validation.TokenCounter
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewHandler creates a Handler with its collaborators.
func NewHandler(
	generator upstream.Generator,
	extractor *extract.Extractor,
	watcher config.Watcher,
	tokens *validation.TokenCounter,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		generator: generator,
		extractor: extractor,
		watcher:   watcher,
		tokens:    tokens,
		metrics:   m,
		logger:    logger,
	}
}

// GenerateText handles POST /generate-text.
func (h *Handler) GenerateText(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	logger := h.requestLogger(r, requestID)
	cfg := h.watcher.GetCurrentConfig()

	var req validation.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, errors.NewValidationError(requestID,
			"prompt is required and must be a string",
			map[string]interface{}{"field": "prompt"},
		))
		return
	}
	if err := validation.ValidateGenerateRequest(&req); err != nil {
		errors.WriteError(w, errors.NewValidationError(requestID,
			"prompt is required and must be a string",
			map[string]interface{}{"field": "prompt"},
		))
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		errors.WriteError(w, errors.NewValidationError(requestID,
			"prompt must not be empty",
			map[string]interface{}{"field": "prompt"},
		))
		return
	}
	if glintErr := h.checkPromptLimits(requestID, prompt, cfg); glintErr != nil {
		errors.WriteError(w, glintErr)
		return
	}

	h.generate(w, r, logger, requestID, cfg.Models.Text, []upstream.Part{
		upstream.TextPart(prompt),
	}, func(text string) interface{} {
		return GenerateResponse{Result: text}
	})
}

// GenerateFromImage handles POST /generate-from-image.
func (h *Handler) GenerateFromImage(w http.ResponseWriter, r *http.Request) {
	h.generateFromAttachment(w, r, "image")
}

// GenerateFromDocument handles POST /generate-from-document.
func (h *Handler) GenerateFromDocument(w http.ResponseWriter, r *http.Request) {
	h.generateFromAttachment(w, r, "document")
}

// GenerateFromAudio handles POST /generate-from-audio.
func (h *Handler) GenerateFromAudio(w http.ResponseWriter, r *http.Request) {
	h.generateFromAttachment(w, r, "audio")
}

// generateFromAttachment is the shared multipart flow. kind doubles as the
// form field name: image, document, or audio.
func (h *Handler) generateFromAttachment(w http.ResponseWriter, r *http.Request, kind string) {
	requestID := middleware.GetRequestID(r.Context())
	logger := h.requestLogger(r, requestID)
	cfg := h.watcher.GetCurrentConfig()

	if err := r.ParseMultipartForm(cfg.Limits.MaxUploadBytes); err != nil {
		errors.WriteError(w, errors.NewValidationError(requestID,
			"invalid multipart form",
			map[string]interface{}{"error": err.Error()},
		))
		return
	}

	file, header, err := r.FormFile(kind)
	if err != nil {
		errors.WriteError(w, errors.NewValidationError(requestID,
			kind+" file is required",
			map[string]interface{}{"field": kind},
		))
		return
	}
	defer file.Close()

	// The whole attachment is buffered in memory before being forwarded
	// inline; the read is capped one byte past the limit to detect oversize.
	data, err := io.ReadAll(io.LimitReader(file, cfg.Limits.MaxUploadBytes+1))
	if err != nil {
		errors.WriteError(w, errors.NewUpstreamError(requestID, "failed to read uploaded file", err))
		return
	}
	if int64(len(data)) > cfg.Limits.MaxUploadBytes {
		errors.WriteError(w, errors.NewValidationError(requestID,
			kind+" file exceeds the upload limit",
			map[string]interface{}{"max_bytes": cfg.Limits.MaxUploadBytes},
		))
		return
	}
	if len(data) == 0 {
		errors.WriteError(w, errors.NewValidationError(requestID,
			kind+" file is empty",
			map[string]interface{}{"field": kind},
		))
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mimetype.Detect(data).String()
	}

	prompt := strings.TrimSpace(r.FormValue("prompt"))
	if prompt == "" {
		prompt = defaultPrompt(kind, cfg)
	}
	if glintErr := h.checkPromptLimits(requestID, prompt, cfg); glintErr != nil {
		errors.WriteError(w, glintErr)
		return
	}

	logger.Info("Processing attachment request",
		zap.String("kind", kind),
		zap.String("mime_type", mimeType),
		zap.Int("attachment_bytes", len(data)),
	)

	h.generate(w, r, logger, requestID, cfg.Models.ForKind(kind), []upstream.Part{
		upstream.TextPart(prompt),
		upstream.InlinePart(mimeType, data),
	}, func(text string) interface{} {
		return GenerateResponse{Result: text}
	})
}

// generate performs the upstream call, extraction, and response writing
// shared by every generation endpoint.
func (h *Handler) generate(
	w http.ResponseWriter,
	r *http.Request,
	logger *zap.Logger,
	requestID string,
	model string,
	parts []upstream.Part,
	respond func(text string) interface{},
) {
	start := time.Now()
	raw, err := h.generator.Generate(r.Context(), model, parts)
	h.metrics.UpstreamDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())

	if err != nil {
		h.metrics.UpstreamRequests.WithLabelValues(model, "error").Inc()
		logger.Error("generation call failed",
			zap.String("model", model),
			zap.Error(err),
		)
		if err == upstream.ErrUnavailable {
			errors.WriteError(w, errors.NewUnavailableError(requestID, err))
			return
		}
		errors.WriteError(w, errors.NewUpstreamError(requestID, err.Error(), err))
		return
	}
	h.metrics.UpstreamRequests.WithLabelValues(model, "ok").Inc()

	text, outcome := h.extractor.Extract(raw)
	if outcome != extract.OutcomeText {
		h.metrics.ExtractionFallbacks.Inc()
		logger.Warn("extraction degraded",
			zap.String("model", model),
			zap.String("outcome", outcome.String()),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(respond(text)); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

// checkPromptLimits applies the byte and token budgets to a prompt.
func (h *Handler) checkPromptLimits(requestID, prompt string, cfg *config.Config) *errors.GlintError {
	if len(prompt) > cfg.Limits.MaxPromptBytes {
		return errors.NewValidationError(requestID,
			"prompt too large",
			map[string]interface{}{
				"max_bytes":    cfg.Limits.MaxPromptBytes,
				"actual_bytes": len(prompt),
			},
		)
	}
	if h.tokens != nil {
		if err := h.tokens.CheckBudget(prompt, cfg.Limits.MaxPromptTokens); err != nil {
			return errors.NewValidationError(requestID,
				"prompt exceeds token budget",
				map[string]interface{}{"error": err.Error()},
			)
		}
	}
	return nil
}

// defaultPrompt returns the configured prompt used when a multipart request
// omits its prompt field.
func defaultPrompt(kind string, cfg *config.Config) string {
	switch kind {
	case "document":
		return cfg.Defaults.DocumentPrompt
	case "audio":
		return cfg.Defaults.AudioPrompt
	default:
		return cfg.Defaults.ImagePrompt
	}
}

func (h *Handler) requestLogger(r *http.Request, requestID string) *zap.Logger {
	return h.logger.With(
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
}
