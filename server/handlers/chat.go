package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/glintlabs/glint/errors"
	"github.com/glintlabs/glint/markdown"
	"github.com/glintlabs/glint/server/middleware"
	"github.com/glintlabs/glint/server/upstream"
	"github.com/glintlabs/glint/server/validation"
)

// ChatResponse is the success body of POST /api/chat. Result carries the
// extracted text; HTML carries the markdown-lite rendering the embedded
// client inserts directly into the page.
type ChatResponse struct {
	Result string `json:"result"`
	HTML   string `json:"html"`
}

// Chat handles POST /api/chat. Requests are stateless: the message list is
// flattened into a single prompt, no conversation state is kept server-side.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	logger := h.requestLogger(r, requestID)
	cfg := h.watcher.GetCurrentConfig()

	var req validation.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, errors.NewValidationError(requestID,
			"invalid chat request format",
			map[string]interface{}{"field": "messages"},
		))
		return
	}
	if err := validation.ValidateChatRequest(&req); err != nil {
		errors.WriteError(w, errors.NewValidationError(requestID,
			"messages must be a non-empty list of {role, content}",
			map[string]interface{}{"field": "messages"},
		))
		return
	}

	prompt := flattenMessages(req.Messages)
	if prompt == "" {
		errors.WriteError(w, errors.NewValidationError(requestID,
			"messages contain no text",
			map[string]interface{}{"field": "messages"},
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
		return ChatResponse{
			Result: text,
			HTML:   markdown.Render(text),
		}
	})
}

// flattenMessages turns the message list into one text prompt. A single
// message is forwarded verbatim; histories are joined as "role: content"
// lines so the upstream still sees a single text part.
func flattenMessages(messages []validation.Message) string {
	if len(messages) == 1 {
		return strings.TrimSpace(messages[0].Content)
	}

	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, content))
	}
	return strings.Join(lines, "\n")
}
