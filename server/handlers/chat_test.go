package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/glintlabs/glint/errors"
	"github.com/glintlabs/glint/server/mocks"
	"github.com/glintlabs/glint/server/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatSuccess(t *testing.T) {
	gen := &mocks.Generator{Response: candidateJSON("Here is **bold** text")}
	h := newTestHandler(t, gen)

	rec := postJSON(t, h.Chat, `{"messages": [{"role": "user", "content": "hello"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ChatResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Here is **bold** text", resp.Result)
	assert.Equal(t, "Here is <strong>bold</strong> text", resp.HTML)

	calls := gen.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "model-text", calls[0].Model)
	require.Len(t, calls[0].Parts, 1)
	assert.Equal(t, "hello", calls[0].Parts[0].Text)
}

func TestChatRendersLists(t *testing.T) {
	gen := &mocks.Generator{Response: candidateJSON("* one\n* two")}
	h := newTestHandler(t, gen)

	rec := postJSON(t, h.Chat, `{"messages": [{"role": "user", "content": "list please"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ChatResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "<ul><li>one</li><br><li>two</li></ul>", resp.HTML)
}

func TestChatValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing messages", `{}`},
		{"empty messages", `{"messages": []}`},
		{"message without content", `{"messages": [{"role": "user"}]}`},
		{"message without role", `{"messages": [{"content": "hi"}]}`},
		{"unknown role", `{"messages": [{"role": "wizard", "content": "hi"}]}`},
		{"malformed json", `{"messages": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mocks.Generator{Response: candidateJSON("never")}
			h := newTestHandler(t, gen)

			rec := postJSON(t, h.Chat, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, gen.Calls())

			var resp errors.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, errors.ValidationError, resp.Type)
		})
	}
}

func TestChatWhitespaceOnlyContent(t *testing.T) {
	gen := &mocks.Generator{Response: candidateJSON("never")}
	h := newTestHandler(t, gen)

	rec := postJSON(t, h.Chat, `{"messages": [{"role": "user", "content": "   "}]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, gen.Calls())
}

func TestChatUpstreamFailure(t *testing.T) {
	gen := &mocks.Generator{Err: assert.AnError}
	h := newTestHandler(t, gen)

	rec := postJSON(t, h.Chat, `{"messages": [{"role": "user", "content": "hi"}]}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp errors.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, errors.UpstreamError, resp.Type)
}

func TestFlattenMessages(t *testing.T) {
	tests := []struct {
		name     string
		messages []validation.Message
		want     string
	}{
		{
			name:     "single message verbatim",
			messages: []validation.Message{{Role: "user", Content: "  hello there  "}},
			want:     "hello there",
		},
		{
			name: "history joined with roles",
			messages: []validation.Message{
				{Role: "user", Content: "hi"},
				{Role: "bot", Content: "hello"},
				{Role: "user", Content: "how are you?"},
			},
			want: "user: hi\nbot: hello\nuser: how are you?",
		},
		{
			name: "blank entries skipped",
			messages: []validation.Message{
				{Role: "user", Content: "first"},
				{Role: "bot", Content: "   "},
				{Role: "user", Content: "second"},
			},
			want: "user: first\nuser: second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, flattenMessages(tt.messages))
		})
	}
}
