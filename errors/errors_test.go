package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	err := NewValidationError("req-1", "prompt is required", map[string]interface{}{
		"field": "prompt",
	})

	WriteError(rec, err)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %s", ct)
	}

	var resp ErrorResponse
	if decErr := json.NewDecoder(rec.Body).Decode(&resp); decErr != nil {
		t.Fatalf("Failed to decode error response: %v", decErr)
	}
	if resp.Type != ValidationError {
		t.Errorf("Expected type %v, got %v", ValidationError, resp.Type)
	}
	if resp.Message != "prompt is required" {
		t.Errorf("Expected error field to carry the message, got %q", resp.Message)
	}
	if resp.RequestID != "req-1" {
		t.Errorf("Expected request_id req-1, got %q", resp.RequestID)
	}
}

func TestErrorMessageUsesErrorField(t *testing.T) {
	// Clients contractually read the message from the "error" key.
	data, err := json.Marshal(NewUpstreamError("req-2", "model unavailable", nil))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if raw["error"] != "model unavailable" {
		t.Errorf("Expected error key to hold message, got %v", raw["error"])
	}
	if _, present := raw["message"]; present {
		t.Error("Did not expect a message key in the wire format")
	}
}

func TestErrorHelper(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.Header().Set("X-Request-ID", "req-3")

	Error(rec, "boom", http.StatusInternalServerError)

	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Type != InternalError {
		t.Errorf("Expected internal error type, got %v", resp.Type)
	}
	if resp.RequestID != "req-3" {
		t.Errorf("Expected request id from header, got %q", resp.RequestID)
	}
}
