package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func partsShape(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"content": map[string]interface{}{
					"parts": []interface{}{
						map[string]interface{}{"text": text},
					},
				},
			},
		},
	}
}

func TestExtractKnownShapes(t *testing.T) {
	e := New(zaptest.NewLogger(t))

	tests := []struct {
		name   string
		result interface{}
		want   string
	}{
		{
			name: "wrapped parts shape",
			result: map[string]interface{}{
				"response": partsShape("hello from shape A"),
			},
			want: "hello from shape A",
		},
		{
			name:   "unwrapped parts shape",
			result: partsShape("hello from shape B"),
			want:   "hello from shape B",
		},
		{
			name: "wrapped content text shape",
			result: map[string]interface{}{
				"response": map[string]interface{}{
					"candidates": []interface{}{
						map[string]interface{}{
							"content": map[string]interface{}{
								"text": "hello from shape C",
							},
						},
					},
				},
			},
			want: "hello from shape C",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, outcome := e.Extract(tt.result)
			assert.Equal(t, tt.want, text)
			assert.Equal(t, OutcomeText, outcome)
		})
	}
}

func TestExtractPriorityOrder(t *testing.T) {
	e := New(zaptest.NewLogger(t))

	// Both the wrapped and unwrapped shapes are present; the wrapped one wins.
	result := map[string]interface{}{
		"response": partsShape("wrapped"),
	}
	for k, v := range partsShape("unwrapped") {
		result[k] = v
	}

	text, outcome := e.Extract(result)
	assert.Equal(t, "wrapped", text)
	assert.Equal(t, OutcomeText, outcome)
}

func TestExtractRawJSON(t *testing.T) {
	e := New(zaptest.NewLogger(t))

	raw := json.RawMessage(`{"candidates":[{"content":{"parts":[{"text":"raw bytes"}]}}]}`)
	text, outcome := e.Extract(raw)
	assert.Equal(t, "raw bytes", text)
	assert.Equal(t, OutcomeText, outcome)
}

func TestExtractFallbackSerialization(t *testing.T) {
	e := New(zaptest.NewLogger(t))

	result := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    float64(429),
			"message": "quota exceeded",
		},
	}

	want, err := json.MarshalIndent(result, "", "  ")
	require.NoError(t, err)

	text, outcome := e.Extract(result)
	assert.Equal(t, string(want), text)
	assert.Equal(t, OutcomeFallback, outcome)
}

func TestExtractNeverPanics(t *testing.T) {
	e := New(zaptest.NewLogger(t))

	inputs := []interface{}{
		nil,
		map[string]interface{}{},
		map[string]interface{}{"candidates": []interface{}{}},
		map[string]interface{}{"candidates": "not a list"},
		map[string]interface{}{
			"response": map[string]interface{}{
				"candidates": []interface{}{
					map[string]interface{}{"content": nil},
				},
			},
		},
		[]interface{}{1, 2, 3},
		"just a string",
		42,
		deeplyNested(200),
	}

	for _, in := range inputs {
		assert.NotPanics(t, func() {
			out := e.Text(in)
			assert.NotEmpty(t, out)
		})
	}
}

func TestExtractNullLeafFallsThrough(t *testing.T) {
	e := New(zaptest.NewLogger(t))

	// Shape B resolves to null; shape C carries the text.
	raw := json.RawMessage(`{
		"candidates": [{"content": {"parts": [{"text": null}]}}],
		"response": {"candidates": [{"content": {"text": "from C"}}]}
	}`)

	text, outcome := e.Extract(raw)
	assert.Equal(t, "from C", text)
	assert.Equal(t, OutcomeText, outcome)
}

func TestExtractUnserializable(t *testing.T) {
	e := New(zaptest.NewLogger(t))

	text, outcome := e.Extract(map[string]interface{}{"ch": make(chan int)})
	assert.Equal(t, Sentinel, text)
	assert.Equal(t, OutcomeSentinel, outcome)

	text, outcome = e.Extract([]byte("{not json"))
	assert.Equal(t, Sentinel, text)
	assert.Equal(t, OutcomeSentinel, outcome)
}

func deeplyNested(depth int) map[string]interface{} {
	m := map[string]interface{}{"leaf": true}
	for i := 0; i < depth; i++ {
		m = map[string]interface{}{"next": m}
	}
	return m
}
