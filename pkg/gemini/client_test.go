package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leftys-backend/domain"
)

func newFakeGemini(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("test-key", "test-model", server.URL)
}

func candidateResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]interface{}{
						{"text": text},
					},
				},
			},
		},
	}
}

func TestGenerateReturnsModelText(t *testing.T) {
	client := newFakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Contains(t, r.URL.Path, "test-model")
		_ = json.NewEncoder(w).Encode(candidateResponse(`{"hello":"world"}`))
	})

	text, err := client.Generate(context.Background(), "say hello")
	require.NoError(t, err)
	assert.Equal(t, `{"hello":"world"}`, text)
}

func TestGenerateNotConfigured(t *testing.T) {
	client := NewClient("", "test-model", "")
	_, err := client.Generate(context.Background(), "anything")
	assert.ErrorIs(t, err, domain.ErrGeminiNotConfigured)
}

func TestGenerateUpstreamError(t *testing.T) {
	client := newFakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := client.Generate(context.Background(), "anything")
	assert.ErrorIs(t, err, domain.ErrGeminiAPIFailed)
}

func TestGenerateEmptyCandidates(t *testing.T) {
	client := newFakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
	})

	_, err := client.Generate(context.Background(), "anything")
	assert.ErrorIs(t, err, domain.ErrGeminiAPIFailed)
}

func TestExtractJSONStripsCodeFences(t *testing.T) {
	raw, err := ExtractJSON("```json\n{\"name\": \"Milk\"}\n```")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "Milk"}`, raw)
}

func TestExtractJSONFindsArrayInProse(t *testing.T) {
	raw, err := ExtractJSON("Here are your recipes:\n[{\"name\": \"Soup\"}]\nEnjoy!")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name": "Soup"}]`, raw)
}

func TestExtractJSONPrefersOuterArray(t *testing.T) {
	raw, err := ExtractJSON(`[{"a": 1}, {"b": 2}]`)
	require.NoError(t, err)

	var parsed []map[string]int
	require.NoError(t, json.Unmarshal([]byte(raw), &parsed))
	assert.Len(t, parsed, 2)
}

func TestExtractJSONGarbage(t *testing.T) {
	_, err := ExtractJSON("I'm sorry, I cannot help with that.")
	assert.ErrorIs(t, err, domain.ErrGeminiInvalidJSON)
}
