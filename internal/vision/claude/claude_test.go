package claude

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfujita/mapnotes/internal/domain"
)

func TestSuggest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"id":   "msg_test",
			"type": "message",
			"role": "assistant",
			"content": []map[string]interface{}{
				{"type": "text", "text": "itemBox | 0.2 | 0.3 | triple row\nhazard | 0.8 | 0.1 | thwomp"},
			},
			"model":       "model-x",
			"stop_reason": "end_turn",
			"usage":       map[string]int{"input_tokens": 1, "output_tokens": 1},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	analyzer := New("sk-test", "model-x", anthropic.WithBaseURL(server.URL))

	suggestions, err := analyzer.Suggest(context.Background(), []byte{0xFF, 0xD8}, "image/jpeg")
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, domain.MarkerItemBox, suggestions[0].Type)
	assert.Equal(t, 0.2, suggestions[0].X)
	assert.Equal(t, "thwomp", suggestions[1].Note)
}

func TestSuggestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"rate limited"}}`))
	}))
	defer server.Close()

	analyzer := New("sk-test", "model-x", anthropic.WithBaseURL(server.URL))

	_, err := analyzer.Suggest(context.Background(), []byte{0xFF, 0xD8}, "image/jpeg")
	assert.Error(t, err)
}

func TestNormaliseMIME(t *testing.T) {
	assert.Equal(t, "image/png", normaliseMIME("image/png"))
	assert.Equal(t, "image/webp", normaliseMIME("image/webp"))
	assert.Equal(t, "image/jpeg", normaliseMIME("image/tiff"))
	assert.Equal(t, "image/jpeg", normaliseMIME(""))
}
