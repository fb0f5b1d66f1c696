package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Aum2411/Task-4-Raag/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroqClientComplete(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "Go is a programming language."}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 7, "total_tokens": 19}
		}`))
	}))
	defer srv.Close()

	client, err := llm.NewGroqClient("test-key", "llama-3.1-70b-versatile", srv.URL)
	require.NoError(t, err)

	resp, err := client.Complete(context.Background(), llm.Request{
		Messages: []llm.Message{
			{Role: llm.SystemRole, Content: "You are a helpful assistant."},
			{Role: llm.UserRole, Content: "What is Go?"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Go is a programming language.", resp.Content)
	assert.Equal(t, 19, resp.Usage.TotalTokens)

	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "llama-3.1-70b-versatile", gotBody["model"])
	// defaults applied when the request leaves them zero
	assert.Equal(t, float64(2048), gotBody["max_tokens"])
	assert.Equal(t, 0.7, gotBody["temperature"])
}

func TestGroqClientErrors(t *testing.T) {
	t.Run("MissingAPIKey", func(t *testing.T) {
		_, err := llm.NewGroqClient("", "", "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "GROQ_API_KEY")
	})

	t.Run("HTTPError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
		}))
		defer srv.Close()

		client, err := llm.NewGroqClient("bad-key", "", srv.URL)
		require.NoError(t, err)
		_, err = client.Complete(context.Background(), llm.Request{
			Messages: []llm.Message{{Role: llm.UserRole, Content: "hi"}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
		assert.Contains(t, err.Error(), "invalid api key")
	})

	t.Run("ErrorBody", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":{"message":"model decommissioned","type":"invalid_request_error"}}`))
		}))
		defer srv.Close()

		client, err := llm.NewGroqClient("key", "", srv.URL)
		require.NoError(t, err)
		_, err = client.Complete(context.Background(), llm.Request{
			Messages: []llm.Message{{Role: llm.UserRole, Content: "hi"}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model decommissioned")
	})

	t.Run("EmptyMessages", func(t *testing.T) {
		client, err := llm.NewGroqClient("key", "", "http://localhost:0")
		require.NoError(t, err)
		_, err = client.Complete(context.Background(), llm.Request{})
		assert.Error(t, err)
	})
}

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []llm.Message `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Messages, 2)
		assert.Equal(t, llm.SystemRole, body.Messages[0].Role)
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	client, err := llm.NewGroqClient("key", "", srv.URL)
	require.NoError(t, err)

	out, err := llm.Generate(context.Background(), client, "system prompt", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}
