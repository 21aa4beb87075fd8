package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		input    string
		expected Provider
		wantErr  bool
	}{
		{"GEMINI", ProviderGemini, false},
		{"openai", ProviderOpenAI, false},
		{" Grok ", ProviderGrok, false},
		{"claude", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParseProvider(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestCredential_Valid(t *testing.T) {
	assert.True(t, Credential{Provider: ProviderOpenAI, APIKey: "sk"}.Valid())
	assert.False(t, Credential{Provider: ProviderOpenAI}.Valid())
	assert.False(t, Credential{APIKey: "sk"}.Valid())
}

func TestNew_Defaults(t *testing.T) {
	c := New(Config{})
	assert.Equal(t, defaultGeminiModel, c.geminiModel)
	assert.Equal(t, defaultOpenAIModel, c.openAIModel)
	assert.Equal(t, defaultGrokModel, c.grokModel)
	assert.Equal(t, defaultGrokBaseURL, c.grokBaseURL)
}

// chatServer fakes the chat-completions endpoint and records the last request body.
func chatServer(t *testing.T, content string, gotBody *map[string]any, gotAuth *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, gotBody))
		*gotAuth = r.Header.Get("Authorization")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 0,
			"model":   (*gotBody)["model"],
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": content,
					},
				},
			},
		})
	}))
}

func TestClient_Complete_OpenAI(t *testing.T) {
	var body map[string]any
	var auth string
	server := chatServer(t, `{"trends":[{"title":"A"}]}`, &body, &auth)
	defer server.Close()

	c := New(Config{OpenAIBaseURL: server.URL})
	out, err := c.Complete(context.Background(), "give trends", Credential{Provider: ProviderOpenAI, APIKey: "sk-test"})
	require.NoError(t, err)

	assert.Equal(t, `{"trends":[{"title":"A"}]}`, out)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, defaultOpenAIModel, body["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])
	assert.InDelta(t, temperature, body["temperature"], 0.0001)

	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
}

func TestClient_Complete_Grok(t *testing.T) {
	var body map[string]any
	var auth string
	server := chatServer(t, `[]`, &body, &auth)
	defer server.Close()

	c := New(Config{GrokBaseURL: server.URL, GrokModel: "grok-test"})
	out, err := c.Complete(context.Background(), "give trends", Credential{Provider: ProviderGrok, APIKey: "xai-key"})
	require.NoError(t, err)

	assert.Equal(t, `[]`, out)
	assert.Equal(t, "Bearer xai-key", auth)
	assert.Equal(t, "grok-test", body["model"])
}

func TestClient_Complete_ChatError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	c := New(Config{OpenAIBaseURL: server.URL})
	_, err := c.Complete(context.Background(), "p", Credential{Provider: ProviderOpenAI, APIKey: "bad"})
	assert.Error(t, err)
}

func TestClient_Complete_Gemini(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, defaultGeminiModel)
		assert.Contains(t, r.URL.Path, "generateContent")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{
					"content": map[string]any{
						"role":  "model",
						"parts": []map[string]any{{"text": `[{"title":"Gemini topic"}]`}},
					},
					"finishReason": "STOP",
				},
			},
		})
	}))
	defer server.Close()

	c := New(Config{GeminiBaseURL: server.URL})
	out, err := c.Complete(context.Background(), "p", Credential{Provider: ProviderGemini, APIKey: "g-key"})
	require.NoError(t, err)
	assert.Equal(t, `[{"title":"Gemini topic"}]`, out)
}

func TestClient_Complete_RejectsBadCredential(t *testing.T) {
	c := New(Config{})

	_, err := c.Complete(context.Background(), "p", Credential{Provider: ProviderOpenAI})
	assert.Error(t, err)

	_, err = c.Complete(context.Background(), "p", Credential{Provider: "MISTRAL", APIKey: "k"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider")
}
