package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuchat-be/pkg/llm"
)

func TestNewProviderBaseURL(t *testing.T) {
	p := NewProvider("key", "", "gpt-4o-mini")
	assert.Equal(t, defaultBaseURL, p.baseURL)

	p = NewProvider("key", "http://localhost:8080/v1/", "gpt-4o-mini")
	assert.Equal(t, "http://localhost:8080/v1", p.baseURL)
}

func TestChatUsesConfiguredBaseURL(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "pong"}},
			},
		})
	}))
	defer server.Close()

	p := NewProvider("test-key", server.URL+"/custom", "gpt-4o-mini")
	result, err := p.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "ping"}})
	require.NoError(t, err)

	assert.Equal(t, "pong", result.Content)
	assert.Equal(t, "/custom/chat/completions", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
}
