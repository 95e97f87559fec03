package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"resty.dev/v3"
)

func completion(content string) ChatCompletionResponse {
	return ChatCompletionResponse{
		ID:    "chatcmpl-123",
		Model: "gpt-4o-mini",
		Choices: []Choice{
			{Message: Message{Role: RoleAssistant, Content: content}, FinishReason: "stop"},
		},
	}
}

func TestClient_Translate(t *testing.T) {
	tests := []struct {
		name              string
		mockServerHandler func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request)
		want              string
		wantCalls         int32
		wantError         bool
	}{
		{
			name: "success",
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/chat/completions", r.URL.Path)

				var reqBody ChatCompletionRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
				assert.Equal(t, "gpt-4o-mini", reqBody.Model)
				require.Len(t, reqBody.Messages, 2)
				assert.Equal(t, RoleSystem, reqBody.Messages[0].Role)
				assert.Equal(t, "axe kick", reqBody.Messages[1].Content)

				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(completion(` "내려차기" `))
			},
			want:      "내려차기",
			wantCalls: 1,
		},
		{
			name: "retries server errors",
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				if calls == 1 {
					w.WriteHeader(http.StatusBadGateway)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(completion("내려차기"))
			},
			want:      "내려차기",
			wantCalls: 2,
		},
		{
			name: "client errors are not retried",
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
			},
			wantCalls: 1,
			wantError: true,
		},
		{
			name: "empty choices",
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(ChatCompletionResponse{ID: "chatcmpl-123"})
			},
			wantCalls: 1,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tt.mockServerHandler(t, calls.Add(1), w, r)
			}))
			defer server.Close()

			client := &Client{
				httpClient:       resty.New().SetBaseURL(server.URL),
				model:            "gpt-4o-mini",
				maxRetryAttempts: 2,
			}
			defer client.Close()

			got, err := client.Translate(context.Background(), "axe kick", "en", "ko")
			assert.Equal(t, tt.wantCalls, calls.Load())
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{err: nil, want: false},
		{err: assert.AnError, want: false},
		{err: errString("response error 503: unavailable"), want: true},
		{err: errString("response error 429: slow down"), want: true},
		{err: errString("response error 400: bad request"), want: false},
		{err: errString("dial tcp: connection refused"), want: true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isRetryableError(tt.err))
	}
}

type errString string

func (e errString) Error() string { return string(e) }
