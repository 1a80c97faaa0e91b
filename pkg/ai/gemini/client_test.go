package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"snochat-be/pkg/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	return NewClient("test-key", "gemini-2.0-flash", "gemini-2.0-flash", "system text", "vision prompt").
		WithBaseURL(baseURL)
}

func replyBody(text string) string {
	res := GeminiChatResponse{
		Candidates: []*GeminiChatCandidate{
			{Content: &GeminiChatContent{Parts: []*GeminiChatParts{{Text: text}}}},
		},
	}
	raw, _ := json.Marshal(res)
	return string(raw)
}

func TestConverse(t *testing.T) {
	var captured GeminiChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(replyBody("hello back")))
	}))
	defer server.Close()

	client := testClient(server.URL)

	reply, err := client.Converse(context.Background(), []ai.Message{
		{Role: "user", Content: "hi"},
		{Role: "model", Content: "hello"},
		{Role: "user", Content: "how are you?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello back", reply)

	require.Len(t, captured.Contents, 3)
	assert.Equal(t, "user", captured.Contents[0].Role)
	assert.Equal(t, "model", captured.Contents[1].Role)
	assert.Equal(t, "how are you?", captured.Contents[2].Parts[0].Text)

	require.NotNil(t, captured.SystemInstruction)
	assert.Equal(t, "system text", captured.SystemInstruction.Parts[0].Text)
}

func TestConverse_MissingKey(t *testing.T) {
	client := NewClient("", "m", "m", "", "")

	_, err := client.Converse(context.Background(), []ai.Message{{Role: "user", Content: "hi"}})
	assert.Equal(t, ai.CategoryAuth, ai.CategoryOf(err))
}

func TestConverse_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Converse(context.Background(), []ai.Message{{Role: "user", Content: "hi"}})
	assert.Equal(t, ai.CategoryGeneric, ai.CategoryOf(err))
}

func TestDescribeImage(t *testing.T) {
	var captured GeminiChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(replyBody("a cat on a mat")))
	}))
	defer server.Close()

	client := testClient(server.URL)

	summary, err := client.DescribeImage(context.Background(), []byte{0x89, 0x50}, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "a cat on a mat", summary)

	require.Len(t, captured.Contents, 1)
	parts := captured.Contents[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, "vision prompt", parts[0].Text)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "image/png", parts[1].InlineData.MimeType)
	assert.Equal(t, "iVA=", parts[1].InlineData.Data)
}

func TestErrorCategorization(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   ai.ErrorCategory
	}{
		{
			name:   "429 is a rate limit",
			status: http.StatusTooManyRequests,
			body:   `{"error": {"message": "Too many requests"}}`,
			want:   ai.CategoryRateLimit,
		},
		{
			name:   "429 mentioning quota is quota exhaustion",
			status: http.StatusTooManyRequests,
			body:   `{"error": {"message": "Quota exceeded for requests", "status": "RESOURCE_EXHAUSTED"}}`,
			want:   ai.CategoryQuota,
		},
		{
			name:   "503 is overloaded",
			status: http.StatusServiceUnavailable,
			body:   `{"error": {"message": "The model is overloaded"}}`,
			want:   ai.CategoryOverloaded,
		},
		{
			name:   "401 is auth",
			status: http.StatusUnauthorized,
			body:   `{"error": {"message": "Invalid credentials"}}`,
			want:   ai.CategoryAuth,
		},
		{
			name:   "403 is auth",
			status: http.StatusForbidden,
			body:   `{"error": {"message": "Permission denied"}}`,
			want:   ai.CategoryAuth,
		},
		{
			name:   "400 mentioning the key is auth",
			status: http.StatusBadRequest,
			body:   `{"error": {"message": "API_KEY_INVALID"}}`,
			want:   ai.CategoryAuth,
		},
		{
			name:   "500 mentioning overload is overloaded",
			status: http.StatusInternalServerError,
			body:   `{"error": {"message": "Model OVERLOADED, retry later"}}`,
			want:   ai.CategoryOverloaded,
		},
		{
			name:   "anything else is generic",
			status: http.StatusInternalServerError,
			body:   `{"error": {"message": "boom"}}`,
			want:   ai.CategoryGeneric,
		},
		{
			name:   "non json body",
			status: http.StatusBadGateway,
			body:   `upstream exploded`,
			want:   ai.CategoryGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := testClient(server.URL).Converse(context.Background(), []ai.Message{{Role: "user", Content: "hi"}})
			require.Error(t, err)
			assert.Equal(t, tt.want, ai.CategoryOf(err), "got %v", err)

			assert.True(t, ai.IsOverloaded(err) == (tt.want == ai.CategoryOverloaded))
		})
	}
}
