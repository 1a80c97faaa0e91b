package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"snochat-be/pkg/ai"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type GeminiChatParts struct {
	Text       string            `json:"text,omitempty"`
	InlineData *GeminiInlineData `json:"inline_data,omitempty"`
}

type GeminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type GeminiChatContent struct {
	Parts []*GeminiChatParts `json:"parts"`
	Role  string             `json:"role,omitempty"`
}

type GeminiChatRequest struct {
	Contents          []*GeminiChatContent `json:"contents"`
	SystemInstruction *GeminiChatContent   `json:"system_instruction,omitempty"`
}

type GeminiChatCandidate struct {
	Content *GeminiChatContent `json:"content"`
}

type GeminiChatResponse struct {
	Candidates []*GeminiChatCandidate `json:"candidates"`
}

type GeminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

type Client struct {
	apiKey            string
	model             string
	visionModel       string
	systemInstruction string
	visionPrompt      string
	baseURL           string
	httpClient        *http.Client
}

func NewClient(apiKey, model, visionModel, systemInstruction, visionPrompt string) *Client {
	return &Client{
		apiKey:            apiKey,
		model:             model,
		visionModel:       visionModel,
		systemInstruction: systemInstruction,
		visionPrompt:      visionPrompt,
		baseURL:           defaultBaseURL,
		httpClient:        &http.Client{},
	}
}

// WithBaseURL overrides the API endpoint, mainly for tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

func (c *Client) Converse(ctx context.Context, history []ai.Message) (string, error) {
	if c.apiKey == "" {
		return "", &ai.ProviderError{Category: ai.CategoryAuth, Message: "missing API key"}
	}

	chatContents := make([]*GeminiChatContent, 0, len(history))
	for _, msg := range history {
		chatContents = append(chatContents, &GeminiChatContent{
			Parts: []*GeminiChatParts{{Text: msg.Content}},
			Role:  msg.Role,
		})
	}

	payload := GeminiChatRequest{
		Contents: chatContents,
	}
	if c.systemInstruction != "" {
		payload.SystemInstruction = &GeminiChatContent{
			Parts: []*GeminiChatParts{{Text: c.systemInstruction}},
		}
	}

	return c.generate(ctx, c.model, payload)
}

func (c *Client) DescribeImage(ctx context.Context, data []byte, mimeType string) (string, error) {
	if c.apiKey == "" {
		return "", &ai.ProviderError{Category: ai.CategoryAuth, Message: "missing API key"}
	}

	payload := GeminiChatRequest{
		Contents: []*GeminiChatContent{
			{
				Parts: []*GeminiChatParts{
					{Text: c.visionPrompt},
					{InlineData: &GeminiInlineData{
						MimeType: mimeType,
						Data:     base64.StdEncoding.EncodeToString(data),
					}},
				},
				Role: "user",
			},
		},
	}

	return c.generate(ctx, c.visionModel, payload)
}

func (c *Client) generate(ctx context.Context, model string, payload GeminiChatRequest) (string, error) {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", &ai.ProviderError{Category: ai.CategoryGeneric, Message: "marshal request", Err: err}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return "", &ai.ProviderError{Category: ai.CategoryGeneric, Message: "build request", Err: err}
	}

	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ai.ProviderError{Category: ai.CategoryGeneric, Message: "call upstream", Err: err}
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &ai.ProviderError{Category: ai.CategoryGeneric, Message: "read response", Err: err}
	}

	if res.StatusCode != http.StatusOK {
		return "", categorize(res.StatusCode, resBody)
	}

	var geminiRes GeminiChatResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return "", &ai.ProviderError{Category: ai.CategoryGeneric, Message: "decode response", Err: err}
	}

	if len(geminiRes.Candidates) == 0 ||
		geminiRes.Candidates[0].Content == nil ||
		len(geminiRes.Candidates[0].Content.Parts) == 0 {
		return "", &ai.ProviderError{Category: ai.CategoryGeneric, Message: "empty candidates in response"}
	}

	return geminiRes.Candidates[0].Content.Parts[0].Text, nil
}

// categorize maps an upstream HTTP failure onto a provider error category.
// Status codes are authoritative; the body message breaks ties on 400/403
// where the API reports both key problems and quota problems.
func categorize(status int, body []byte) *ai.ProviderError {
	var errRes GeminiErrorResponse
	_ = json.Unmarshal(body, &errRes)
	message := errRes.Error.Message
	if message == "" {
		message = string(body)
	}

	upper := strings.ToUpper(message)

	switch {
	case status == http.StatusTooManyRequests:
		if strings.Contains(upper, "QUOTA") || strings.Contains(upper, "RESOURCE_EXHAUSTED") {
			return &ai.ProviderError{Category: ai.CategoryQuota, Message: message}
		}
		return &ai.ProviderError{Category: ai.CategoryRateLimit, Message: message}
	case status == http.StatusServiceUnavailable:
		return &ai.ProviderError{Category: ai.CategoryOverloaded, Message: message}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &ai.ProviderError{Category: ai.CategoryAuth, Message: message}
	case status == http.StatusBadRequest && strings.Contains(upper, "API_KEY"):
		return &ai.ProviderError{Category: ai.CategoryAuth, Message: message}
	case strings.Contains(upper, "OVERLOADED"):
		return &ai.ProviderError{Category: ai.CategoryOverloaded, Message: message}
	default:
		return &ai.ProviderError{
			Category: ai.CategoryGeneric,
			Message:  fmt.Sprintf("status %d: %s", status, message),
		}
	}
}
