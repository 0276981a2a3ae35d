package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const systemPrompt = "You are an expert ATS analyst and career coach. Always answer with a single valid JSON object."

// ChatClient talks to an OpenAI-compatible chat completions endpoint (Groq by default).
type ChatClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewChatClient builds a client for {baseURL}/chat/completions. A nil httpClient gets a
// traced client with the given timeout.
func NewChatClient(baseURL, apiKey, model string, timeout time.Duration, httpClient *http.Client) *ChatClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &ChatClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *ChatClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    0.3,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownstreamUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownstreamUnavailable, err)
	}
	if err := statusErr(resp.StatusCode); err != nil {
		return "", err
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrInvalidResponse)
	}
	return out.Choices[0].Message.Content, nil
}

// statusErr returns nil for 2xx. 429 and 5xx stay retryable; any other status means the
// request itself is wrong and is marked with ErrRejected.
func statusErr(code int) error {
	switch {
	case code >= 200 && code <= 299:
		return nil
	case code == http.StatusTooManyRequests || code >= 500:
		return fmt.Errorf("%w: status %d", ErrDownstreamUnavailable, code)
	default:
		return fmt.Errorf("%w: %w: status %d", ErrDownstreamUnavailable, ErrRejected, code)
	}
}
