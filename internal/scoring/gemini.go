package scoring

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient completes prompts through the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	temperature := float32(0.3)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       &temperature,
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownstreamUnavailable, err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty candidate", ErrInvalidResponse)
	}
	return text, nil
}
