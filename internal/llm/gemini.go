package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Gemini completes prompts with the Gemini API
type Gemini struct {
	client *genai.Client
}

// NewGemini creates a Gemini provider
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{client: client}, nil
}

// Complete sends the user prompt with the system prompt as instruction
func (p *Gemini) Complete(ctx context.Context, model, system, user string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(temperature)),
		MaxOutputTokens: maxTokens,
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	result, err := p.client.Models.GenerateContent(ctx, model, genai.Text(user), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return extractText(result)
}

func extractText(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("no content generated")
	}

	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no content generated")
	}
	return b.String(), nil
}
