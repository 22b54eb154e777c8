package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"
)

// GeminiNarrator produces a plain-language explanation of a cycle
// decision after the decision is made. It never feeds back into
// scoring or rotation; a failed or absent narration changes nothing.
type GeminiNarrator struct {
	client *genai.Client
	model  string
}

func NewGeminiNarrator(ctx context.Context, apiKey, model string) (*GeminiNarrator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiNarrator{client: client, model: model}, nil
}

// Narrate explains the given cycle report. The report is passed as
// JSON so the model sees the same numbers the operator does.
func (g *GeminiNarrator) Narrate(ctx context.Context, report interface{}) (string, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(
		"You are reviewing a completed portfolio rotation decision. "+
			"Explain in 3-4 sentences, for a non-technical reader, what was decided and why, "+
			"based only on the data below. Do not suggest alternative trades.\n\n%s",
		string(payload))

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate narration: %w", err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text, nil
}
