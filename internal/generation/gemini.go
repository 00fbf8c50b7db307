package generation

import (
	"context"
	"fmt"

	"github.com/juntosfibro/fibrochat/internal/models"
	"github.com/juntosfibro/fibrochat/internal/persona"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiGenerator calls the Gemini API with a single user turn carrying
// the prompt text and inline attachment parts.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt persona.Prompt) (string, error) {
	parts := []*genai.Part{{Text: prompt.Text}}
	for _, attachment := range prompt.Attachments {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: attachment.MimeType,
				Data:     attachment.Data,
			},
		})
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		g.logger.Error("Gemini call failed",
			zap.Error(err),
			zap.String("model", g.model))
		return "", fmt.Errorf("%w: %v", models.ErrGenerationFailed, err)
	}

	text := resp.Text()
	if text == "" {
		return EmptyResultFallback, nil
	}
	return text, nil
}
