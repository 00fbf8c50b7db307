package generation

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/juntosfibro/fibrochat/internal/models"
	"github.com/juntosfibro/fibrochat/internal/persona"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIGenerator is the OpenAI-compatible provider backend. Attachments
// are re-encoded as data-URI image parts.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

func NewOpenAIGenerator(apiKey, model string, maxTokens int, temperature float64, logger *zap.Logger) *OpenAIGenerator {
	return &OpenAIGenerator{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt persona.Prompt) (string, error) {
	message := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}

	if len(prompt.Attachments) == 0 {
		message.Content = prompt.Text
	} else {
		parts := []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: prompt.Text},
		}
		for _, attachment := range prompt.Attachments {
			uri := fmt.Sprintf("data:%s;base64,%s",
				attachment.MimeType,
				base64.StdEncoding.EncodeToString(attachment.Data))
			parts = append(parts, openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: uri},
			})
		}
		message.MultiContent = parts
	}

	resp, err := g.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       g.model,
			Messages:    []openai.ChatCompletionMessage{message},
			MaxTokens:   g.maxTokens,
			Temperature: float32(g.temperature),
		},
	)
	if err != nil {
		g.logger.Error("OpenAI call failed",
			zap.Error(err),
			zap.String("model", g.model))
		return "", fmt.Errorf("%w: %v", models.ErrGenerationFailed, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return EmptyResultFallback, nil
	}
	return resp.Choices[0].Message.Content, nil
}
