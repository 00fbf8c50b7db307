package generation

import (
	"context"

	"github.com/juntosfibro/fibrochat/internal/persona"
)

// Generator sends an assembled prompt to an external text-generation
// provider and returns the generated text. One model per deployment, no
// retries: a failed call surfaces immediately.
type Generator interface {
	Generate(ctx context.Context, prompt persona.Prompt) (string, error)
}

// EmptyResultFallback substitutes an empty provider result.
const EmptyResultFallback = "Desculpe, não consegui processar sua pergunta."
