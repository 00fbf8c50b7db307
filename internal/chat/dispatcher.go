package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/juntosfibro/fibrochat/internal/generation"
	"github.com/juntosfibro/fibrochat/internal/models"
	"github.com/juntosfibro/fibrochat/internal/moderation"
	"github.com/juntosfibro/fibrochat/internal/persona"
	"go.uber.org/zap"
)

const (
	// MaxAttachments is the per-request attachment cap for the admin persona.
	MaxAttachments = 5
	// MaxAttachmentSize caps the decoded size of a single attachment.
	MaxAttachmentSize = 5 * 1024 * 1024
)

// Reply is the terminal outcome of one dispatched message. Intercepted is
// true when the canned response short-circuited the generation provider.
type Reply struct {
	Text        string
	Intercepted bool
	Attachments []models.AttachmentMeta
}

// Dispatcher screens, assembles and forwards one message per call. It holds
// no per-request state; concurrent calls are independent.
type Dispatcher struct {
	moderator *moderation.Moderator
	generator generation.Generator
	logger    *zap.Logger
}

func NewDispatcher(moderator *moderation.Moderator, generator generation.Generator, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		moderator: moderator,
		generator: generator,
		logger:    logger,
	}
}

// Handle runs the per-message state machine: validate, screen (screened
// personas only), then either intercept with a canned response or build the
// persona prompt and invoke the generation provider once.
func (d *Dispatcher) Handle(ctx context.Context, name persona.Persona, message string, files []string) (Reply, error) {
	profile, err := persona.Lookup(name)
	if err != nil {
		return Reply{}, err
	}

	if !profile.AllowsAttachments {
		files = nil
	}

	if strings.TrimSpace(message) == "" && len(files) == 0 {
		return Reply{}, models.ErrEmptyMessage
	}

	if profile.Screened {
		severity := d.moderator.Classify(message)
		if severity != moderation.SeverityNone {
			d.logger.Info("Message intercepted",
				zap.String("persona", string(name)),
				zap.String("severity", severity.String()))
			return Reply{Text: d.moderator.Response(severity), Intercepted: true}, nil
		}
	}

	attachments, err := d.decodeAttachments(profile, files)
	if err != nil {
		return Reply{}, err
	}

	prompt := persona.BuildPrompt(profile, message, attachments)

	text, err := d.generator.Generate(ctx, prompt)
	if err != nil {
		d.logger.Error("Generation failed",
			zap.Error(err),
			zap.String("persona", string(name)))
		return Reply{}, fmt.Errorf("dispatch message: %w", err)
	}

	meta := make([]models.AttachmentMeta, len(attachments))
	for i, attachment := range attachments {
		meta[i] = models.AttachmentMeta{MimeType: attachment.MimeType}
	}

	return Reply{Text: text, Attachments: meta}, nil
}

// decodeAttachments enforces the count and size caps before any prompt is
// built, dropping malformed entries along the way.
func (d *Dispatcher) decodeAttachments(profile persona.Profile, files []string) ([]models.Attachment, error) {
	if len(files) == 0 {
		return nil, nil
	}

	limit := profile.MaxAttachments
	if limit <= 0 || limit > MaxAttachments {
		limit = MaxAttachments
	}
	if len(files) > limit {
		return nil, fmt.Errorf("%w: got %d, limit %d", models.ErrTooManyAttachments, len(files), limit)
	}

	// Size cap is checked on the encoded length so an oversized payload is
	// rejected before any decode buffer is allocated.
	for _, file := range files {
		if size := persona.DecodedSize(file); size > MaxAttachmentSize {
			return nil, fmt.Errorf("%w: %d bytes", models.ErrAttachmentTooLarge, size)
		}
	}

	return persona.DecodeAttachments(files, d.logger), nil
}
