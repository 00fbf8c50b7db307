package models

import "errors"

var (
	ErrEmptyMessage       = errors.New("empty message")
	ErrTooManyAttachments = errors.New("too many attachments")
	ErrAttachmentTooLarge = errors.New("attachment too large")
	ErrUnknownPersona     = errors.New("unknown persona")
	ErrGenerationFailed   = errors.New("generation failed")
	ErrSessionNotFound    = errors.New("session not found")
)
