package storage

import (
	"context"
	"time"

	"github.com/juntosfibro/fibrochat/internal/models"
)

// SessionStore persists admin chat sessions as whole-history documents:
// loads return the session with every turn, writes replace every turn.
// Last write wins, no concurrency control. Owner checks are the caller's
// job, using the OwnerID carried on the loaded session.
type SessionStore interface {
	Create(ctx context.Context, ownerID, title string, turns []models.ChatTurn) (string, error)
	List(ctx context.Context, ownerID string) ([]models.SessionSummary, error)
	Load(ctx context.Context, id string) (models.ChatSession, error)
	Replace(ctx context.Context, id string, turns []models.ChatTurn, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	Close() error
}
