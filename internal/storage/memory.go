package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/juntosfibro/fibrochat/internal/models"
)

type MemoryStorage struct {
	mu       sync.RWMutex
	sessions map[string]*models.ChatSession
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		sessions: make(map[string]*models.ChatSession),
	}
}

func (s *MemoryStorage) Create(ctx context.Context, ownerID, title string, turns []models.ChatTurn) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	session := &models.ChatSession{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Title:     title,
		Turns:     copyTurns(turns),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[session.ID] = session
	return session.ID, nil
}

func (s *MemoryStorage) List(ctx context.Context, ownerID string) ([]models.SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := make([]*models.ChatSession, 0)
	for _, session := range s.sessions {
		if session.OwnerID == ownerID {
			owned = append(owned, session)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].UpdatedAt.After(owned[j].UpdatedAt)
	})

	summaries := make([]models.SessionSummary, len(owned))
	for i, session := range owned {
		summaries[i] = models.SessionSummary{
			ID:        session.ID,
			Title:     session.Title,
			CreatedAt: session.CreatedAt,
		}
	}
	return summaries, nil
}

func (s *MemoryStorage) Load(ctx context.Context, id string) (models.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[id]
	if !exists {
		return models.ChatSession{}, models.ErrSessionNotFound
	}
	copied := *session
	copied.Turns = copyTurns(session.Turns)
	return copied, nil
}

func (s *MemoryStorage) Replace(ctx context.Context, id string, turns []models.ChatTurn, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[id]
	if !exists {
		return models.ErrSessionNotFound
	}
	session.Turns = copyTurns(turns)
	session.UpdatedAt = updatedAt
	return nil
}

func (s *MemoryStorage) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}

// copyTurns keeps stored history isolated from caller-held slices,
// including the per-turn attachment metadata.
func copyTurns(turns []models.ChatTurn) []models.ChatTurn {
	copied := make([]models.ChatTurn, len(turns))
	copy(copied, turns)
	for i := range copied {
		if len(copied[i].Attachments) > 0 {
			attachments := make([]models.AttachmentMeta, len(copied[i].Attachments))
			copy(attachments, copied[i].Attachments)
			copied[i].Attachments = attachments
		}
	}
	return copied
}
