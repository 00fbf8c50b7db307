package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/juntosfibro/fibrochat/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps each session as a JSON blob under session:<id> and a
// per-owner index of session ids under owner_sessions:<ownerID>.
type RedisStorage struct {
	rdb *redis.Client
}

func NewRedisStorage(rdb *redis.Client) *RedisStorage {
	return &RedisStorage{rdb: rdb}
}

func sessionKey(id string) string {
	return "session:" + id
}

func ownerKey(ownerID string) string {
	return "owner_sessions:" + ownerID
}

func (s *RedisStorage) Create(ctx context.Context, ownerID, title string, turns []models.ChatTurn) (string, error) {
	now := time.Now()
	session := models.ChatSession{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Title:     title,
		Turns:     turns,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.setSession(ctx, session); err != nil {
		return "", err
	}

	ids, err := s.ownerIndex(ctx, ownerID)
	if err != nil {
		return "", err
	}
	ids = append(ids, session.ID)
	if err := s.setOwnerIndex(ctx, ownerID, ids); err != nil {
		return "", err
	}

	return session.ID, nil
}

func (s *RedisStorage) List(ctx context.Context, ownerID string) ([]models.SessionSummary, error) {
	ids, err := s.ownerIndex(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	sessions := make([]models.ChatSession, 0, len(ids))
	for _, id := range ids {
		session, err := s.getSession(ctx, id)
		if err != nil {
			if errors.Is(err, models.ErrSessionNotFound) {
				continue
			}
			return nil, err
		}
		sessions = append(sessions, session)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})

	summaries := make([]models.SessionSummary, len(sessions))
	for i, session := range sessions {
		summaries[i] = models.SessionSummary{
			ID:        session.ID,
			Title:     session.Title,
			CreatedAt: session.CreatedAt,
		}
	}
	return summaries, nil
}

func (s *RedisStorage) Load(ctx context.Context, id string) (models.ChatSession, error) {
	return s.getSession(ctx, id)
}

func (s *RedisStorage) Replace(ctx context.Context, id string, turns []models.ChatTurn, updatedAt time.Time) error {
	session, err := s.getSession(ctx, id)
	if err != nil {
		return err
	}
	session.Turns = turns
	session.UpdatedAt = updatedAt
	return s.setSession(ctx, session)
}

func (s *RedisStorage) Delete(ctx context.Context, id string) error {
	session, err := s.getSession(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	if err := s.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}

	ids, err := s.ownerIndex(ctx, session.OwnerID)
	if err != nil {
		return err
	}
	remaining := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			remaining = append(remaining, existing)
		}
	}
	return s.setOwnerIndex(ctx, session.OwnerID, remaining)
}

func (s *RedisStorage) Close() error {
	return s.rdb.Close()
}

func (s *RedisStorage) getSession(ctx context.Context, id string) (models.ChatSession, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.ChatSession{}, models.ErrSessionNotFound
		}
		return models.ChatSession{}, fmt.Errorf("failed to get session %s: %w", id, err)
	}

	var session models.ChatSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return models.ChatSession{}, fmt.Errorf("failed to unmarshal session %s: %w", id, err)
	}
	return session, nil
}

func (s *RedisStorage) setSession(ctx context.Context, session models.ChatSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.rdb.Set(ctx, sessionKey(session.ID), raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

func (s *RedisStorage) ownerIndex(ctx context.Context, ownerID string) ([]string, error) {
	raw, err := s.rdb.Get(ctx, ownerKey(ownerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to get owner index %s: %w", ownerID, err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal owner index %s: %w", ownerID, err)
	}
	return ids, nil
}

func (s *RedisStorage) setOwnerIndex(ctx context.Context, ownerID string, ids []string) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal owner index: %w", err)
	}
	if err := s.rdb.Set(ctx, ownerKey(ownerID), raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save owner index %s: %w", ownerID, err)
	}
	return nil
}
