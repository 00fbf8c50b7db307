package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/juntosfibro/fibrochat/internal/models"
)

func testTurns() []models.ChatTurn {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	return []models.ChatTurn{
		{
			Role:      models.RoleUser,
			Text:      "Me dê ideias de posts",
			Timestamp: base,
			Attachments: []models.AttachmentMeta{
				{Name: "cartilha.pdf", MimeType: "application/pdf"},
				{MimeType: "image/png"},
			},
		},
		{
			Role:      models.RoleAssistant,
			Text:      "Aqui vão cinco ideias para o Maio Roxo...",
			Timestamp: base.Add(2 * time.Second),
		},
	}
}

func TestMemoryStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	defer store.Close()

	turns := testTurns()
	id, err := store.Create(ctx, "admin-1", "Me dê ideias de posts", turns)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	loaded, err := store.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(loaded.Turns, turns) {
		t.Errorf("Load() turns = %+v, want %+v", loaded.Turns, turns)
	}
	if loaded.OwnerID != "admin-1" || loaded.Title != "Me dê ideias de posts" {
		t.Errorf("Load() owner/title = %q/%q, want admin-1/original title", loaded.OwnerID, loaded.Title)
	}
}

func TestMemoryStorage_ReplaceAppendsHistory(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	defer store.Close()

	turns := testTurns()
	id, err := store.Create(ctx, "admin-1", "t", turns[:1])
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := store.Replace(ctx, id, turns, time.Now()); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}

	loaded, err := store.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded.Turns) != 2 {
		t.Errorf("Load() returned %d turns, want 2", len(loaded.Turns))
	}
}

func TestMemoryStorage_ReplaceMissing(t *testing.T) {
	store := NewMemoryStorage()
	err := store.Replace(context.Background(), "nope", nil, time.Now())
	if !errors.Is(err, models.ErrSessionNotFound) {
		t.Errorf("Replace() error = %v, want ErrSessionNotFound", err)
	}
}

func TestMemoryStorage_ListOrderAndOwnership(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	first, _ := store.Create(ctx, "admin-1", "primeira", testTurns())
	second, _ := store.Create(ctx, "admin-1", "segunda", testTurns())
	store.Create(ctx, "admin-2", "alheia", testTurns())

	// Touching the older session moves it to the front.
	if err := store.Replace(ctx, first, testTurns(), time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}

	summaries, err := store.List(ctx, "admin-1")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("List() returned %d sessions, want 2", len(summaries))
	}
	if summaries[0].ID != first || summaries[1].ID != second {
		t.Error("List() not ordered most-recently-updated first")
	}
}

func TestMemoryStorage_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	id, _ := store.Create(ctx, "admin-1", "t", testTurns())
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	if _, err := store.Load(ctx, id); !errors.Is(err, models.ErrSessionNotFound) {
		t.Errorf("Load() after delete error = %v, want ErrSessionNotFound", err)
	}
}

func TestMemoryStorage_LoadIsolatedFromCallerMutation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	id, _ := store.Create(ctx, "admin-1", "t", testTurns())

	loaded, _ := store.Load(ctx, id)
	loaded.Turns[0].Text = "mutated"
	loaded.Turns[0].Attachments[0].Name = "mutated.pdf"

	again, _ := store.Load(ctx, id)
	if again.Turns[0].Text == "mutated" {
		t.Error("stored history leaked through a Load() result")
	}
	if again.Turns[0].Attachments[0].Name == "mutated.pdf" {
		t.Error("stored attachment metadata leaked through a Load() result")
	}
}
