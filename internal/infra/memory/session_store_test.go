package memory

import (
	"context"
	"errors"
	"testing"

	"trivia-service/internal/domain"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	session := domain.QuizSession{
		ID:    "s1",
		Score: 10,
		Index: 1,
		Questions: []domain.Question{
			{Text: "q", CorrectAnswer: "a", IncorrectAnswers: []string{"b", "c"}},
		},
		Options: []string{"a", "b", "c"},
	}
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Score != 10 || got.Index != 1 || len(got.Questions) != 1 {
		t.Fatalf("unexpected session %+v", got)
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestSessionStoreMissing(t *testing.T) {
	store := NewSessionStore()
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
