package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"trivia-service/internal/domain"
)

// ScoreStore is an in-memory implementation of app.ScoreStore, used when
// no Postgres URL is configured (and in tests).
type ScoreStore struct {
	clock func() time.Time
	newID func() string

	mu      sync.RWMutex
	records []domain.ScoreRecord
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{
		clock: time.Now,
		newID: uuid.NewString,
	}
}

// NewScoreStoreWithClock allows deterministic timestamps and IDs in tests.
func NewScoreStoreWithClock(clock func() time.Time, newID func() string) *ScoreStore {
	return &ScoreStore{clock: clock, newID: newID}
}

func (s *ScoreStore) Insert(_ context.Context, name string, score int) (domain.ScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := domain.ScoreRecord{
		ID:        s.newID(),
		Name:      name,
		Score:     score,
		CreatedAt: s.clock(),
	}
	s.records = append(s.records, record)
	return record, nil
}

// List returns records at or after the cutoff (all when cutoff is zero),
// score descending. The sort is stable, so an unchanged record set ranks
// identically on every fetch.
func (s *ScoreStore) List(_ context.Context, cutoff time.Time) ([]domain.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ScoreRecord, 0, len(s.records))
	for _, record := range s.records {
		if cutoff.IsZero() || !record.CreatedAt.Before(cutoff) {
			out = append(out, record)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}
