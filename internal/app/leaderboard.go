package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"trivia-service/internal/domain"
)

// ScoreStore abstracts the leaderboard table (Postgres, in-memory, etc).
type ScoreStore interface {
	// Insert persists one score record and returns the created row
	// with its store-assigned ID and timestamp.
	Insert(ctx context.Context, name string, score int) (domain.ScoreRecord, error)
	// List returns records with created_at >= cutoff (all records when
	// cutoff is the zero time), ordered by score descending.
	List(ctx context.Context, cutoff time.Time) ([]domain.ScoreRecord, error)
}

// LeaderboardService derives the ranked display state from store data
// and local filters, and owns the save-score use case.
type LeaderboardService struct {
	store ScoreStore
	now   func() time.Time
	sf    singleflight.Group
}

func NewLeaderboardService(store ScoreStore) *LeaderboardService {
	return &LeaderboardService{store: store, now: time.Now}
}

// NewLeaderboardServiceWithClock is test-only for deterministic cutoffs.
func NewLeaderboardServiceWithClock(store ScoreStore, now func() time.Time) *LeaderboardService {
	return &LeaderboardService{store: store, now: now}
}

// SaveScore validates and persists a score. Store failures return to the
// caller so the user can be told and retry; nothing is swallowed.
func (s *LeaderboardService) SaveScore(ctx context.Context, name string, score int) (domain.ScoreRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ScoreRecord{}, domain.ErrEmptyName
	}
	if score < 0 {
		score = 0
	}
	return s.store.Insert(ctx, name, score)
}

// View fetches the leaderboard for a time filter and derives display
// entries. Viewer identity is resolved before ranking: viewerID arrives
// with the request, so IsViewer and ranks are assigned in one pass over
// the store order. The name search is applied after ranking and never
// renumbers the surviving entries.
func (s *LeaderboardService) View(ctx context.Context, filter domain.TimeFilter, search, viewerID string) (domain.Leaderboard, error) {
	now := s.now()
	cutoff := filter.Cutoff(now)

	records, err := s.fetch(ctx, filter, cutoff)
	if err != nil {
		return domain.Leaderboard{}, err
	}

	viewerRank := 0
	entries := make([]domain.LeaderboardEntry, 0, len(records))
	for i, rec := range records {
		entry := domain.LeaderboardEntry{
			ID:        rec.ID,
			Name:      rec.Name,
			Score:     rec.Score,
			CreatedAt: rec.CreatedAt,
			Rank:      i + 1,
			IsViewer:  viewerID != "" && rec.ID == viewerID,
		}
		if entry.IsViewer && viewerRank == 0 {
			viewerRank = entry.Rank
		}
		entries = append(entries, entry)
	}

	if search != "" {
		needle := strings.ToLower(search)
		filtered := make([]domain.LeaderboardEntry, 0, len(entries))
		for _, entry := range entries {
			if strings.Contains(strings.ToLower(entry.Name), needle) {
				filtered = append(filtered, entry)
			}
		}
		entries = filtered
	}

	return domain.Leaderboard{
		Filter:     filter,
		Entries:    entries,
		ViewerRank: viewerRank,
		UpdatedAt:  now,
	}, nil
}

// fetch collapses concurrent identical reads per filter.
func (s *LeaderboardService) fetch(ctx context.Context, filter domain.TimeFilter, cutoff time.Time) ([]domain.ScoreRecord, error) {
	v, err, _ := s.sf.Do(string(filter), func() (interface{}, error) {
		return s.store.List(ctx, cutoff)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.ScoreRecord), nil
}

// ShareMessage formats the human-readable share line for a viewer's
// rank. Without a rank it falls back to a generic invitation.
func (s *LeaderboardService) ShareMessage(lb domain.Leaderboard) string {
	if lb.ViewerRank == 0 {
		return "I just played Trivia Champions - come beat my score!"
	}
	return fmt.Sprintf("I'm ranked #%d on the Trivia Champions leaderboard!", lb.ViewerRank)
}
