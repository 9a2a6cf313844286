package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-service/internal/domain"
)

// ScoreStore reads and writes the leaderboard table in Postgres.
type ScoreStore struct {
	pool *pgxpool.Pool
}

func NewScoreStore(pool *pgxpool.Pool) *ScoreStore {
	return &ScoreStore{pool: pool}
}

func (s *ScoreStore) Insert(ctx context.Context, name string, score int) (domain.ScoreRecord, error) {
	var record domain.ScoreRecord
	err := s.pool.QueryRow(ctx,
		`INSERT INTO leaderboard (name, score) VALUES ($1, $2)
		 RETURNING id::text, name, score, created_at`,
		name, score,
	).Scan(&record.ID, &record.Name, &record.Score, &record.CreatedAt)
	if err != nil {
		return domain.ScoreRecord{}, fmt.Errorf("insert score: %w", err)
	}
	return record, nil
}

// List returns records created at or after the cutoff, score descending.
// A zero cutoff means all-time. Ties keep the store's default order.
func (s *ScoreStore) List(ctx context.Context, cutoff time.Time) ([]domain.ScoreRecord, error) {
	query := `SELECT id::text, name, score, created_at FROM leaderboard ORDER BY score DESC`
	args := []interface{}{}
	if !cutoff.IsZero() {
		query = `SELECT id::text, name, score, created_at FROM leaderboard
		         WHERE created_at >= $1 ORDER BY score DESC`
		args = append(args, cutoff)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var records []domain.ScoreRecord
	for rows.Next() {
		var record domain.ScoreRecord
		if err := rows.Scan(&record.ID, &record.Name, &record.Score, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return records, nil
}
