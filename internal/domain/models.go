package domain

import "time"

// Difficulty selects the question-bank difficulty bucket.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty maps a raw string onto a known difficulty.
// The empty string falls back to medium.
func ParseDifficulty(raw string) (Difficulty, error) {
	switch Difficulty(raw) {
	case "":
		return DifficultyMedium, nil
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(raw), nil
	}
	return "", ErrInvalidDifficulty
}

// Question is one multiple-choice question. Text is already
// HTML-entity decoded; answers compare string-exact.
type Question struct {
	Text             string   `json:"text"`
	CorrectAnswer    string   `json:"correctAnswer"`
	IncorrectAnswers []string `json:"incorrectAnswers"`
}

// QuizSession holds one run through a fixed batch of questions.
// Index advances by exactly one per submitted answer; the session is
// complete once Index reaches the question count, after which only the
// final score survives.
type QuizSession struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
	Index     int        `json:"index"`
	Score     int        `json:"score"`
	Options   []string   `json:"options"`
	Complete  bool       `json:"complete"`
	CreatedAt time.Time  `json:"createdAt"`
}

// AnswerOutcome summarizes one answer submission.
type AnswerOutcome struct {
	Correct  bool `json:"correct"`
	Awarded  int  `json:"awarded"`
	Score    int  `json:"score"`
	Complete bool `json:"complete"`
}

// SessionResult is the hand-off payload from a finished session.
type SessionResult struct {
	SessionID string `json:"sessionId"`
	Score     int    `json:"score"`
}

// ScoreRecord is a saved leaderboard row. ID and CreatedAt are
// assigned by the store on insert.
type ScoreRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// LeaderboardEntry is a ScoreRecord enriched with its display rank.
type LeaderboardEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
	Rank      int       `json:"rank"`
	IsViewer  bool      `json:"isViewer"`
}

// Leaderboard is the derived display state for one fetch.
// ViewerRank is 0 when the viewer has no row on the board.
type Leaderboard struct {
	Filter     TimeFilter         `json:"filter"`
	Entries    []LeaderboardEntry `json:"entries"`
	ViewerRank int                `json:"viewerRank"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// TimeFilter restricts leaderboard records by creation time.
type TimeFilter string

const (
	FilterAllTime TimeFilter = "all-time"
	FilterWeekly  TimeFilter = "weekly"
	FilterDaily   TimeFilter = "daily"
)

// ParseTimeFilter maps a raw string onto a known filter.
// The empty string falls back to all-time.
func ParseTimeFilter(raw string) (TimeFilter, error) {
	switch TimeFilter(raw) {
	case "":
		return FilterAllTime, nil
	case FilterAllTime, FilterWeekly, FilterDaily:
		return TimeFilter(raw), nil
	}
	return "", ErrInvalidTimeFilter
}

// Cutoff returns the inclusive lower bound on created_at for this
// filter, or the zero time for all-time. Daily means local midnight of
// the given instant, weekly the trailing 7 days.
func (f TimeFilter) Cutoff(now time.Time) time.Time {
	switch f {
	case FilterWeekly:
		return now.Add(-7 * 24 * time.Hour)
	case FilterDaily:
		year, month, day := now.Date()
		return time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	}
	return time.Time{}
}
