package domain

import "errors"

var (
	// ErrSessionNotFound is returned when no quiz session exists for the given ID.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionComplete is returned when an answer is submitted to a finished session.
	ErrSessionComplete = errors.New("quiz session already complete")
	// ErrEmptyQuestionSet indicates the question source returned no usable questions.
	ErrEmptyQuestionSet = errors.New("empty question set")
	// ErrQuestionSource indicates the question-bank call could not complete.
	ErrQuestionSource = errors.New("question source unavailable")
	// ErrEmptyName rejects a score save with a blank display name.
	ErrEmptyName = errors.New("display name must not be empty")
	// ErrInvalidDifficulty indicates an unknown difficulty value.
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	// ErrInvalidTimeFilter indicates an unknown leaderboard time filter.
	ErrInvalidTimeFilter = errors.New("invalid time filter")
)
