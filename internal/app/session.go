package app

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"trivia-service/internal/domain"
)

// QuestionSource fetches a batch of questions from the question bank.
type QuestionSource interface {
	FetchQuestions(ctx context.Context, count int, difficulty domain.Difficulty) ([]domain.Question, error)
}

// SessionStore abstracts how quiz sessions are persisted (in-memory, Redis, etc).
type SessionStore interface {
	Save(ctx context.Context, session domain.QuizSession) error
	Get(ctx context.Context, id string) (domain.QuizSession, error)
	Delete(ctx context.Context, id string) error
}

// SessionConfig carries the tunables for new sessions.
type SessionConfig struct {
	// Award is added to the score per correct answer. Defaults to 10.
	Award int
	// DefaultCount is used when Start is called with count <= 0. Defaults to 5.
	DefaultCount int
	// DefaultDifficulty is used when Start is called with an empty difficulty.
	DefaultDifficulty domain.Difficulty
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.Award <= 0 {
		c.Award = 10
	}
	if c.DefaultCount <= 0 {
		c.DefaultCount = 5
	}
	if c.DefaultDifficulty == "" {
		c.DefaultDifficulty = domain.DifficultyMedium
	}
	return c
}

// SessionService runs quiz sessions: fetch a batch, present one question
// at a time with a freshly shuffled option set, accumulate the score,
// and hand off the final result.
type SessionService struct {
	source QuestionSource
	store  SessionStore
	cfg    SessionConfig
	now    func() time.Time
	newID  func() string

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSessionService(source QuestionSource, store SessionStore, cfg SessionConfig) *SessionService {
	return &SessionService{
		source: source,
		store:  store,
		cfg:    cfg.withDefaults(),
		now:    time.Now,
		newID:  uuid.NewString,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewSessionServiceWithRand is test-only for deterministic shuffles and IDs.
func NewSessionServiceWithRand(source QuestionSource, store SessionStore, cfg SessionConfig, rnd *rand.Rand, newID func() string) *SessionService {
	s := NewSessionService(source, store, cfg)
	s.rnd = rnd
	if newID != nil {
		s.newID = newID
	}
	return s
}

// Start fetches questions and creates an in-progress session. A source
// failure surfaces directly instead of leaving the caller stuck loading;
// a fetch yielding zero usable questions fails with ErrEmptyQuestionSet.
func (s *SessionService) Start(ctx context.Context, count int, difficulty domain.Difficulty) (domain.QuizSession, error) {
	if count <= 0 {
		count = s.cfg.DefaultCount
	}
	if difficulty == "" {
		difficulty = s.cfg.DefaultDifficulty
	}

	questions, err := s.source.FetchQuestions(ctx, count, difficulty)
	if err != nil {
		return domain.QuizSession{}, err
	}
	if len(questions) == 0 {
		return domain.QuizSession{}, domain.ErrEmptyQuestionSet
	}
	if len(questions) > count {
		questions = questions[:count]
	}

	session := domain.QuizSession{
		ID:        s.newID(),
		Questions: questions,
		Options:   s.shuffleOptions(questions[0]),
		CreatedAt: s.now(),
	}
	if err := s.store.Save(ctx, session); err != nil {
		return domain.QuizSession{}, err
	}
	return session, nil
}

// Get returns the current session state.
func (s *SessionService) Get(ctx context.Context, id string) (domain.QuizSession, error) {
	return s.store.Get(ctx, id)
}

// SubmitAnswer scores the selected option against the current question,
// then either advances to the next question with a fresh option set or
// completes the session. Submissions against a complete session fail.
func (s *SessionService) SubmitAnswer(ctx context.Context, id, selected string) (domain.AnswerOutcome, domain.QuizSession, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.AnswerOutcome{}, domain.QuizSession{}, err
	}
	if session.Complete {
		return domain.AnswerOutcome{}, domain.QuizSession{}, domain.ErrSessionComplete
	}
	if len(session.Questions) == 0 || session.Index >= len(session.Questions) {
		return domain.AnswerOutcome{}, domain.QuizSession{}, domain.ErrEmptyQuestionSet
	}

	var outcome domain.AnswerOutcome
	if selected == session.Questions[session.Index].CorrectAnswer {
		outcome.Correct = true
		outcome.Awarded = s.cfg.Award
		session.Score += s.cfg.Award
	}

	session.Index++
	if session.Index < len(session.Questions) {
		session.Options = s.shuffleOptions(session.Questions[session.Index])
	} else {
		// Only the hand-off payload survives completion.
		session.Complete = true
		session.Questions = nil
		session.Options = nil
	}
	outcome.Score = session.Score
	outcome.Complete = session.Complete

	if err := s.store.Save(ctx, session); err != nil {
		return domain.AnswerOutcome{}, domain.QuizSession{}, err
	}
	return outcome, session, nil
}

// Delete discards a session's state.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Result returns the final score of a session. An unknown or expired
// session reads as score zero, matching the hand-off fallback.
func (s *SessionService) Result(ctx context.Context, id string) domain.SessionResult {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.SessionResult{SessionID: id}
	}
	return domain.SessionResult{SessionID: id, Score: session.Score}
}

// shuffleOptions builds the option set for one question: the correct
// answer plus every incorrect one, uniformly permuted.
func (s *SessionService) shuffleOptions(q domain.Question) []string {
	options := make([]string, 0, len(q.IncorrectAnswers)+1)
	options = append(options, q.IncorrectAnswers...)
	options = append(options, q.CorrectAnswer)

	s.mu.Lock()
	s.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	s.mu.Unlock()
	return options
}
