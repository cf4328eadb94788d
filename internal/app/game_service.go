package app

import (
	"context"
	"errors"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"triviaworlds/internal/domain"
	"triviaworlds/internal/id"
	"triviaworlds/internal/metrics"
)

// SessionRepository abstracts where open player sessions live (in-memory, Redis, etc).
// A session stays stored while at least one holder has acquired it.
type SessionRepository interface {
	// Acquire returns the player's session, storing the result of create when
	// there is none, and counts one more holder. created reports whether create ran.
	Acquire(playerID string, create func() (*Session, error)) (session *Session, created bool, err error)
	Get(playerID string) (*Session, bool)
	// Touch refreshes whatever the store keeps about session after its outcomes changed.
	Touch(session *Session)
	// Release drops one holder and removes the session once none remain.
	Release(playerID string) (removed *Session, ok bool)
}

// BankRepository returns question banks, usually from a cache in front of a BankLoader.
type BankRepository interface {
	GetBank(ctx context.Context, source string) (domain.QuestionBank, error)
}

// BankLoader reads a question bank from its backing source.
type BankLoader interface {
	LoadBank(ctx context.Context, source string) (domain.QuestionBank, error)
}

// GameConfig selects the bank and sizes the games a GameService opens.
type GameConfig struct {
	BankSource string
	Settings   Settings
	// Seed makes question sampling reproducible per player id when non-zero.
	Seed int64
}

// GameService serves independent quiz sessions for many players.
type GameService struct {
	sessions SessionRepository
	banks    BankRepository
	cfg      GameConfig
	log      *zap.Logger
	metrics  *metrics.Metrics
}

func NewGameService(store SessionRepository, banks BankRepository, cfg GameConfig, log *zap.Logger, m *metrics.Metrics) *GameService {
	if log == nil {
		log = zap.NewNop()
	}
	cfg.Settings = cfg.Settings.withDefaults()
	return &GameService{sessions: store, banks: banks, cfg: cfg, log: log, metrics: m}
}

// Join opens a session for playerID, or attaches to the existing one. An empty
// playerID gets a generated id. Every successful Join must be paired with a Leave.
func (s *GameService) Join(ctx context.Context, playerID string) (string, []domain.LevelOutcome, error) {
	if playerID == "" {
		playerID = id.New()
	}

	bank, err := s.banks.GetBank(ctx, s.cfg.BankSource)
	if err != nil {
		s.log.Error("load question bank", zap.String("source", s.cfg.BankSource), zap.Error(err))
		return "", nil, err
	}

	session, created, err := s.sessions.Acquire(playerID, func() (*Session, error) {
		quiz, err := NewQuizSession(bank, s.cfg.Settings, s.newRand(playerID))
		if err != nil {
			return nil, err
		}
		return NewSession(playerID, quiz), nil
	})
	if err != nil {
		return "", nil, err
	}
	if !created {
		return playerID, session.Outcomes(), nil
	}

	s.sessions.Touch(session)
	s.metrics.SessionOpened()
	s.log.Info("player joined", zap.String("player", playerID), zap.Int("bank_size", bank.Len()))
	return playerID, session.Outcomes(), nil
}

// StartLevel begins a level attempt and returns its first question.
func (s *GameService) StartLevel(_ context.Context, playerID string, level int) (domain.Question, error) {
	session, ok := s.sessions.Get(playerID)
	if !ok {
		return domain.Question{}, domain.ErrSessionNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if err := session.quiz.StartLevel(level); err != nil {
		return domain.Question{}, err
	}
	s.log.Debug("level started", zap.String("player", playerID), zap.Int("level", level))
	return session.quiz.CurrentQuestion()
}

// SubmitAnswer scores label and returns the next question. levelDone is true
// once the level has no questions left and must be finished.
func (s *GameService) SubmitAnswer(_ context.Context, playerID, label string) (result domain.AnswerResult, next domain.Question, levelDone bool, err error) {
	session, ok := s.sessions.Get(playerID)
	if !ok {
		return result, next, false, domain.ErrSessionNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	result, err = session.quiz.SubmitAnswer(label)
	if err != nil {
		return result, next, false, err
	}
	s.metrics.ObserveAnswer(result.WasCorrect)

	next, err = session.quiz.CurrentQuestion()
	if errors.Is(err, domain.ErrLevelComplete) {
		return result, domain.Question{}, true, nil
	}
	return result, next, false, err
}

// FinishLevel records the outcome of an exhausted level.
func (s *GameService) FinishLevel(_ context.Context, playerID string) (domain.LevelReport, error) {
	session, ok := s.sessions.Get(playerID)
	if !ok {
		return domain.LevelReport{}, domain.ErrSessionNotFound
	}

	session.mu.Lock()
	outcome, err := session.quiz.FinishLevel()
	if err != nil {
		session.mu.Unlock()
		return domain.LevelReport{}, err
	}
	report := domain.LevelReport{
		Level:        session.quiz.CurrentLevel(),
		Outcome:      outcome,
		CorrectCount: session.quiz.CorrectCount(),
		Total:        session.quiz.Settings().QuestionsPerLevel,
		GameComplete: session.quiz.IsGameComplete(),
	}
	session.mu.Unlock()

	s.sessions.Touch(session)
	s.metrics.ObserveLevel(outcome, report.GameComplete)
	s.log.Info("level finished",
		zap.String("player", playerID),
		zap.Int("level", report.Level),
		zap.Stringer("outcome", outcome),
		zap.Int("correct", report.CorrectCount),
		zap.Bool("game_complete", report.GameComplete),
	)
	return report, nil
}

// Levels returns the player's outcome per level.
func (s *GameService) Levels(_ context.Context, playerID string) ([]domain.LevelOutcome, error) {
	session, ok := s.sessions.Get(playerID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Outcomes(), nil
}

// Leave detaches one Join from the player's session and drops the session
// when nothing else holds it.
func (s *GameService) Leave(_ context.Context, playerID string) {
	session, removed := s.sessions.Release(playerID)
	if !removed {
		return
	}
	s.metrics.SessionClosed()
	s.log.Info("player left",
		zap.String("player", playerID),
		zap.String("levels", session.Summary()),
		zap.Duration("age", time.Since(session.CreatedAt())),
	)
}

// newRand seeds sampling for one player. A configured seed is mixed with the
// player id so that players get different but reproducible questions.
func (s *GameService) newRand(playerID string) *rand.Rand {
	if s.cfg.Seed == 0 {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	h := fnv.New64a()
	h.Write([]byte(playerID))
	return rand.New(rand.NewSource(s.cfg.Seed ^ int64(h.Sum64())))
}

// Session is a stored player game guarded by its own lock.
type Session struct {
	id        string
	createdAt time.Time
	mu        sync.Mutex
	quiz      *QuizSession
}

// NewSession wraps quiz for storage under playerID.
func NewSession(playerID string, quiz *QuizSession) *Session {
	return &Session{id: playerID, createdAt: time.Now(), quiz: quiz}
}

func (s *Session) ID() string { return s.id }

func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Outcomes returns a copy of the level outcomes.
func (s *Session) Outcomes() []domain.LevelOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quiz.LevelOutcomes()
}

// Summary renders the outcomes as e.g. "PPF-------".
func (s *Session) Summary() string {
	return domain.OutcomeSummary(s.Outcomes())
}
