package app

import (
	"fmt"
	"math/rand"
	"time"

	"triviaworlds/internal/domain"
)

const (
	DefaultTotalLevels       = 10
	DefaultQuestionsPerLevel = 5
)

// Settings sizes a game.
type Settings struct {
	TotalLevels       int
	QuestionsPerLevel int
}

// DefaultSettings returns ten levels of five questions.
func DefaultSettings() Settings {
	return Settings{TotalLevels: DefaultTotalLevels, QuestionsPerLevel: DefaultQuestionsPerLevel}
}

func (s Settings) withDefaults() Settings {
	if s.TotalLevels <= 0 {
		s.TotalLevels = DefaultTotalLevels
	}
	if s.QuestionsPerLevel <= 0 {
		s.QuestionsPerLevel = DefaultQuestionsPerLevel
	}
	return s
}

// LevelState is the lifecycle of the current level attempt.
type LevelState int

const (
	LevelNotStarted LevelState = iota
	LevelInProgress
	LevelExhausted
	LevelFinalized
)

func (s LevelState) String() string {
	switch s {
	case LevelInProgress:
		return "in_progress"
	case LevelExhausted:
		return "exhausted"
	case LevelFinalized:
		return "finalized"
	default:
		return "not_started"
	}
}

// QuizSession tracks one player's progress through the levels of a game.
// It is not safe for concurrent use.
type QuizSession struct {
	bank     domain.QuestionBank
	settings Settings
	rnd      *rand.Rand

	state     LevelState
	level     int
	questions []domain.Question
	index     int
	correct   int
	outcomes  []domain.LevelOutcome
}

// NewQuizSession validates the bank and prepares an empty outcome history.
// A nil rnd gets a time-seeded source.
func NewQuizSession(bank domain.QuestionBank, settings Settings, rnd *rand.Rand) (*QuizSession, error) {
	if err := bank.Validate(); err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	settings = settings.withDefaults()
	return &QuizSession{
		bank:     bank,
		settings: settings,
		rnd:      rnd,
		outcomes: make([]domain.LevelOutcome, settings.TotalLevels),
	}, nil
}

// StartLevel begins a fresh attempt at level (1-based), discarding any attempt in progress.
func (s *QuizSession) StartLevel(level int) error {
	if level < 1 || level > s.settings.TotalLevels {
		return fmt.Errorf("%w: %d not in 1..%d", domain.ErrLevelOutOfRange, level, s.settings.TotalLevels)
	}
	if s.bank.Len() < s.settings.QuestionsPerLevel {
		return fmt.Errorf("%w: need %d, bank has %d", domain.ErrInsufficientQuestions, s.settings.QuestionsPerLevel, s.bank.Len())
	}

	s.level = level
	s.index = 0
	s.correct = 0
	s.questions = s.sample(s.settings.QuestionsPerLevel)
	s.state = LevelInProgress
	return nil
}

// sample draws n distinct questions with a partial Fisher-Yates shuffle over indexes.
func (s *QuizSession) sample(n int) []domain.Question {
	idx := make([]int, s.bank.Len())
	for i := range idx {
		idx[i] = i
	}
	picked := make([]domain.Question, n)
	for i := 0; i < n; i++ {
		j := i + s.rnd.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		picked[i] = s.bank.Questions[idx[i]]
	}
	return picked
}

// CurrentQuestion returns the question awaiting an answer. Once all questions
// of the level were answered it returns domain.ErrLevelComplete.
func (s *QuizSession) CurrentQuestion() (domain.Question, error) {
	switch s.state {
	case LevelNotStarted:
		return domain.Question{}, domain.ErrLevelNotStarted
	case LevelExhausted, LevelFinalized:
		return domain.Question{}, domain.ErrLevelComplete
	}
	return s.questions[s.index], nil
}

// SubmitAnswer scores label against the current question and moves to the next one.
// Empty or unknown labels leave the session untouched.
func (s *QuizSession) SubmitAnswer(label string) (domain.AnswerResult, error) {
	switch s.state {
	case LevelNotStarted:
		return domain.AnswerResult{}, domain.ErrLevelNotStarted
	case LevelExhausted, LevelFinalized:
		return domain.AnswerResult{}, domain.ErrLevelAlreadyComplete
	}

	label = domain.NormalizeLabel(label)
	if label == "" {
		return domain.AnswerResult{}, domain.ErrNoSelection
	}
	q := s.questions[s.index]
	if _, ok := q.OptionText(label); !ok {
		return domain.AnswerResult{}, fmt.Errorf("%w: %q", domain.ErrInvalidLabel, label)
	}

	correctText, _ := q.OptionText(q.CorrectLabel)
	result := domain.AnswerResult{
		WasCorrect:   label == q.CorrectLabel,
		CorrectLabel: q.CorrectLabel,
		CorrectText:  correctText,
	}
	if result.WasCorrect {
		s.correct++
	}
	s.index++
	if s.index == s.settings.QuestionsPerLevel {
		s.state = LevelExhausted
	}
	return result, nil
}

// FinishLevel records the outcome of an exhausted attempt. A level passes only
// when every answer was correct.
func (s *QuizSession) FinishLevel() (domain.LevelOutcome, error) {
	if s.state != LevelExhausted {
		return domain.NotAttempted, fmt.Errorf("%w: %d of %d answered", domain.ErrLevelNotComplete, s.index, s.settings.QuestionsPerLevel)
	}
	outcome := domain.Failed
	if s.correct == s.settings.QuestionsPerLevel {
		outcome = domain.Passed
	}
	s.outcomes[s.level-1] = outcome
	s.state = LevelFinalized
	return outcome, nil
}

// IsGameComplete reports whether every level has been passed.
func (s *QuizSession) IsGameComplete() bool {
	for _, o := range s.outcomes {
		if o != domain.Passed {
			return false
		}
	}
	return true
}

// LevelOutcomes returns a copy of the per-level outcomes, index 0 being level 1.
func (s *QuizSession) LevelOutcomes() []domain.LevelOutcome {
	out := make([]domain.LevelOutcome, len(s.outcomes))
	copy(out, s.outcomes)
	return out
}

func (s *QuizSession) CurrentLevel() int { return s.level }
func (s *QuizSession) CorrectCount() int { return s.correct }
func (s *QuizSession) QuestionIndex() int { return s.index }
func (s *QuizSession) State() LevelState { return s.state }
func (s *QuizSession) Settings() Settings { return s.settings }
