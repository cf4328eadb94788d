package domain

import (
	"fmt"
	"strings"
)

// OptionLabels lists the answer labels every question carries, in display order.
var OptionLabels = []string{"A", "B", "C", "D"}

// Question models an MCQ question with exactly four labelled options.
type Question struct {
	ID           string            `json:"id"`
	Prompt       string            `json:"prompt"`
	Options      map[string]string `json:"options"`
	CorrectLabel string            `json:"-"`
}

// OptionText returns the text behind a label.
func (q Question) OptionText(label string) (string, bool) {
	text, ok := q.Options[label]
	return text, ok
}

// Validate checks the question invariants: a prompt, the four labels with text,
// and a correct label that is one of them.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("question %q: empty prompt", q.ID)
	}
	if len(q.Options) != len(OptionLabels) {
		return fmt.Errorf("question %q: expected %d options, got %d", q.ID, len(OptionLabels), len(q.Options))
	}
	for _, label := range OptionLabels {
		text, ok := q.Options[label]
		if !ok || strings.TrimSpace(text) == "" {
			return fmt.Errorf("question %q: missing option %s", q.ID, label)
		}
	}
	if _, ok := q.Options[q.CorrectLabel]; !ok {
		return fmt.Errorf("question %q: answer %q is not an option label", q.ID, q.CorrectLabel)
	}
	return nil
}

// QuestionBank is the read-only set of questions a game draws from.
type QuestionBank struct {
	Source    string
	Questions []Question
}

// Len returns the number of questions in the bank.
func (b QuestionBank) Len() int {
	return len(b.Questions)
}

// Validate checks that the bank is non-empty, every question is well formed
// and question ids are unique.
func (b QuestionBank) Validate() error {
	if len(b.Questions) == 0 {
		return fmt.Errorf("%w: bank %q has no questions", ErrBankInvalid, b.Source)
	}
	seen := make(map[string]struct{}, len(b.Questions))
	for _, q := range b.Questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrBankInvalid, err)
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %q", ErrBankInvalid, q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	return nil
}

// LevelOutcome is the recorded result of the latest attempt at a level.
type LevelOutcome int

const (
	NotAttempted LevelOutcome = iota
	Passed
	Failed
)

func (o LevelOutcome) String() string {
	switch o {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	default:
		return "not_attempted"
	}
}

// Symbol is the one-character form used in outcome summaries.
func (o LevelOutcome) Symbol() byte {
	switch o {
	case Passed:
		return 'P'
	case Failed:
		return 'F'
	default:
		return '-'
	}
}

func (o LevelOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *LevelOutcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "passed":
		*o = Passed
	case "failed":
		*o = Failed
	case "not_attempted", "":
		*o = NotAttempted
	default:
		return fmt.Errorf("unknown level outcome %q", string(text))
	}
	return nil
}

// OutcomeSummary renders outcomes as one symbol per level, e.g. "PPF-------".
func OutcomeSummary(outcomes []LevelOutcome) string {
	b := make([]byte, len(outcomes))
	for i, o := range outcomes {
		b[i] = o.Symbol()
	}
	return string(b)
}

// AnswerResult is the feedback for one submitted answer.
type AnswerResult struct {
	WasCorrect   bool   `json:"wasCorrect"`
	CorrectLabel string `json:"correctLabel"`
	CorrectText  string `json:"correctText"`
}

// LevelReport summarizes a finished level attempt.
type LevelReport struct {
	Level        int          `json:"level"`
	Outcome      LevelOutcome `json:"outcome"`
	CorrectCount int          `json:"correctCount"`
	Total        int          `json:"total"`
	GameComplete bool         `json:"gameComplete"`
}
