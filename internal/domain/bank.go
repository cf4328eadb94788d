package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// QuestionRecord is one entry of the exchange format used by bank files and stores:
//
//	{"question": "...", "A": "...", "B": "...", "C": "...", "D": "...", "answer": "B"}
type QuestionRecord struct {
	ID       string `json:"id,omitempty"`
	Question string `json:"question"`
	A        string `json:"A"`
	B        string `json:"B"`
	C        string `json:"C"`
	D        string `json:"D"`
	Answer   string `json:"answer"`
}

// DecodeBank parses a JSON array of records and validates the result.
func DecodeBank(source string, data []byte) (QuestionBank, error) {
	var records []QuestionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return QuestionBank{}, fmt.Errorf("%w: decode %s: %v", ErrBankInvalid, source, err)
	}
	return BuildBank(source, records)
}

// BuildBank converts records into a validated bank. Records without an id get
// "q{n}" from their 1-based position.
func BuildBank(source string, records []QuestionRecord) (QuestionBank, error) {
	bank := QuestionBank{
		Source:    source,
		Questions: make([]Question, 0, len(records)),
	}
	for i, rec := range records {
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			id = fmt.Sprintf("q%d", i+1)
		}
		bank.Questions = append(bank.Questions, Question{
			ID:     id,
			Prompt: strings.TrimSpace(rec.Question),
			Options: map[string]string{
				"A": rec.A,
				"B": rec.B,
				"C": rec.C,
				"D": rec.D,
			},
			CorrectLabel: NormalizeLabel(rec.Answer),
		})
	}
	if err := bank.Validate(); err != nil {
		return QuestionBank{}, err
	}
	return bank, nil
}

// Records converts a bank back into the exchange format.
func (b QuestionBank) Records() []QuestionRecord {
	records := make([]QuestionRecord, 0, len(b.Questions))
	for _, q := range b.Questions {
		records = append(records, QuestionRecord{
			ID:       q.ID,
			Question: q.Prompt,
			A:        q.Options["A"],
			B:        q.Options["B"],
			C:        q.Options["C"],
			D:        q.Options["D"],
			Answer:   q.CorrectLabel,
		})
	}
	return records
}

// NormalizeLabel trims and upper-cases a label typed by a player or stored in a bank.
func NormalizeLabel(label string) string {
	return strings.ToUpper(strings.TrimSpace(label))
}
