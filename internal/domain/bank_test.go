package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

const validBankJSON = `[
  {"question": "Capital of France?", "A": "Paris", "B": "Rome", "C": "Madrid", "D": "Berlin", "answer": "A"},
  {"id": "moon", "question": "Who walked on the moon first?", "A": "Gagarin", "B": "Armstrong", "C": "Aldrin", "D": "Collins", "answer": " b "}
]`

func TestDecodeBank(t *testing.T) {
	bank, err := DecodeBank("questions.json", []byte(validBankJSON))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if bank.Len() != 2 || bank.Source != "questions.json" {
		t.Fatalf("unexpected bank %+v", bank)
	}

	first := bank.Questions[0]
	if first.ID != "q1" || first.CorrectLabel != "A" || first.Options["A"] != "Paris" {
		t.Fatalf("unexpected first question %+v", first)
	}
	second := bank.Questions[1]
	if second.ID != "moon" || second.CorrectLabel != "B" {
		t.Fatalf("expected id moon with normalized answer B, got %+v", second)
	}
	if text, ok := second.OptionText("B"); !ok || text != "Armstrong" {
		t.Fatalf("expected Armstrong, got %q", text)
	}
}

func TestDecodeBankRejectsMalformedContent(t *testing.T) {
	cases := map[string]string{
		"not json":       `{{`,
		"object":         `{"question": "x"}`,
		"empty list":     `[]`,
		"null":           `null`,
		"missing option": `[{"question": "q", "A": "a", "B": "b", "C": "c", "answer": "A"}]`,
		"blank option":   `[{"question": "q", "A": "a", "B": " ", "C": "c", "D": "d", "answer": "A"}]`,
		"bad answer":     `[{"question": "q", "A": "a", "B": "b", "C": "c", "D": "d", "answer": "E"}]`,
		"no answer":      `[{"question": "q", "A": "a", "B": "b", "C": "c", "D": "d"}]`,
		"no prompt":      `[{"A": "a", "B": "b", "C": "c", "D": "d", "answer": "A"}]`,
		"duplicate ids":  `[{"id": "x", "question": "q1", "A": "a", "B": "b", "C": "c", "D": "d", "answer": "A"}, {"id": "x", "question": "q2", "A": "a", "B": "b", "C": "c", "D": "d", "answer": "B"}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeBank("bank.json", []byte(raw))
			if !errors.Is(err, ErrBankInvalid) {
				t.Fatalf("expected ErrBankInvalid, got %v", err)
			}
		})
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	bank, err := DecodeBank("questions.json", []byte(validBankJSON))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	raw, err := json.Marshal(bank.Records())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	again, err := DecodeBank("questions.json", raw)
	if err != nil {
		t.Fatalf("decode again: %v", err)
	}
	for i := range bank.Questions {
		if bank.Questions[i].ID != again.Questions[i].ID || bank.Questions[i].CorrectLabel != again.Questions[i].CorrectLabel {
			t.Fatalf("question %d changed: %+v vs %+v", i, bank.Questions[i], again.Questions[i])
		}
	}
}

func TestOutcomeSummaryAndText(t *testing.T) {
	outcomes := []LevelOutcome{Passed, Passed, Failed, NotAttempted}
	if got := OutcomeSummary(outcomes); got != "PPF-" {
		t.Fatalf("expected PPF-, got %q", got)
	}

	raw, err := json.Marshal(outcomes)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `["passed","passed","failed","not_attempted"]` {
		t.Fatalf("unexpected json %s", raw)
	}

	var back []LevelOutcome
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if OutcomeSummary(back) != "PPF-" {
		t.Fatalf("unexpected outcomes %v", back)
	}
}
