package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"triviaworlds/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS questions (
    bank     TEXT NOT NULL,
    position INTEGER NOT NULL,
    id       TEXT NOT NULL,
    question TEXT NOT NULL,
    option_a TEXT NOT NULL,
    option_b TEXT NOT NULL,
    option_c TEXT NOT NULL,
    option_d TEXT NOT NULL,
    answer   TEXT NOT NULL,
    PRIMARY KEY (bank, position),
    UNIQUE (bank, id)
);
`

// BankLoader reads banks from a SQLite questions table; the source is the bank name.
type BankLoader struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*BankLoader, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &BankLoader{db: db}, nil
}

func (l *BankLoader) Close() error {
	return l.db.Close()
}

// DB exposes the handle for seeding and tests.
func (l *BankLoader) DB() *sql.DB {
	return l.db
}

func (l *BankLoader) LoadBank(ctx context.Context, bank string) (domain.QuestionBank, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, question, option_a, option_b, option_c, option_d, answer
		FROM questions
		WHERE bank = ?
		ORDER BY position`, bank)
	if err != nil {
		return domain.QuestionBank{}, fmt.Errorf("load bank: %w", err)
	}
	defer rows.Close()

	var records []domain.QuestionRecord
	for rows.Next() {
		var rec domain.QuestionRecord
		if err := rows.Scan(&rec.ID, &rec.Question, &rec.A, &rec.B, &rec.C, &rec.D, &rec.Answer); err != nil {
			return domain.QuestionBank{}, fmt.Errorf("%w: scan %s: %v", domain.ErrBankInvalid, bank, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return domain.QuestionBank{}, fmt.Errorf("load bank: %w", err)
	}
	if len(records) == 0 {
		return domain.QuestionBank{}, fmt.Errorf("%w: %s", domain.ErrBankNotFound, bank)
	}
	return domain.BuildBank(bank, records)
}
