package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"triviaworlds/internal/domain"
)

// BankLoader reads banks from JSON files; the source is the file path.
type BankLoader struct{}

func NewBankLoader() *BankLoader {
	return &BankLoader{}
}

func (l *BankLoader) LoadBank(_ context.Context, path string) (domain.QuestionBank, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.QuestionBank{}, fmt.Errorf("%w: %s", domain.ErrBankNotFound, path)
	}
	if err != nil {
		return domain.QuestionBank{}, fmt.Errorf("%w: read %s: %v", domain.ErrBankInvalid, path, err)
	}
	return domain.DecodeBank(path, data)
}
