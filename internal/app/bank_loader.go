package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"triviaworlds/internal/domain"
	"triviaworlds/internal/metrics"
)

// InstrumentLoader wraps loader with load logging and the bank load counter.
func InstrumentLoader(loader BankLoader, log *zap.Logger, m *metrics.Metrics) BankLoader {
	if log == nil {
		log = zap.NewNop()
	}
	return &instrumentedLoader{next: loader, log: log, metrics: m}
}

type instrumentedLoader struct {
	next    BankLoader
	log     *zap.Logger
	metrics *metrics.Metrics
}

func (l *instrumentedLoader) LoadBank(ctx context.Context, source string) (domain.QuestionBank, error) {
	start := time.Now()
	bank, err := l.next.LoadBank(ctx, source)
	l.metrics.ObserveBankLoad(err)
	if err != nil {
		l.log.Warn("bank load failed", zap.String("source", source), zap.Error(err))
		return bank, err
	}
	l.log.Info("bank loaded",
		zap.String("source", source),
		zap.Int("questions", bank.Len()),
		zap.Duration("took", time.Since(start)),
	)
	return bank, nil
}
