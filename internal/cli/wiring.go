package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"triviaworlds/internal/app"
	"triviaworlds/internal/config"
	"triviaworlds/internal/infra/file"
	pgloader "triviaworlds/internal/infra/postgres"
	"triviaworlds/internal/infra/sqlite"
)

// newBankLoader picks the loader for cfg.Bank.Driver. The returned close func is never nil.
func newBankLoader(ctx context.Context, cfg config.Config) (app.BankLoader, func(), error) {
	noop := func() {}
	switch cfg.Bank.Driver {
	case "", "file":
		return file.NewBankLoader(), noop, nil
	case "postgres":
		if cfg.Postgres.URL == "" {
			return nil, noop, fmt.Errorf("bank driver postgres: postgres url not configured")
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, noop, err
		}
		return pgloader.NewBankLoader(pool), pool.Close, nil
	case "sqlite":
		if cfg.Bank.SQLite == "" {
			return nil, noop, fmt.Errorf("bank driver sqlite: sqlite path not configured")
		}
		loader, err := sqlite.Open(cfg.Bank.SQLite)
		if err != nil {
			return nil, noop, err
		}
		return loader, func() { _ = loader.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown bank driver %q", cfg.Bank.Driver)
	}
}

func newRedisClient(cfg config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func gameSettings(cfg config.Config) app.Settings {
	return app.Settings{
		TotalLevels:       cfg.Game.TotalLevels,
		QuestionsPerLevel: cfg.Game.QuestionsPerLevel,
	}
}

func bankTTL(cfg config.Config) time.Duration {
	return config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
}

func syncLogger(log *zap.Logger) {
	_ = log.Sync()
}
