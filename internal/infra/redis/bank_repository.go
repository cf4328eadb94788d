package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"triviaworlds/internal/app"
	"triviaworlds/internal/domain"
)

const keyPrefix = "triviaworlds"

// BankRepository caches banks in Redis and falls back to a loader on cache miss.
// A bank is stored as its JSON record array:
//
//	SET triviaworlds:bank:{source} [{"id":"q1","question":...}, ...] EX ttl
type BankRepository struct {
	client *redis.Client
	loader app.BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewBankRepository(client *redis.Client, loader app.BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, source string) (domain.QuestionBank, error) {
	if bank, ok := r.cached(ctx, source); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(source, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank, ok := r.cached(ctx, source); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx, source)
		if err != nil {
			return domain.QuestionBank{}, err
		}

		payload, err := json.Marshal(bank.Records())
		if err != nil {
			return domain.QuestionBank{}, err
		}
		// A failed write only costs a reload next time.
		_ = r.client.Set(ctx, r.bankKey(source), payload, r.ttlWithJitter()).Err()
		return bank, nil
	})
	if err != nil {
		return domain.QuestionBank{}, err
	}
	return result.(domain.QuestionBank), nil
}

// cached treats unreadable or invalid entries as misses.
func (r *BankRepository) cached(ctx context.Context, source string) (domain.QuestionBank, bool) {
	raw, err := r.client.Get(ctx, r.bankKey(source)).Bytes()
	if err != nil || len(raw) == 0 {
		return domain.QuestionBank{}, false
	}
	bank, err := domain.DecodeBank(source, raw)
	if err != nil {
		return domain.QuestionBank{}, false
	}
	return bank, true
}

func (r *BankRepository) bankKey(source string) string {
	return keyPrefix + ":bank:" + source
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
