package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"triviaworlds/internal/app"
	"triviaworlds/internal/domain"
)

// BankRepository caches banks with TTL to avoid re-reading the source for every player.
type BankRepository struct {
	loader app.BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedBank
}

type cachedBank struct {
	bank      domain.QuestionBank
	expiresAt time.Time
}

func NewBankRepository(loader app.BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedBank),
	}
}

// GetBank returns the cached bank for source, loading it at most once per expiry
// even under concurrent callers. A non-positive ttl caches forever.
func (r *BankRepository) GetBank(ctx context.Context, source string) (domain.QuestionBank, error) {
	if bank, ok := r.lookup(source); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(source, func() (interface{}, error) {
		if bank, ok := r.lookup(source); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx, source)
		if err != nil {
			return domain.QuestionBank{}, err
		}

		r.mu.Lock()
		r.cache[source] = cachedBank{
			bank:      bank,
			expiresAt: r.expiry(),
		}
		r.mu.Unlock()
		return bank, nil
	})
	if err != nil {
		return domain.QuestionBank{}, err
	}
	return result.(domain.QuestionBank), nil
}

func (r *BankRepository) lookup(source string) (domain.QuestionBank, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[source]
	if !ok {
		return domain.QuestionBank{}, false
	}
	if !entry.expiresAt.IsZero() && !entry.expiresAt.After(r.clock()) {
		return domain.QuestionBank{}, false
	}
	return entry.bank, true
}

func (r *BankRepository) expiry() time.Time {
	if r.ttl <= 0 {
		return time.Time{}
	}
	return r.clock().Add(r.ttlWithJitter())
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticBankLoader serves banks from an in-memory map (useful for tests/demos).
type StaticBankLoader struct {
	banks map[string]domain.QuestionBank
}

func NewStaticBankLoader(banks map[string]domain.QuestionBank) *StaticBankLoader {
	return &StaticBankLoader{banks: banks}
}

func (l *StaticBankLoader) LoadBank(_ context.Context, source string) (domain.QuestionBank, error) {
	bank, ok := l.banks[source]
	if !ok {
		return domain.QuestionBank{}, domain.ErrBankNotFound
	}
	if err := bank.Validate(); err != nil {
		return domain.QuestionBank{}, err
	}
	return bank, nil
}
