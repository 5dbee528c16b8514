package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type otpItem struct {
	code      string
	expiresAt time.Time
	misses    atomic.Int32
}

// MemVerificationRepo keeps codes in process memory. Expired items are removed
// lazily on Get and in bulk by PurgeExpired.
type MemVerificationRepo struct {
	data sync.Map // Thread-safe map
	now  func() time.Time
}

func NewInMemoryVerificationRepo() *MemVerificationRepo {
	return &MemVerificationRepo{now: time.Now}
}

func (r *MemVerificationRepo) Save(_ context.Context, key string, code string, duration time.Duration) error {
	r.data.Store(key, &otpItem{
		code:      code,
		expiresAt: r.now().Add(duration),
	})
	return nil
}

func (r *MemVerificationRepo) Get(_ context.Context, key string) (string, error) {
	val, ok := r.data.Load(key)
	if !ok {
		return "", ErrCodeNotFound
	}

	item := val.(*otpItem)

	// Check Expiry (Lazy Delete)
	if r.now().After(item.expiresAt) {
		r.data.Delete(key)
		return "", ErrCodeExpired
	}

	return item.code, nil
}

func (r *MemVerificationRepo) RecordMiss(_ context.Context, key string) (int, error) {
	val, ok := r.data.Load(key)
	if !ok {
		return 0, ErrCodeNotFound
	}
	item := val.(*otpItem)
	if r.now().After(item.expiresAt) {
		r.data.Delete(key)
		return 0, ErrCodeExpired
	}
	return int(item.misses.Add(1)), nil
}

func (r *MemVerificationRepo) Delete(_ context.Context, key string) error {
	r.data.Delete(key)
	return nil
}

// PurgeExpired drops every expired code and reports how many went
func (r *MemVerificationRepo) PurgeExpired() int {
	removed := 0
	now := r.now()
	r.data.Range(func(key, value interface{}) bool {
		if now.After(value.(*otpItem).expiresAt) {
			r.data.Delete(key)
			removed++
		}
		return true
	})
	return removed
}
