package cache

import (
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

type sweptEntry[V any] struct {
	key   string
	value V
}

// EvictFunc is called once for every entry that leaves the store, outside the store lock.
type EvictFunc[V any] func(key string, value V)

type Options[V any] struct {
	TTL time.Duration
	// Sliding extends an entry's expiry on every successful Get.
	Sliding bool
	OnEvict EvictFunc[V]
	// Now defaults to time.Now.
	Now func() time.Time
}

// Store is an in-memory TTL map keyed by string.
type Store[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	sliding bool
	onEvict EvictFunc[V]
	now     func() time.Time
}

func NewStore[V any](opts Options[V]) *Store[V] {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store[V]{
		entries: make(map[string]entry[V]),
		ttl:     opts.TTL,
		sliding: opts.Sliding,
		onEvict: opts.OnEvict,
		now:     now,
	}
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	now := s.now()
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		return zero, false
	}
	if s.expired(e, now) {
		delete(s.entries, key)
		s.mu.Unlock()
		s.evict(key, e.value)
		return zero, false
	}
	if s.sliding && s.ttl > 0 {
		e.expiresAt = now.Add(s.ttl)
		s.entries[key] = e
	}
	s.mu.Unlock()

	return e.value, true
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}

	expiresAt := time.Time{}
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	prev, replaced := s.entries[key]
	s.entries[key] = entry[V]{value: value, expiresAt: expiresAt}
	s.mu.Unlock()

	if replaced {
		s.evict(key, prev.value)
	}
}

func (s *Store[V]) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	e, ok := s.entries[key]
	delete(s.entries, key)
	s.mu.Unlock()

	if ok {
		s.evict(key, e.value)
	}
}

func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep drops every expired entry and returns how many were removed.
func (s *Store[V]) Sweep() int {
	now := s.now()

	s.mu.Lock()
	victims := make([]sweptEntry[V], 0)
	for key, e := range s.entries {
		if s.expired(e, now) {
			victims = append(victims, sweptEntry[V]{key: key, value: e.value})
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()

	for _, v := range victims {
		s.evict(v.key, v.value)
	}
	return len(victims)
}

// Clear evicts everything, used on shutdown.
func (s *Store[V]) Clear() {
	s.mu.Lock()
	old := s.entries
	s.entries = make(map[string]entry[V])
	s.mu.Unlock()

	for key, e := range old {
		s.evict(key, e.value)
	}
}

// RunJanitor sweeps on every tick until ctx is done.
func (s *Store[V]) RunJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Store[V]) expired(e entry[V], now time.Time) bool {
	return s.ttl > 0 && !e.expiresAt.After(now)
}

func (s *Store[V]) evict(key string, value V) {
	if s.onEvict != nil {
		s.onEvict(key, value)
	}
}
