package guard

import (
	"context"
	"sync"
	"time"
)

const cleanupInterval = time.Minute

// Memory is a process-local guard. It is only correct for a single replica.
type Memory struct {
	mu    sync.Mutex
	seen  map[string]time.Time
	hits  map[string][]time.Time
	clock func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// MemoryOption configures NewMemory.
type MemoryOption func(*Memory)

// WithClock replaces time.Now as the guard's time source.
func WithClock(clock func() time.Time) MemoryOption {
	return func(m *Memory) { m.clock = clock }
}

// NewMemory creates a Memory guard and starts its cleanup loop. Call Close to stop it.
func NewMemory(opts ...MemoryOption) *Memory {
	m := newMemory(time.Now)
	for _, opt := range opts {
		opt(m)
	}
	go m.cleanupLoop()
	return m
}

func newMemory(clock func() time.Time) *Memory {
	return &Memory{
		seen:  make(map[string]time.Time),
		hits:  make(map[string][]time.Time),
		clock: clock,
		stop:  make(chan struct{}),
	}
}

func (m *Memory) MarkSeen(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	if exp, ok := m.seen[key]; ok && now.Before(exp) {
		return false, nil
	}
	m.seen[key] = now.Add(ttl)
	return true, nil
}

func (m *Memory) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return true, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	valid := trim(m.hits[key], now.Add(-window))
	if len(valid) >= limit {
		m.hits[key] = valid
		return false, nil
	}
	m.hits[key] = append(valid, now)
	return true, nil
}

// Close stops the cleanup loop.
func (m *Memory) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Memory) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

// cleanup drops expired dedup keys and rate windows idle for longer than maxWindow.
func (m *Memory) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	for k, exp := range m.seen {
		if !now.Before(exp) {
			delete(m.seen, k)
		}
	}
	for k, ts := range m.hits {
		if len(ts) == 0 || now.Sub(ts[len(ts)-1]) > maxWindow {
			delete(m.hits, k)
		}
	}
}

// maxWindow bounds how long an idle rate window is kept.
const maxWindow = time.Hour

func trim(ts []time.Time, windowStart time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(windowStart) {
		i++
	}
	if i == 0 {
		return ts
	}
	out := make([]time.Time, len(ts)-i)
	copy(out, ts[i:])
	return out
}
