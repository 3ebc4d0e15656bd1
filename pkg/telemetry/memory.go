package telemetry

import (
	"context"
	"sync"
)

// MemoryStore keeps the histories in process memory only. Hubs persist
// telemetry in the registry file's directory or in SQLite; this store
// backs tests and embedders that do not need history across restarts.
type MemoryStore struct {
	mu         sync.RWMutex
	scans      []ScanEvent
	onboarding []OnboardingEvent
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) AppendScan(ctx context.Context, e ScanEvent, limit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scans = AppendCapped(s.scans, e, limit)
	return nil
}

func (s *MemoryStore) AppendOnboarding(ctx context.Context, e OnboardingEvent, limit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onboarding = AppendCapped(s.onboarding, e, limit)
	return nil
}

func (s *MemoryStore) Scans(ctx context.Context, limit int) ([]ScanEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return NewestFirst(s.scans, limit), nil
}

func (s *MemoryStore) Onboardings(ctx context.Context, limit int) ([]OnboardingEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return NewestFirst(s.onboarding, limit), nil
}

// AppendCapped appends e to an oldest-first history and keeps at most the
// last limit entries. A limit of zero or less keeps everything.
func AppendCapped[T any](history []T, e T, limit int) []T {
	history = append(history, e)
	if limit > 0 && len(history) > limit {
		trimmed := make([]T, limit)
		copy(trimmed, history[len(history)-limit:])
		history = trimmed
	}
	return history
}

// NewestFirst returns up to limit entries of an oldest-first history,
// newest first.
func NewestFirst[T any](history []T, limit int) []T {
	if limit <= 0 || limit > len(history) {
		limit = len(history)
	}
	out := make([]T, 0, limit)
	for i := len(history) - 1; i >= len(history)-limit; i-- {
		out = append(out, history[i])
	}
	return out
}
