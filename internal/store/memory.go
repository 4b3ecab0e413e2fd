package store

import (
	"context"
	"sync"
	"time"
)

var _ Revocations = (*MemoryRevocations)(nil)

// MemoryRevocations is the in-process fallback used when no Redis address is
// configured. Entries survive only for the lifetime of the process, which
// matches the stateless-token model: a restart forgets revocations but the
// tokens themselves keep expiring on schedule.
type MemoryRevocations struct {
	mu            sync.RWMutex
	revoked       map[string]time.Time
	cleanupCancel context.CancelFunc
}

// NewMemoryRevocations creates the store and starts a sweep goroutine that
// drops entries whose tokens have expired anyway.
func NewMemoryRevocations(cleanupInterval time.Duration) *MemoryRevocations {
	ctx, cancel := context.WithCancel(context.Background())
	s := &MemoryRevocations{
		revoked:       make(map[string]time.Time),
		cleanupCancel: cancel,
	}
	go s.cleanupLoop(ctx, cleanupInterval)
	return s
}

func (s *MemoryRevocations) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if time.Now().After(expiresAt) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.revoked[tokenID] = expiresAt
	return nil
}

func (s *MemoryRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiresAt, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}

	// Past the token's own expiry the entry is dead weight, not a revocation.
	if time.Now().After(expiresAt) {
		return false, nil
	}

	return true, nil
}

func (s *MemoryRevocations) Close() error {
	if s.cleanupCancel != nil {
		s.cleanupCancel()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.revoked = nil
	return nil
}

func (s *MemoryRevocations) cleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *MemoryRevocations) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for tokenID, expiresAt := range s.revoked {
		if now.After(expiresAt) {
			delete(s.revoked, tokenID)
		}
	}
}
