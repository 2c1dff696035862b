// Package submitguard remembers which form submissions were already processed
// so a resent form does not write twice.
package submitguard

import (
	"context"
	"sync"
	"time"
)

// Guard claims submission ids. Claim returns true only for the first caller
// of a given id within ttl.
type Guard interface {
	Claim(ctx context.Context, submissionID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, submissionID string) error
}

// MemoryGuard is an in-process Guard used when no redis is configured.
type MemoryGuard struct {
	mu      sync.Mutex
	claimed map[string]time.Time
	now     func() time.Time
}

// NewMemoryGuard constructs an empty in-memory guard.
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{
		claimed: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (g *MemoryGuard) Claim(_ context.Context, submissionID string, ttl time.Duration) (bool, error) {
	if submissionID == "" {
		return true, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.sweep(now)

	if expires, ok := g.claimed[submissionID]; ok && now.Before(expires) {
		return false, nil
	}
	g.claimed[submissionID] = now.Add(ttl)
	return true, nil
}

func (g *MemoryGuard) Release(_ context.Context, submissionID string) error {
	g.mu.Lock()
	delete(g.claimed, submissionID)
	g.mu.Unlock()
	return nil
}

// sweep drops expired ids. Callers hold mu.
func (g *MemoryGuard) sweep(now time.Time) {
	for id, expires := range g.claimed {
		if !now.Before(expires) {
			delete(g.claimed, id)
		}
	}
}
