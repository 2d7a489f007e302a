// Package guard implements pair deduplication for the matching engine.
package guard

import (
	"context"
	"sync"
	"time"

	id "foodlink/pkg/domain"
)

func pairKey(listingID id.ListingID, needID id.NeedID) string {
	return "foodlink:match:" + listingID.String() + ":" + needID.String()
}

// Noop claims every pair, so repeated runs notify again.
type Noop struct{}

func (Noop) Claim(context.Context, id.ListingID, id.NeedID) (bool, error) {
	return true, nil
}

// Memory remembers claimed pairs for ttl within one process.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	expires map[string]time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		expires: make(map[string]time.Time),
	}
}

func (m *Memory) Claim(_ context.Context, listingID id.ListingID, needID id.NeedID) (bool, error) {
	key := pairKey(listingID, needID)
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	if exp, ok := m.expires[key]; ok && now.Before(exp) {
		return false, nil
	}
	m.expires[key] = now.Add(m.ttl)
	m.sweep(now)
	return true, nil
}

// sweep drops expired entries once the map grows past a small bound.
func (m *Memory) sweep(now time.Time) {
	if len(m.expires) < 1024 {
		return
	}
	for k, exp := range m.expires {
		if !now.Before(exp) {
			delete(m.expires, k)
		}
	}
}
