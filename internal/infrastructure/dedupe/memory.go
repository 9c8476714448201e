package dedupe

import (
	"context"
	"sync"
	"time"
)

// MemoryDeduplicator is the single-instance fallback used when Redis is disabled.
type MemoryDeduplicator struct {
	mu    sync.Mutex
	seen  map[string]time.Time
	ttl   time.Duration
	clock func() time.Time
}

func NewMemoryDeduplicator(ttl time.Duration) *MemoryDeduplicator {
	return &MemoryDeduplicator{
		seen:  make(map[string]time.Time),
		ttl:   ttl,
		clock: time.Now,
	}
}

func (d *MemoryDeduplicator) FirstDelivery(_ context.Context, eventID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock()
	if expires, ok := d.seen[eventID]; ok && now.Before(expires) {
		return false, nil
	}
	d.seen[eventID] = now.Add(d.ttl)

	if len(d.seen) > 1024 {
		for id, expires := range d.seen {
			if !now.Before(expires) {
				delete(d.seen, id)
			}
		}
	}
	return true, nil
}

func (d *MemoryDeduplicator) Forget(_ context.Context, eventID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, eventID)
	return nil
}
