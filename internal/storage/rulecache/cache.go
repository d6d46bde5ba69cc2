// Package rulecache provides a read-through TTL cache in front of the
// compliance-rule store. Rule lookups sit on the hot path of every checkout;
// the rules themselves change at regulatory speed.
package rulecache

import (
	"context"
	"sync"
	"time"

	"greenlane/internal/domain"
	"greenlane/internal/storage"
)

// Source is the authoritative read side the cache falls back to.
type Source interface {
	FindByState(ctx context.Context, stateCode string) (domain.ComplianceRule, error)
}

// Cache resolves rules with the same contract as storage.RuleStore's read
// side: storage.ErrNotFound still means "unconfigured jurisdiction". Misses
// are not cached; an unconfigured state is expected to stay cheap at the
// database as a single-row primary-key lookup.
type Cache interface {
	FindByState(ctx context.Context, stateCode string) (domain.ComplianceRule, error)
	Invalidate(ctx context.Context, stateCode string) error
}

// Memory is the in-process fallback used when Redis is not configured.
type Memory struct {
	source Source
	ttl    time.Duration

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	rule     domain.ComplianceRule
	storedAt time.Time
}

func NewMemory(source Source, ttl time.Duration) *Memory {
	return &Memory{
		source:  source,
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

func (c *Memory) FindByState(ctx context.Context, stateCode string) (domain.ComplianceRule, error) {
	c.mu.RLock()
	entry, ok := c.entries[stateCode]
	c.mu.RUnlock()
	if ok && time.Since(entry.storedAt) < c.ttl {
		return entry.rule, nil
	}

	rule, err := c.source.FindByState(ctx, stateCode)
	if err != nil {
		return domain.ComplianceRule{}, err
	}

	c.mu.Lock()
	c.entries[stateCode] = memoryEntry{rule: rule, storedAt: time.Now()}
	c.mu.Unlock()
	return rule, nil
}

func (c *Memory) Invalidate(_ context.Context, stateCode string) error {
	c.mu.Lock()
	delete(c.entries, stateCode)
	c.mu.Unlock()
	return nil
}

var _ Cache = (*Memory)(nil)
var _ Source = (storage.RuleStore)(nil)
