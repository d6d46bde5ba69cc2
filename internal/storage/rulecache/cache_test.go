package rulecache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenlane/internal/domain"
	"greenlane/internal/storage"
)

type countingSource struct {
	rules map[string]domain.ComplianceRule
	calls int
}

func (s *countingSource) FindByState(_ context.Context, stateCode string) (domain.ComplianceRule, error) {
	s.calls++
	rule, ok := s.rules[stateCode]
	if !ok {
		return domain.ComplianceRule{}, storage.ErrNotFound
	}
	return rule, nil
}

func TestMemoryCachesHits(t *testing.T) {
	ctx := context.Background()
	source := &countingSource{rules: map[string]domain.ComplianceRule{
		"CA": {StateCode: "CA", MinAge: 21, MaxDailyTHCMg: 1000},
	}}
	cache := NewMemory(source, time.Minute)

	for range 3 {
		rule, err := cache.FindByState(ctx, "CA")
		require.NoError(t, err)
		assert.Equal(t, 21, rule.MinAge)
	}
	assert.Equal(t, 1, source.calls)
}

func TestMemoryDoesNotCacheMisses(t *testing.T) {
	ctx := context.Background()
	source := &countingSource{rules: map[string]domain.ComplianceRule{}}
	cache := NewMemory(source, time.Minute)

	_, err := cache.FindByState(ctx, "MT")
	require.ErrorIs(t, err, storage.ErrNotFound)

	// The state gets configured; the next lookup must see it immediately.
	source.rules["MT"] = domain.ComplianceRule{StateCode: "MT", MinAge: 21}
	rule, err := cache.FindByState(ctx, "MT")
	require.NoError(t, err)
	assert.Equal(t, 21, rule.MinAge)
}

func TestMemoryInvalidate(t *testing.T) {
	ctx := context.Background()
	source := &countingSource{rules: map[string]domain.ComplianceRule{
		"CA": {StateCode: "CA", MinAge: 21},
	}}
	cache := NewMemory(source, time.Minute)

	_, err := cache.FindByState(ctx, "CA")
	require.NoError(t, err)

	source.rules["CA"] = domain.ComplianceRule{StateCode: "CA", MinAge: 18}
	require.NoError(t, cache.Invalidate(ctx, "CA"))

	rule, err := cache.FindByState(ctx, "CA")
	require.NoError(t, err)
	assert.Equal(t, 18, rule.MinAge)
	assert.Equal(t, 2, source.calls)
}
