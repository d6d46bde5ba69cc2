package rulecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"greenlane/internal/domain"
	platformredis "greenlane/internal/platform/redis"
)

// Redis is the shared cache used when several instances serve checkouts; an
// admin rule update invalidates the entry for every instance at once.
type Redis struct {
	source Source
	client *platformredis.Client
	ttl    time.Duration
}

func NewRedis(source Source, client *platformredis.Client, ttl time.Duration) *Redis {
	return &Redis{source: source, client: client, ttl: ttl}
}

func key(stateCode string) string {
	return "greenlane:rule:" + stateCode
}

func (c *Redis) FindByState(ctx context.Context, stateCode string) (domain.ComplianceRule, error) {
	raw, err := c.client.Get(ctx, key(stateCode)).Bytes()
	switch {
	case err == nil:
		var rule domain.ComplianceRule
		if unmarshalErr := json.Unmarshal(raw, &rule); unmarshalErr == nil {
			return rule, nil
		}
		// Corrupt entry: fall through to the source and overwrite it.
	case !errors.Is(err, goredis.Nil):
		return domain.ComplianceRule{}, fmt.Errorf("rule cache get: %w", err)
	}

	rule, err := c.source.FindByState(ctx, stateCode)
	if err != nil {
		return domain.ComplianceRule{}, err
	}

	encoded, err := json.Marshal(rule)
	if err != nil {
		return domain.ComplianceRule{}, fmt.Errorf("encode rule for cache: %w", err)
	}
	if err := c.client.Set(ctx, key(stateCode), encoded, c.ttl).Err(); err != nil {
		return domain.ComplianceRule{}, fmt.Errorf("rule cache set: %w", err)
	}
	return rule, nil
}

func (c *Redis) Invalidate(ctx context.Context, stateCode string) error {
	if err := c.client.Del(ctx, key(stateCode)).Err(); err != nil {
		return fmt.Errorf("rule cache invalidate: %w", err)
	}
	return nil
}

var _ Cache = (*Redis)(nil)
