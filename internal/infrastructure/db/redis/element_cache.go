package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/chemedu/periodic-table-api/internal/core/domain"
)

const elementCacheTTL = 5 * time.Minute

// ElementCache is a Redis-backed read-through cache for single-element
// lookups. Key format: element:<NORMALIZED_SYMBOL>. Every Redis failure is
// logged and treated as a miss; the cache never fails a request.
type ElementCache struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewElementCache(client *redis.Client, log zerolog.Logger) *ElementCache {
	return &ElementCache{client: client, log: log}
}

func (c *ElementCache) Get(ctx context.Context, symbol string) (*domain.Element, bool) {
	raw, err := c.client.Get(ctx, c.key(symbol)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Debug().Err(err).Str("symbol", symbol).Msg("element cache read failed")
		}
		return nil, false
	}

	var el domain.Element
	if err := json.Unmarshal(raw, &el); err != nil {
		c.log.Debug().Err(err).Str("symbol", symbol).Msg("element cache entry corrupt")
		return nil, false
	}
	return &el, true
}

func (c *ElementCache) Set(ctx context.Context, element *domain.Element) {
	raw, err := json.Marshal(element)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(element.Symbol), raw, elementCacheTTL).Err(); err != nil {
		c.log.Debug().Err(err).Str("symbol", element.Symbol).Msg("element cache write failed")
	}
}

func (c *ElementCache) Invalidate(ctx context.Context, symbol string) {
	if err := c.client.Del(ctx, c.key(symbol)).Err(); err != nil {
		c.log.Debug().Err(err).Str("symbol", symbol).Msg("element cache invalidation failed")
	}
}

func (c *ElementCache) key(symbol string) string {
	return "element:" + domain.NormalizeSymbol(symbol)
}
