package ports

import (
	"context"

	"github.com/chemedu/periodic-table-api/internal/core/domain"
)

// ElementCache is a read-through cache for single-element lookups. Cache
// failures degrade to misses; they never surface as errors to the caller.
type ElementCache interface {
	Get(ctx context.Context, symbol string) (*domain.Element, bool)
	Set(ctx context.Context, element *domain.Element)
	Invalidate(ctx context.Context, symbol string)
}
