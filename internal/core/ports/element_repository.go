package ports

import (
	"context"

	"github.com/chemedu/periodic-table-api/internal/core/domain"
)

// ElementRepository is the persistence contract for elements. Symbol
// lookups are case-insensitive; symbol uniqueness is enforced by the store
// (duplicate inserts fail with domain.ErrElementExists).
type ElementRepository interface {
	List(ctx context.Context) ([]domain.Element, error)
	FindBySymbol(ctx context.Context, symbol string) (*domain.Element, error)
	Create(ctx context.Context, element *domain.Element) (*domain.Element, error)
	// Update replaces the element identified by element.ID.
	Update(ctx context.Context, element *domain.Element) (*domain.Element, error)
	DeleteBySymbol(ctx context.Context, symbol string) error
	Count(ctx context.Context) (int64, error)
}
