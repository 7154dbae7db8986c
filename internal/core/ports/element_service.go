package ports

import (
	"context"

	"github.com/chemedu/periodic-table-api/internal/core/domain"
)

// CreateElementInput carries the data needed to create an element.
type CreateElementInput struct {
	Symbol string
	Name   string
	Number int
	Info   string
}

// UpdateElementInput carries a partial update; nil fields keep their
// current value.
type UpdateElementInput struct {
	Symbol *string
	Name   *string
	Number *int
	Info   *string
}

// ElementService defines use-case operations for periodic table entries.
// Mutations take the acting username for the audit trail.
type ElementService interface {
	List(ctx context.Context) ([]domain.Element, error)
	GetBySymbol(ctx context.Context, symbol string) (*domain.Element, error)
	Create(ctx context.Context, actor string, in CreateElementInput) (*domain.Element, error)
	Update(ctx context.Context, actor, symbol string, in UpdateElementInput) (*domain.Element, error)
	Delete(ctx context.Context, actor, symbol string) error

	// SeedDefaults loads the sample element set when the store is empty.
	SeedDefaults(ctx context.Context) error
}
