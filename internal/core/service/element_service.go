package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/chemedu/periodic-table-api/internal/core/domain"
	"github.com/chemedu/periodic-table-api/internal/core/ports"
)

// ElementService implements CRUD use-cases for periodic table entries with a
// read-through cache on single-element lookups.
type ElementService struct {
	repo   ports.ElementRepository
	cache  ports.ElementCache
	audit  ports.AuditRecorder
	logger zerolog.Logger
}

func NewElementService(repo ports.ElementRepository, cache ports.ElementCache, audit ports.AuditRecorder, logger zerolog.Logger) *ElementService {
	return &ElementService{repo: repo, cache: cache, audit: audit, logger: logger}
}

func (s *ElementService) List(ctx context.Context) ([]domain.Element, error) {
	return s.repo.List(ctx)
}

func (s *ElementService) GetBySymbol(ctx context.Context, symbol string) (*domain.Element, error) {
	if s.cache != nil {
		if el, ok := s.cache.Get(ctx, symbol); ok {
			return el, nil
		}
	}

	el, err := s.repo.FindBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, el)
	}
	return el, nil
}

func (s *ElementService) Create(ctx context.Context, actor string, in ports.CreateElementInput) (*domain.Element, error) {
	if err := validateSymbol(in.Symbol); err != nil {
		return nil, err
	}
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	if err := validateNumber(in.Number); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Element{
		Symbol:    strings.TrimSpace(in.Symbol),
		Name:      strings.TrimSpace(in.Name),
		Number:    in.Number,
		Info:      in.Info,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, created.Symbol)
	s.record(domain.AuditEvent{Actor: actor, Action: domain.AuditElementCreate, Subject: created.Symbol})
	s.logger.Info().Str("symbol", created.Symbol).Str("actor", actor).Msg("element created")
	return created, nil
}

func (s *ElementService) Update(ctx context.Context, actor, symbol string, in ports.UpdateElementInput) (*domain.Element, error) {
	current, err := s.repo.FindBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}

	next := *current
	if in.Symbol != nil {
		if err := validateSymbol(*in.Symbol); err != nil {
			return nil, err
		}
		next.Symbol = strings.TrimSpace(*in.Symbol)
	}
	if in.Name != nil {
		if err := validateName(*in.Name); err != nil {
			return nil, err
		}
		next.Name = strings.TrimSpace(*in.Name)
	}
	if in.Number != nil {
		if err := validateNumber(*in.Number); err != nil {
			return nil, err
		}
		next.Number = *in.Number
	}
	if in.Info != nil {
		next.Info = *in.Info
	}
	next.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, &next)
	if err != nil {
		return nil, err
	}

	// Drop both keys in case the symbol itself changed.
	s.invalidate(ctx, current.Symbol)
	s.invalidate(ctx, updated.Symbol)
	s.record(domain.AuditEvent{Actor: actor, Action: domain.AuditElementUpdate, Subject: updated.Symbol})
	s.logger.Info().Str("symbol", updated.Symbol).Str("actor", actor).Msg("element updated")
	return updated, nil
}

func (s *ElementService) Delete(ctx context.Context, actor, symbol string) error {
	if err := s.repo.DeleteBySymbol(ctx, symbol); err != nil {
		return err
	}

	s.invalidate(ctx, symbol)
	s.record(domain.AuditEvent{Actor: actor, Action: domain.AuditElementDelete, Subject: domain.NormalizeSymbol(symbol)})
	s.logger.Info().Str("symbol", symbol).Str("actor", actor).Msg("element deleted")
	return nil
}

// SeedDefaults loads the sample element set on an empty store. Idempotent:
// a non-empty store is left untouched.
func (s *ElementService) SeedDefaults(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("element seed: %w", err)
	}
	if n > 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, el := range sampleElements {
		el.CreatedAt = now
		el.UpdatedAt = now
		if _, err := s.repo.Create(ctx, &el); err != nil {
			return fmt.Errorf("element seed %s: %w", el.Symbol, err)
		}
	}

	s.logger.Info().Int("count", len(sampleElements)).Msg("seeded sample elements")
	return nil
}

func (s *ElementService) invalidate(ctx context.Context, symbol string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, symbol)
	}
}

func (s *ElementService) record(event domain.AuditEvent) {
	if s.audit != nil {
		s.audit.Record(event)
	}
}

func validateSymbol(symbol string) error {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" || len(symbol) > 10 {
		return fmt.Errorf("%w: symbol must be 1-10 characters", domain.ErrInvalidInput)
	}
	for _, r := range symbol {
		if !unicode.IsLetter(r) {
			return fmt.Errorf("%w: symbol must contain only letters", domain.ErrInvalidInput)
		}
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" || len(name) > 50 {
		return fmt.Errorf("%w: name must be 1-50 characters", domain.ErrInvalidInput)
	}
	return nil
}

func validateNumber(number int) error {
	if number < 1 || number > 118 {
		return fmt.Errorf("%w: atomic number must be between 1 and 118", domain.ErrInvalidInput)
	}
	return nil
}

// sampleElements is the starter data set loaded into an empty store.
var sampleElements = []domain.Element{
	{Symbol: "H", Name: "Hydrogen", Number: 1, Info: "Lightest element, most abundant in the universe."},
	{Symbol: "He", Name: "Helium", Number: 2, Info: "Noble gas, second most abundant element."},
	{Symbol: "Li", Name: "Lithium", Number: 3, Info: "Soft alkali metal used in batteries."},
	{Symbol: "C", Name: "Carbon", Number: 6, Info: "Basis of all known life."},
	{Symbol: "N", Name: "Nitrogen", Number: 7, Info: "Makes up 78% of Earth's atmosphere."},
	{Symbol: "O", Name: "Oxygen", Number: 8, Info: "Essential for respiration."},
	{Symbol: "Na", Name: "Sodium", Number: 11, Info: "Reactive alkali metal, component of table salt."},
	{Symbol: "Fe", Name: "Iron", Number: 26, Info: "Most common element on Earth by mass."},
	{Symbol: "Cu", Name: "Copper", Number: 29, Info: "Excellent electrical conductor."},
	{Symbol: "Au", Name: "Gold", Number: 79, Info: "Precious metal, highly resistant to corrosion."},
}
