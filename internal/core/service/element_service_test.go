package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/chemedu/periodic-table-api/internal/core/domain"
	"github.com/chemedu/periodic-table-api/internal/core/ports"
)

type memElementRepo struct {
	mu       sync.Mutex
	elements map[string]*domain.Element // keyed by normalized symbol
	nextID   int
}

func newMemElementRepo() *memElementRepo {
	return &memElementRepo{elements: make(map[string]*domain.Element)}
}

func (r *memElementRepo) List(_ context.Context) ([]domain.Element, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Element, 0, len(r.elements))
	for _, el := range r.elements {
		out = append(out, *el)
	}
	return out, nil
}

func (r *memElementRepo) FindBySymbol(_ context.Context, symbol string) (*domain.Element, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	el, ok := r.elements[domain.NormalizeSymbol(symbol)]
	if !ok {
		return nil, domain.ErrElementNotFound
	}
	clone := *el
	return &clone, nil
}

func (r *memElementRepo) Create(_ context.Context, element *domain.Element) (*domain.Element, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := domain.NormalizeSymbol(element.Symbol)
	if _, exists := r.elements[key]; exists {
		return nil, domain.ErrElementExists
	}
	clone := *element
	r.nextID++
	clone.ID = strconv.Itoa(r.nextID)
	r.elements[key] = &clone
	out := clone
	return &out, nil
}

func (r *memElementRepo) Update(_ context.Context, element *domain.Element) (*domain.Element, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	newKey := domain.NormalizeSymbol(element.Symbol)
	var oldKey string
	for key, el := range r.elements {
		if el.ID == element.ID {
			oldKey = key
			break
		}
	}
	if oldKey == "" {
		return nil, domain.ErrElementNotFound
	}
	if newKey != oldKey {
		if _, exists := r.elements[newKey]; exists {
			return nil, domain.ErrElementExists
		}
		delete(r.elements, oldKey)
	}
	clone := *element
	r.elements[newKey] = &clone
	out := clone
	return &out, nil
}

func (r *memElementRepo) DeleteBySymbol(_ context.Context, symbol string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := domain.NormalizeSymbol(symbol)
	if _, ok := r.elements[key]; !ok {
		return domain.ErrElementNotFound
	}
	delete(r.elements, key)
	return nil
}

func (r *memElementRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.elements)), nil
}

type countingCache struct {
	mu                sync.Mutex
	entries           map[string]*domain.Element
	hits, sets, drops int
}

func newCountingCache() *countingCache {
	return &countingCache{entries: make(map[string]*domain.Element)}
}

func (c *countingCache) Get(_ context.Context, symbol string) (*domain.Element, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[domain.NormalizeSymbol(symbol)]
	if !ok {
		return nil, false
	}
	c.hits++
	clone := *el
	return &clone, true
}

func (c *countingCache) Set(_ context.Context, element *domain.Element) {
	c.mu.Lock()
	defer c.mu.Unlock()
	clone := *element
	c.entries[domain.NormalizeSymbol(element.Symbol)] = &clone
	c.sets++
}

func (c *countingCache) Invalidate(_ context.Context, symbol string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, domain.NormalizeSymbol(symbol))
	c.drops++
}

func newTestElementService(repo ports.ElementRepository, cache ports.ElementCache) *ElementService {
	return NewElementService(repo, cache, nil, zerolog.Nop())
}

func TestElementService_CreateAndGet_CaseInsensitive(t *testing.T) {
	svc := newTestElementService(newMemElementRepo(), nil)

	created, err := svc.Create(context.Background(), "admin", ports.CreateElementInput{
		Symbol: "He", Name: "Helium", Number: 2, Info: "Noble gas",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected assigned ID")
	}

	for _, lookup := range []string{"He", "he", "HE"} {
		el, err := svc.GetBySymbol(context.Background(), lookup)
		if err != nil {
			t.Fatalf("lookup %q failed: %v", lookup, err)
		}
		if el.Symbol != "He" {
			t.Fatalf("lookup %q: expected display symbol He, got %q", lookup, el.Symbol)
		}
	}
}

func TestElementService_Create_Validation(t *testing.T) {
	svc := newTestElementService(newMemElementRepo(), nil)

	cases := []struct {
		name string
		in   ports.CreateElementInput
	}{
		{"blank symbol", ports.CreateElementInput{Symbol: " ", Name: "X", Number: 1}},
		{"non-letter symbol", ports.CreateElementInput{Symbol: "H2", Name: "X", Number: 1}},
		{"blank name", ports.CreateElementInput{Symbol: "H", Name: "  ", Number: 1}},
		{"number too low", ports.CreateElementInput{Symbol: "H", Name: "Hydrogen", Number: 0}},
		{"number too high", ports.CreateElementInput{Symbol: "H", Name: "Hydrogen", Number: 119}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(context.Background(), "admin", tc.in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestElementService_Create_DuplicateSymbol(t *testing.T) {
	svc := newTestElementService(newMemElementRepo(), nil)

	if _, err := svc.Create(context.Background(), "admin", ports.CreateElementInput{Symbol: "Fe", Name: "Iron", Number: 26}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	_, err := svc.Create(context.Background(), "admin", ports.CreateElementInput{Symbol: "fe", Name: "Iron", Number: 26})
	if !errors.Is(err, domain.ErrElementExists) {
		t.Fatalf("expected ErrElementExists for case-variant duplicate, got %v", err)
	}
}

func TestElementService_Update_Partial(t *testing.T) {
	svc := newTestElementService(newMemElementRepo(), nil)

	if _, err := svc.Create(context.Background(), "admin", ports.CreateElementInput{Symbol: "O", Name: "Oxygen", Number: 8}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	info := "Essential for respiration"
	updated, err := svc.Update(context.Background(), "admin", "o", ports.UpdateElementInput{Info: &info})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Info != info {
		t.Fatalf("info not updated: %q", updated.Info)
	}
	if updated.Name != "Oxygen" || updated.Number != 8 {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestElementService_Update_NotFound(t *testing.T) {
	svc := newTestElementService(newMemElementRepo(), nil)

	name := "Unobtainium"
	if _, err := svc.Update(context.Background(), "admin", "Ub", ports.UpdateElementInput{Name: &name}); !errors.Is(err, domain.ErrElementNotFound) {
		t.Fatalf("expected ErrElementNotFound, got %v", err)
	}
}

func TestElementService_Delete(t *testing.T) {
	svc := newTestElementService(newMemElementRepo(), nil)

	if _, err := svc.Create(context.Background(), "admin", ports.CreateElementInput{Symbol: "Au", Name: "Gold", Number: 79}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Delete(context.Background(), "admin", "au"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), "admin", "au"); !errors.Is(err, domain.ErrElementNotFound) {
		t.Fatalf("expected ErrElementNotFound on repeat delete, got %v", err)
	}
}

func TestElementService_Cache_ReadThroughAndInvalidate(t *testing.T) {
	cache := newCountingCache()
	svc := newTestElementService(newMemElementRepo(), cache)

	if _, err := svc.Create(context.Background(), "admin", ports.CreateElementInput{Symbol: "Na", Name: "Sodium", Number: 11}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// First read misses and populates; second read hits.
	if _, err := svc.GetBySymbol(context.Background(), "Na"); err != nil {
		t.Fatalf("first read failed: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache set, got %d", cache.sets)
	}
	if _, err := svc.GetBySymbol(context.Background(), "na"); err != nil {
		t.Fatalf("second read failed: %v", err)
	}
	if cache.hits != 1 {
		t.Fatalf("expected one cache hit, got %d", cache.hits)
	}

	// Mutation drops the cached entry.
	if err := svc.Delete(context.Background(), "admin", "Na"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := cache.entries[domain.NormalizeSymbol("Na")]; ok {
		t.Fatalf("cache entry survived deletion")
	}
}

func TestElementService_SeedDefaults_Idempotent(t *testing.T) {
	repo := newMemElementRepo()
	svc := newTestElementService(repo, nil)

	if err := svc.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	first, _ := repo.Count(context.Background())
	if first == 0 {
		t.Fatalf("seed inserted nothing")
	}

	if err := svc.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	second, _ := repo.Count(context.Background())
	if first != second {
		t.Fatalf("seed must be idempotent: %d != %d", first, second)
	}
}
