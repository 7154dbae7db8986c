package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chemedu/periodic-table-api/internal/core/domain"
)

const collectionElements = "elements"

// ElementRepository persists periodic table entries. Symbols are stored
// twice: the display form as submitted, and an uppercased symbol_norm key
// carrying the unique index, which gives case-insensitive lookups.
type ElementRepository struct {
	col *mongo.Collection
}

func NewElementRepository(db *mongo.Database) *ElementRepository {
	return &ElementRepository{col: db.Collection(collectionElements)}
}

type elementDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Symbol     string             `bson:"symbol"`
	SymbolNorm string             `bson:"symbol_norm"`
	Name       string             `bson:"name"`
	Number     int                `bson:"number"`
	Info       string             `bson:"info,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func toElementDoc(el *domain.Element) elementDoc {
	return elementDoc{
		Symbol:     el.Symbol,
		SymbolNorm: domain.NormalizeSymbol(el.Symbol),
		Name:       el.Name,
		Number:     el.Number,
		Info:       el.Info,
		CreatedAt:  el.CreatedAt,
		UpdatedAt:  el.UpdatedAt,
	}
}

func (d elementDoc) toDomain() domain.Element {
	return domain.Element{
		ID:        d.ID.Hex(),
		Symbol:    d.Symbol,
		Name:      d.Name,
		Number:    d.Number,
		Info:      d.Info,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// EnsureIndexes creates the unique symbol index. Must run before the first
// Create.
func (r *ElementRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "symbol_norm", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "number", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *ElementRepository) List(ctx context.Context) ([]domain.Element, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "number", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list elements: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Element
	for cur.Next(ctx) {
		var doc elementDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode element: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list elements: %w", err)
	}
	return out, nil
}

func (r *ElementRepository) FindBySymbol(ctx context.Context, symbol string) (*domain.Element, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc elementDoc
	err := r.col.FindOne(ctx, bson.M{"symbol_norm": domain.NormalizeSymbol(symbol)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrElementNotFound
		}
		return nil, fmt.Errorf("find element: %w", err)
	}
	el := doc.toDomain()
	return &el, nil
}

func (r *ElementRepository) Create(ctx context.Context, element *domain.Element) (*domain.Element, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toElementDoc(element))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrElementExists
		}
		return nil, fmt.Errorf("insert element: %w", err)
	}

	out := *element
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		out.ID = oid.Hex()
	}
	return &out, nil
}

// Update replaces the document identified by element.ID. A symbol change
// that collides with another element fails with ErrElementExists via the
// unique index.
func (r *ElementRepository) Update(ctx context.Context, element *domain.Element) (*domain.Element, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(element.ID)
	if err != nil {
		return nil, domain.ErrElementNotFound
	}

	doc := toElementDoc(element)
	doc.ID = oid
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrElementExists
		}
		return nil, fmt.Errorf("update element: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrElementNotFound
	}

	out := *element
	return &out, nil
}

func (r *ElementRepository) DeleteBySymbol(ctx context.Context, symbol string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"symbol_norm": domain.NormalizeSymbol(symbol)})
	if err != nil {
		return fmt.Errorf("delete element: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrElementNotFound
	}
	return nil
}

func (r *ElementRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count elements: %w", err)
	}
	return n, nil
}
