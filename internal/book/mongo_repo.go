package book

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CollectionName is the MongoDB collection holding books.
const CollectionName = "books"

type bookDocument struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	CategoryID    bson.ObjectID `bson:"categoryId"`
	Name          string        `bson:"name"`
	PublishedDate time.Time     `bson:"publishedDate"`
	Pages         int           `bson:"pages"`
	Author        string        `bson:"author"`
}

func (d bookDocument) toBook() Book {
	return Book{
		ID:            d.ID.Hex(),
		CategoryID:    d.CategoryID.Hex(),
		Name:          d.Name,
		PublishedDate: d.PublishedDate.UTC(),
		Pages:         d.Pages,
		Author:        d.Author,
	}
}

type MongoRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoRepo(db *mongo.Database, timeout time.Duration) *MongoRepo {
	return &MongoRepo{coll: db.Collection(CollectionName), timeout: timeout}
}

func (r *MongoRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// EnsureIndexes creates the secondary indexes used by List filters.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "categoryId", Value: 1}}},
		{Keys: bson.D{{Key: "publishedDate", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create book indexes: %w", err)
	}
	return nil
}

// buildFilter translates q into a MongoDB filter. ok is false when the
// filter can match nothing, e.g. a categoryId that is not an ObjectID.
func buildFilter(q Query) (filter bson.D, ok bool) {
	filter = bson.D{}

	if q.Name != nil {
		filter = append(filter, bson.E{Key: "name", Value: substringRegex(*q.Name)})
	}
	if q.PublishedDate != nil {
		filter = append(filter, bson.E{Key: "publishedDate", Value: storedDate(*q.PublishedDate)})
	}
	if q.Author != nil {
		filter = append(filter, bson.E{Key: "author", Value: substringRegex(*q.Author)})
	}
	if q.CategoryID != nil {
		oid, err := bson.ObjectIDFromHex(*q.CategoryID)
		if err != nil {
			return nil, false
		}
		filter = append(filter, bson.E{Key: "categoryId", Value: oid})
	}
	return filter, true
}

// storedDate matches the millisecond precision of BSON dates.
func storedDate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func substringRegex(s string) bson.Regex {
	return bson.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func (r *MongoRepo) List(ctx context.Context, q Query) ([]Book, error) {
	filter, ok := buildFilter(q)
	if !ok {
		return []Book{}, nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSkip(int64(q.Skip)).
		SetLimit(int64(q.Limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}

	var docs []bookDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}

	out := make([]Book, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toBook())
	}
	return out, nil
}

func (r *MongoRepo) Create(ctx context.Context, b *Book) error {
	categoryID, err := bson.ObjectIDFromHex(b.CategoryID)
	if err != nil {
		return ErrInvalidCategoryID
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	doc := bookDocument{
		ID:            bson.NewObjectID(),
		CategoryID:    categoryID,
		Name:          b.Name,
		PublishedDate: storedDate(b.PublishedDate),
		Pages:         b.Pages,
		Author:        b.Author,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	*b = doc.toBook()
	return nil
}

func (r *MongoRepo) GetByID(ctx context.Context, id string) (Book, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return Book{}, ErrNotFound
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var doc bookDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Book{}, ErrNotFound
		}
		return Book{}, fmt.Errorf("find book: %w", err)
	}
	return doc.toBook(), nil
}

func (r *MongoRepo) Update(ctx context.Context, b Book) (Book, error) {
	oid, err := bson.ObjectIDFromHex(b.ID)
	if err != nil {
		return Book{}, ErrNotFound
	}
	categoryID, err := bson.ObjectIDFromHex(b.CategoryID)
	if err != nil {
		return Book{}, ErrInvalidCategoryID
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "categoryId", Value: categoryID},
		{Key: "name", Value: b.Name},
		{Key: "publishedDate", Value: storedDate(b.PublishedDate)},
		{Key: "pages", Value: b.Pages},
		{Key: "author", Value: b.Author},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc bookDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Book{}, ErrNotFound
		}
		return Book{}, fmt.Errorf("update book: %w", err)
	}
	return doc.toBook(), nil
}

func (r *MongoRepo) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
