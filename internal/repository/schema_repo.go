package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrSchemaNotFound is returned when no schema document has the given name
var ErrSchemaNotFound = errors.New("schema document not found")

// SchemaDocument stores one questionnaire schema as its raw JSON payload,
// so the trait key order of the source survives the round trip.
type SchemaDocument struct {
	Name      string    `json:"name" bson:"_id"`
	Payload   string    `json:"payload" bson:"payload"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// SchemaRepo handles MongoDB operations for questionnaire schemas
type SchemaRepo interface {
	Save(ctx context.Context, name string, payload []byte) error
	GetPayload(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}

type schemaRepo struct {
	collection *mongo.Collection
}

// NewSchemaRepo creates a new schema repository
func NewSchemaRepo(db *mongo.Database) SchemaRepo {
	return &schemaRepo{
		collection: db.Collection("schemas"),
	}
}

func (r *schemaRepo) Save(ctx context.Context, name string, payload []byte) error {
	doc := SchemaDocument{
		Name:      name,
		Payload:   string(payload),
		UpdatedAt: time.Now(),
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": name}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *schemaRepo) GetPayload(ctx context.Context, name string) ([]byte, error) {
	var doc SchemaDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrSchemaNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(doc.Payload), nil
}

func (r *schemaRepo) List(ctx context.Context) ([]string, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []SchemaDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(docs))
	for _, d := range docs {
		names = append(names, d.Name)
	}
	return names, nil
}

func (r *schemaRepo) Delete(ctx context.Context, name string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": name})
	return err
}
