package repository

import (
	"context"
	"errors"

	"storefront/internal/apperr"
	"storefront/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
)

const catalogDocumentID = "catalog"

// catalogDocument keeps the full collection in a single document so Save has
// the same whole-collection replace semantics as the JSON file.
type catalogDocument struct {
	ID       string          `bson:"_id"`
	Products []model.Product `bson:"products"`
}

type MongoRepository struct {
	collection *mongo.Collection
}

var MongoRepositoryTracer = otel.Tracer("MongoRepository")

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		collection: db.Collection("catalog"),
	}
}

func (r *MongoRepository) Load(ctx context.Context) ([]model.Product, error) {
	ctx, span := MongoRepositoryTracer.Start(ctx, "MongoRepository.Load")
	defer span.End()

	var doc catalogDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": catalogDocumentID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []model.Product{}, nil
		}
		return []model.Product{}, apperr.Persistence(err, "load catalog")
	}
	if doc.Products == nil {
		return []model.Product{}, nil
	}
	return doc.Products, nil
}

func (r *MongoRepository) Save(ctx context.Context, products []model.Product) error {
	ctx, span := MongoRepositoryTracer.Start(ctx, "MongoRepository.Save")
	defer span.End()

	if products == nil {
		products = []model.Product{}
	}
	doc := catalogDocument{ID: catalogDocumentID, Products: products}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": catalogDocumentID}, doc, options.Replace().SetUpsert(true))
	return apperr.Persistence(err, "save catalog")
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	return apperr.Persistence(r.collection.Database().Client().Ping(ctx, nil), "ping mongo")
}
