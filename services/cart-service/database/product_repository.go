package database

import (
	"context"

	"github.com/shopswift/commerce-backend/services/cart-service/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var summaryProjection = bson.M{"_id": 1, "name": 1, "price": 1, "stock": 1, "imageUrl": 1}

// ProductRepository reads the product catalogue owned by product-service.
type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		collection: db.Collection("products"),
	}
}

// FindSummaries returns the summary of every ref that still exists, keyed by
// canonical ref. Missing products are simply absent from the map.
func (r *ProductRepository) FindSummaries(ctx context.Context, refs []models.Ref) (map[models.Ref]*models.ProductSummary, error) {
	out := make(map[models.Ref]*models.ProductSummary, len(refs))
	if len(refs) == 0 {
		return out, nil
	}

	ids := make([]interface{}, 0, len(refs)*2)
	for _, ref := range refs {
		ids = append(ids, ref.Candidates()...)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(summaryProjection))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []*models.ProductSummary
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID.Canonical()] = p
	}
	return out, nil
}
