package database

import (
	"context"
	"errors"
	"time"

	"github.com/shopswift/commerce-backend/services/cart-service/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrItemNotFound = errors.New("cart item not found")
)

type CartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{
		collection: db.Collection("carts"),
	}
}

// FindByBuyer loads the buyer's cart whichever way the buyer ref was stored.
func (r *CartRepository) FindByBuyer(ctx context.Context, buyer models.Ref) (*models.Cart, error) {
	filter := bson.M{"buyer": bson.M{"$in": buyer.Candidates()}}

	var cart models.Cart
	err := r.collection.FindOne(ctx, filter).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateItemQuantity sets the quantity of the first line referencing product
// with a positional update, leaving every other line untouched.
func (r *CartRepository) UpdateItemQuantity(ctx context.Context, cartID primitive.ObjectID, product models.Ref, quantity int, at time.Time) error {
	filter := bson.M{
		"_id":           cartID,
		"items.product": bson.M{"$in": product.Candidates()},
	}
	update := bson.M{"$set": bson.M{
		"items.$.quantity": quantity,
		"updatedAt":        at,
	}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}
