package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line of a cart. A cart holds at most one line per product.
type CartItem struct {
	Product  Ref `bson:"product" json:"product"`
	Quantity int `bson:"quantity" json:"quantity"`
}

// Cart is the buyer's cart document in the "carts" collection.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Buyer     Ref                `bson:"buyer" json:"buyer"`
	Items     []CartItem         `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FindItem returns the index of the first line referencing product, or -1.
func (c *Cart) FindItem(product Ref) int {
	for i, item := range c.Items {
		if item.Product.Equal(product) {
			return i
		}
	}
	return -1
}

// ProductSummary is the projection of a product shown inside a cart.
type ProductSummary struct {
	ID       Ref     `bson:"_id" json:"_id"`
	Name     string  `bson:"name" json:"name"`
	Price    float64 `bson:"price" json:"price"`
	Stock    int     `bson:"stock" json:"stock"`
	ImageURL string  `bson:"imageUrl" json:"imageUrl"`
}

// PopulatedCartItem carries the expanded product, or nil when the product
// no longer exists.
type PopulatedCartItem struct {
	Product  *ProductSummary `json:"product"`
	Quantity int             `json:"quantity"`
}

type PopulatedCart struct {
	ID        primitive.ObjectID  `json:"_id"`
	Buyer     Ref                 `json:"buyer"`
	Items     []PopulatedCartItem `json:"items"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// Populate expands every line from summaries, keyed by canonical product ref.
func (c *Cart) Populate(summaries map[Ref]*ProductSummary) *PopulatedCart {
	out := &PopulatedCart{
		ID:        c.ID,
		Buyer:     c.Buyer,
		Items:     make([]PopulatedCartItem, 0, len(c.Items)),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	for _, item := range c.Items {
		out.Items = append(out.Items, PopulatedCartItem{
			Product:  summaries[item.Product.Canonical()],
			Quantity: item.Quantity,
		})
	}
	return out
}

// ProductRefs returns the distinct canonical product refs in line order.
func (c *Cart) ProductRefs() []Ref {
	seen := make(map[Ref]struct{}, len(c.Items))
	refs := make([]Ref, 0, len(c.Items))
	for _, item := range c.Items {
		ref := item.Product.Canonical()
		if _, ok := seen[ref]; ok || ref.IsZero() {
			continue
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}
	return refs
}
