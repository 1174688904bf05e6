package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopswift/commerce-backend/services/cart-service/database"
	"github.com/shopswift/commerce-backend/services/cart-service/models"
	apperrors "github.com/shopswift/commerce-backend/services/common/errors"
	"github.com/shopswift/commerce-backend/services/common/events"
	"github.com/shopswift/commerce-backend/services/common/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	MsgCartNotFound      = "Cart not found"
	MsgProductNotInCart  = "Product not found in cart"
	MsgInsufficientStock = "Insufficient stock"
)

type CartStore interface {
	FindByBuyer(ctx context.Context, buyer models.Ref) (*models.Cart, error)
	UpdateItemQuantity(ctx context.Context, cartID primitive.ObjectID, product models.Ref, quantity int, at time.Time) error
}

type ProductReader interface {
	FindSummaries(ctx context.Context, refs []models.Ref) (map[models.Ref]*models.ProductSummary, error)
}

// ICartService is what the HTTP layer needs.
type ICartService interface {
	UpdateItemQuantity(ctx context.Context, buyerID, productID string, quantity int) (*models.PopulatedCart, error)
}

type CartService struct {
	carts        CartStore
	products     ProductReader
	publisher    events.Publisher
	enforceStock bool
	now          func() time.Time
}

type Option func(*CartService)

// WithStockEnforcement rejects quantities above the product's stock.
func WithStockEnforcement(enabled bool) Option {
	return func(s *CartService) { s.enforceStock = enabled }
}

func WithClock(now func() time.Time) Option {
	return func(s *CartService) { s.now = now }
}

func NewCartService(carts CartStore, products ProductReader, publisher events.Publisher, opts ...Option) *CartService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	s := &CartService{
		carts:     carts,
		products:  products,
		publisher: publisher,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ItemQuantityUpdated is the payload of cart.item_quantity_updated.
type ItemQuantityUpdated struct {
	CartID           string `json:"cart_id"`
	BuyerID          string `json:"buyer_id"`
	ProductID        string `json:"product_id"`
	PreviousQuantity int    `json:"previous_quantity"`
	Quantity         int    `json:"quantity"`
}

// UpdateItemQuantity sets the quantity of productID in the buyer's cart and
// returns the cart with products expanded. quantity must already be >= 1.
func (s *CartService) UpdateItemQuantity(ctx context.Context, buyerID, productID string, quantity int) (*models.PopulatedCart, error) {
	buyer := models.NewRef(buyerID)
	product := models.NewRef(productID)

	cart, err := s.carts.FindByBuyer(ctx, buyer)
	if errors.Is(err, database.ErrCartNotFound) {
		return nil, apperrors.NotFound(MsgCartNotFound)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	idx := cart.FindItem(product)
	if idx < 0 {
		return nil, apperrors.NotFound(MsgProductNotInCart)
	}

	if s.enforceStock {
		summaries, err := s.products.FindSummaries(ctx, []models.Ref{product})
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if p, ok := summaries[product]; ok && p.Stock < quantity {
			return nil, apperrors.BadRequest(MsgInsufficientStock)
		}
	}

	previous := cart.Items[idx].Quantity
	at := s.now().UTC()
	// The stored spelling of the ref is what the positional filter must hit.
	err = s.carts.UpdateItemQuantity(ctx, cart.ID, cart.Items[idx].Product, quantity, at)
	if errors.Is(err, database.ErrItemNotFound) {
		return nil, apperrors.NotFound(MsgProductNotInCart)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	cart.Items[idx].Quantity = quantity
	cart.UpdatedAt = at

	summaries, err := s.products.FindSummaries(ctx, cart.ProductRefs())
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	event := events.NewEvent(events.CartItemQuantityUpdated, buyer.String(), ItemQuantityUpdated{
		CartID:           cart.ID.Hex(),
		BuyerID:          buyer.String(),
		ProductID:        product.String(),
		PreviousQuantity: previous,
		Quantity:         quantity,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn(ctx, "failed to publish cart event", zap.String("event_type", event.Type), zap.Error(err))
	}

	logger.Info(ctx, "cart item quantity updated",
		zap.String("cart_id", cart.ID.Hex()),
		zap.String("product_id", product.String()),
		zap.Int("quantity", quantity),
	)
	return cart.Populate(summaries), nil
}
