package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hatef97/office-supplies-website/internal/apperr"
	"github.com/hatef97/office-supplies-website/internal/db"
	"github.com/hatef97/office-supplies-website/internal/models"
	"github.com/hatef97/office-supplies-website/internal/mykafka"
	"github.com/hatef97/office-supplies-website/internal/repo"
	"github.com/hatef97/office-supplies-website/internal/transport"
)

const (
	MsgNoSuchProduct = "No product with the given ID was found."
	msgQuantityMin1  = "Ensure this value is greater than or equal to 1."
	msgQuantityMin0  = "Ensure this value is greater than or equal to 0."
)

type CartService struct {
	Repo      *repo.GormRepo
	Publisher EventPublisher
}

func (s *CartService) CreateCart(ctx context.Context) (*models.Cart, error) {
	cart := &models.Cart{ID: uuid.New()}
	if err := s.Repo.CreateCart(ctx, cart); err != nil {
		return nil, apperr.Internal(err, "create cart")
	}
	cart.Items = []models.CartItem{}

	publish(ctx, s.Publisher, mykafka.TopicCartEvents, cart.ID.String(), map[string]any{
		"type":    "cart_created",
		"cart_id": cart.ID.String(),
	})
	return cart, nil
}

func (s *CartService) GetCart(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	cart, err := s.Repo.GetCart(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Cart", "get cart")
	}
	return cart, nil
}

func (s *CartService) DeleteCart(ctx context.Context, id uuid.UUID) error {
	var deleted int64
	err := db.WithTx(ctx, s.Repo.DB, func(tx *gorm.DB) error {
		n, err := s.Repo.WithTx(tx).DeleteCart(ctx, id)
		deleted = n
		return err
	})
	if err != nil {
		return apperr.Internal(err, "delete cart")
	}
	if deleted == 0 {
		return apperr.NotFound("Cart")
	}
	return nil
}

func (s *CartService) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	if err := s.requireCart(ctx, cartID); err != nil {
		return nil, err
	}
	items, err := s.Repo.CartItems(ctx, cartID)
	if err != nil {
		return nil, apperr.Internal(err, "list cart items")
	}
	return items, nil
}

// AddItem merges the quantity into the existing line for the product or creates one.
func (s *CartService) AddItem(ctx context.Context, cartID uuid.UUID, req transport.AddCartItemRequest) (*models.CartItem, error) {
	if req.Quantity < 1 {
		return nil, apperr.Field("quantity", msgQuantityMin1)
	}
	if err := s.requireCart(ctx, cartID); err != nil {
		return nil, err
	}

	exists, err := s.Repo.ProductExists(ctx, req.ProductID)
	if err != nil {
		return nil, apperr.Internal(err, "check product")
	}
	if !exists {
		return nil, apperr.Field("product_id", MsgNoSuchProduct)
	}

	item := &models.CartItem{CartID: cartID, ProductID: req.ProductID, Quantity: req.Quantity}
	if err := s.Repo.UpsertCartItem(ctx, item); err != nil {
		// the cart or product was deleted after the checks above
		if db.IsForeignKeyViolation(err) {
			if ok, _ := s.Repo.CartExists(ctx, cartID); !ok {
				return nil, apperr.NotFound("Cart")
			}
			return nil, apperr.Field("product_id", MsgNoSuchProduct)
		}
		return nil, apperr.Internal(err, "add cart item")
	}

	publish(ctx, s.Publisher, mykafka.TopicCartEvents, cartID.String(), map[string]any{
		"type":       "cart_item_added",
		"cart_id":    cartID.String(),
		"product_id": req.ProductID,
		"added":      req.Quantity,
		"quantity":   item.Quantity,
	})
	return item, nil
}

func (s *CartService) GetItem(ctx context.Context, cartID uuid.UUID, itemID uint) (*models.CartItem, error) {
	item, err := s.Repo.GetCartItem(ctx, cartID, itemID)
	if err != nil {
		return nil, notFoundOr(err, "CartItem", "get cart item")
	}
	return item, nil
}

// UpdateItem sets an absolute quantity. Zero is allowed and keeps the line.
func (s *CartService) UpdateItem(ctx context.Context, cartID uuid.UUID, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity < 0 {
		return nil, apperr.Field("quantity", msgQuantityMin0)
	}
	if err := s.Repo.UpdateCartItemQuantity(ctx, cartID, itemID, quantity); err != nil {
		return nil, notFoundOr(err, "CartItem", "update cart item")
	}
	return s.GetItem(ctx, cartID, itemID)
}

func (s *CartService) DeleteItem(ctx context.Context, cartID uuid.UUID, itemID uint) error {
	if err := s.Repo.DeleteCartItem(ctx, cartID, itemID); err != nil {
		return notFoundOr(err, "CartItem", "delete cart item")
	}
	publish(ctx, s.Publisher, mykafka.TopicCartEvents, cartID.String(), map[string]any{
		"type":    "cart_item_removed",
		"cart_id": cartID.String(),
		"item_id": itemID,
	})
	return nil
}

func (s *CartService) requireCart(ctx context.Context, cartID uuid.UUID) error {
	ok, err := s.Repo.CartExists(ctx, cartID)
	if err != nil {
		return apperr.Internal(err, "check cart")
	}
	if !ok {
		return apperr.NotFound("Cart")
	}
	return nil
}
