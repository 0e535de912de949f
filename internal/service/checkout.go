package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hatef97/office-supplies-website/internal/apperr"
	"github.com/hatef97/office-supplies-website/internal/db"
	"github.com/hatef97/office-supplies-website/internal/logging"
	"github.com/hatef97/office-supplies-website/internal/metrics"
	"github.com/hatef97/office-supplies-website/internal/models"
	"github.com/hatef97/office-supplies-website/internal/mykafka"
	"github.com/hatef97/office-supplies-website/internal/repo"
)

const (
	MsgCartNotFound = "There is no cart with this cart id!"
	MsgCartEmpty    = "Your cart is empty. Please add some products to it first!"
)

var (
	ErrCartNotFound = apperr.New(apperr.CodeValidation, MsgCartNotFound)
	ErrCartEmpty    = apperr.New(apperr.CodeValidation, MsgCartEmpty)
)

type CheckoutService struct {
	Repo      *repo.GormRepo
	Publisher EventPublisher
	Metrics   *metrics.Metrics
}

// Checkout turns the cart into an unpaid order owned by the caller's customer
// profile. Everything happens in one transaction: the order, its items priced
// at the current product price, and the deletion of the cart. Products and
// stock are never modified.
//
// Of two concurrent checkouts of the same cart only one can delete the cart row;
// the other fails with ErrCartNotFound and rolls back.
func (s *CheckoutService) Checkout(ctx context.Context, userID uint, cartID uuid.UUID) (*models.Order, error) {
	start := time.Now()

	var order *models.Order
	err := db.WithTx(ctx, s.Repo.DB, func(tx *gorm.DB) error {
		r := s.Repo.WithTx(tx)

		if _, err := r.LockCart(ctx, cartID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return cartNotFound()
			}
			return fmt.Errorf("lock cart: %w", err)
		}

		items, err := r.CartItems(ctx, cartID)
		if err != nil {
			return fmt.Errorf("load cart items: %w", err)
		}
		if len(items) == 0 {
			return apperr.Field("cart_id", MsgCartEmpty)
		}

		customer, err := r.CustomerByUserID(ctx, userID)
		if err != nil {
			return apperr.Internal(err, fmt.Sprintf("no customer profile for user %d", userID))
		}

		o := &models.Order{CustomerID: customer.ID, Status: models.OrderStatusUnpaid}
		if err := r.CreateOrder(ctx, o); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		orderItems := make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			if it.Product == nil {
				return fmt.Errorf("cart item %d has no product %d", it.ID, it.ProductID)
			}
			orderItems = append(orderItems, models.OrderItem{
				OrderID:   o.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     it.Product.Price,
			})
		}
		if err := r.CreateOrderItems(ctx, orderItems); err != nil {
			return fmt.Errorf("create order items: %w", err)
		}

		deleted, err := r.DeleteCart(ctx, cartID)
		if err != nil {
			return fmt.Errorf("delete cart: %w", err)
		}
		if deleted != 1 {
			return cartNotFound()
		}

		for i := range orderItems {
			orderItems[i].Product = items[i].Product
		}
		o.Items = orderItems
		order = o
		return nil
	})

	s.Metrics.ObserveCheckout(checkoutResult(err), time.Since(start), len(itemsOf(order)))
	if err != nil {
		return nil, wrapInternal(err, "checkout")
	}

	logging.FromContext(ctx).Info().
		Uint("order_id", order.ID).
		Uint("customer_id", order.CustomerID).
		Int("items", len(order.Items)).
		Msg("checkout_completed")

	publish(ctx, s.Publisher, mykafka.TopicOrderEvents, strconv.FormatUint(uint64(order.ID), 10), map[string]any{
		"type":        "order_created",
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
		"cart_id":     cartID.String(),
		"items":       len(order.Items),
		"total":       orderTotal(order).StringFixed(2),
	})

	return order, nil
}

func cartNotFound() error {
	return apperr.Field("cart_id", MsgCartNotFound)
}

func checkoutResult(err error) string {
	switch {
	case err == nil:
		return metrics.CheckoutSucceeded
	case errors.Is(err, ErrCartNotFound):
		return metrics.CheckoutCartMissing
	case errors.Is(err, ErrCartEmpty):
		return metrics.CheckoutCartEmpty
	default:
		return metrics.CheckoutFailed
	}
}

func itemsOf(o *models.Order) []models.OrderItem {
	if o == nil {
		return nil
	}
	return o.Items
}

func orderTotal(o *models.Order) decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
