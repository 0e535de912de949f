package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/hatef97/office-supplies-website/internal/apperr"
	"github.com/hatef97/office-supplies-website/internal/db"
	"github.com/hatef97/office-supplies-website/internal/models"
	"github.com/hatef97/office-supplies-website/internal/mykafka"
	"github.com/hatef97/office-supplies-website/internal/repo"
	"github.com/hatef97/office-supplies-website/internal/util"
)

type OrderService struct {
	Repo      *repo.GormRepo
	Publisher EventPublisher
}

// scopeFor limits non-staff callers to their own customer's orders.
func (s *OrderService) scopeFor(ctx context.Context, actor Actor) (repo.OrderScope, error) {
	if actor.IsStaff {
		return repo.OrderScope{}, nil
	}
	customer, err := s.Repo.CustomerByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			none := uint(0)
			return repo.OrderScope{CustomerID: &none}, nil
		}
		return repo.OrderScope{}, apperr.Internal(err, "resolve customer")
	}
	return repo.OrderScope{CustomerID: &customer.ID}, nil
}

func (s *OrderService) List(ctx context.Context, actor Actor, page, size int) ([]models.Order, util.PageMeta, error) {
	scope, err := s.scopeFor(ctx, actor)
	if err != nil {
		return nil, util.PageMeta{}, err
	}
	offset, limit := util.Calculate(page, size)
	orders, total, err := s.Repo.ListOrders(ctx, scope, offset, limit)
	if err != nil {
		return nil, util.PageMeta{}, apperr.Internal(err, "list orders")
	}
	return orders, util.NewPageMeta(page, offset, limit, total), nil
}

// Get returns not found for orders the caller may not see.
func (s *OrderService) Get(ctx context.Context, actor Actor, id uint) (*models.Order, error) {
	scope, err := s.scopeFor(ctx, actor)
	if err != nil {
		return nil, err
	}
	order, err := s.Repo.GetOrder(ctx, scope, id)
	if err != nil {
		return nil, notFoundOr(err, "Order", "get order")
	}
	return order, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, actor Actor, id uint, status string) (*models.Order, error) {
	if !actor.IsStaff {
		return nil, apperr.Forbidden()
	}
	if !models.IsValidOrderStatus(status) {
		return nil, apperr.Field("status", fmt.Sprintf("%q is not a valid choice.", status))
	}
	if err := s.Repo.UpdateOrderStatus(ctx, id, status); err != nil {
		return nil, notFoundOr(err, "Order", "update order status")
	}

	order, err := s.Repo.GetOrder(ctx, repo.OrderScope{}, id)
	if err != nil {
		return nil, notFoundOr(err, "Order", "reload order")
	}

	publish(ctx, s.Publisher, mykafka.TopicOrderEvents, strconv.FormatUint(uint64(id), 10), map[string]any{
		"type":     "order_status_changed",
		"order_id": id,
		"status":   status,
		"by":       actor.UserID,
	})
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, actor Actor, id uint) error {
	if !actor.IsStaff {
		return apperr.Forbidden()
	}
	err := db.WithTx(ctx, s.Repo.DB, func(tx *gorm.DB) error {
		return s.Repo.WithTx(tx).DeleteOrder(ctx, id)
	})
	if err != nil {
		return notFoundOr(err, "Order", "delete order")
	}

	publish(ctx, s.Publisher, mykafka.TopicOrderEvents, strconv.FormatUint(uint64(id), 10), map[string]any{
		"type":     "order_deleted",
		"order_id": id,
		"by":       actor.UserID,
	})
	return nil
}
