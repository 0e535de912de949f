package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hatef97/office-supplies-website/internal/models"
)

// OrderScope limits order queries to one customer. A nil CustomerID sees every order.
type OrderScope struct {
	CustomerID *uint
}

func (s OrderScope) apply(db *gorm.DB) *gorm.DB {
	if s.CustomerID != nil {
		return db.Where("customer_id = ?", *s.CustomerID)
	}
	return db
}

func preloadOrderItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Preload("Items.Product")
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

// CreateOrderItems inserts all items in a single statement.
func (r *GormRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(&items).Error
}

func (r *GormRepo) ListOrders(ctx context.Context, scope OrderScope, offset, limit int) ([]models.Order, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Scopes(scope.apply).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Scopes(scope.apply, preloadOrderItems).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, scope OrderScope, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Scopes(scope.apply, preloadOrderItems).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uint, status string) error {
	return notFoundIfNone(r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status))
}

// DeleteOrder removes the order and its items. It must run inside a transaction.
func (r *GormRepo) DeleteOrder(ctx context.Context, id uint) error {
	tx := r.DB.WithContext(ctx)
	if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	return notFoundIfNone(tx.Delete(&models.Order{}, id))
}

func (r *GormRepo) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}
