package repo

import (
	"context"

	"github.com/hatef97/office-supplies-website/internal/models"
)

func (r *GormRepo) ListComments(ctx context.Context, productID uint) ([]models.Comment, error) {
	var items []models.Comment
	err := r.DB.WithContext(ctx).Where("product_id = ?", productID).Order("created_at ASC, id ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetComment(ctx context.Context, productID, id uint) (*models.Comment, error) {
	var c models.Comment
	if err := r.DB.WithContext(ctx).Where("product_id = ? AND id = ?", productID, id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) CreateComment(ctx context.Context, c *models.Comment) error {
	return r.DB.WithContext(ctx).Omit("Product").Create(c).Error
}

func (r *GormRepo) UpdateCommentStatus(ctx context.Context, productID, id uint, status string) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Comment{}).
		Where("product_id = ? AND id = ?", productID, id).
		Update("status", status)
	return notFoundIfNone(res)
}

func (r *GormRepo) DeleteComment(ctx context.Context, productID, id uint) error {
	return notFoundIfNone(r.DB.WithContext(ctx).Where("product_id = ? AND id = ?", productID, id).Delete(&models.Comment{}))
}
