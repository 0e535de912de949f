package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hatef97/office-supplies-website/internal/models"
)

type ProductFilter struct {
	CategoryID *uint
	NameLike   string
	IDs        []uint
	OrderBy    clause.OrderByColumn
	Offset     int
	Limit      int
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var items []models.Category
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ProductCountsByCategory maps category id to its number of products.
func (r *GormRepo) ProductCountsByCategory(ctx context.Context, ids ...uint) (map[uint]int64, error) {
	var rows []struct {
		CategoryID uint
		Count      int64
	}
	q := r.DB.WithContext(ctx).Model(&models.Product{}).Select("category_id, COUNT(*) AS count").Group("category_id")
	if len(ids) > 0 {
		q = q.Where("category_id IN ?", ids)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[uint]int64, len(rows))
	for _, row := range rows {
		out[row.CategoryID] = row.Count
	}
	return out, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) SaveCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	return notFoundIfNone(r.DB.WithContext(ctx).Delete(&models.Category{}, id))
}

func (f ProductFilter) scope(db *gorm.DB) *gorm.DB {
	if f.CategoryID != nil {
		db = db.Where("category_id = ?", *f.CategoryID)
	}
	if f.NameLike != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.NameLike)+"%")
	}
	if f.IDs != nil {
		db = db.Where("id IN ?", f.IDs)
	}
	return db
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Scopes(f.scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := f.OrderBy
	if order.Column.Name == "" {
		order = clause.OrderByColumn{Column: clause.Column{Name: "id"}}
	}

	var items []models.Product
	err := r.DB.WithContext(ctx).
		Scopes(f.scope).
		Preload("Category").
		Preload("Discounts").
		Order(order).
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ProductsByIDs keeps the order of ids; missing ids are skipped.
func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var items []models.Product
	if err := r.DB.WithContext(ctx).Preload("Category").Preload("Discounts").Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Product, len(items))
	for _, p := range items {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(items))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Preload("Category").Preload("Discounts").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) ProductExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Omit("Category", "Discounts.*").Create(p).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *GormRepo) ReplaceProductDiscounts(ctx context.Context, p *models.Product, discounts []models.Discount) error {
	return r.DB.WithContext(ctx).Model(p).Association("Discounts").Replace(discounts)
}

func (r *GormRepo) CountOrderItemsForProduct(ctx context.Context, productID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.OrderItem{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}

// DeleteProduct removes the product with its cart lines, comments and discount links.
// It must run inside a transaction.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	tx := r.DB.WithContext(ctx)
	if err := tx.Model(&models.Product{ID: id}).Association("Discounts").Clear(); err != nil {
		return err
	}
	if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("product_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	return notFoundIfNone(tx.Delete(&models.Product{}, id))
}

func (r *GormRepo) ListDiscounts(ctx context.Context) ([]models.Discount, error) {
	var items []models.Discount
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) DiscountsByIDs(ctx context.Context, ids []uint) ([]models.Discount, error) {
	var items []models.Discount
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetDiscount(ctx context.Context, id uint) (*models.Discount, error) {
	var d models.Discount
	if err := r.DB.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormRepo) CreateDiscount(ctx context.Context, d *models.Discount) error {
	return r.DB.WithContext(ctx).Create(d).Error
}

func (r *GormRepo) SaveDiscount(ctx context.Context, d *models.Discount) error {
	return r.DB.WithContext(ctx).Save(d).Error
}

func (r *GormRepo) DeleteDiscount(ctx context.Context, id uint) error {
	tx := r.DB.WithContext(ctx)
	if err := tx.Exec("DELETE FROM product_discounts WHERE discount_id = ?", id).Error; err != nil {
		return err
	}
	return notFoundIfNone(tx.Delete(&models.Discount{}, id))
}
