package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hatef97/office-supplies-website/internal/apperr"
	"github.com/hatef97/office-supplies-website/internal/db"
	"github.com/hatef97/office-supplies-website/internal/es"
	"github.com/hatef97/office-supplies-website/internal/logging"
	"github.com/hatef97/office-supplies-website/internal/models"
	"github.com/hatef97/office-supplies-website/internal/mykafka"
	"github.com/hatef97/office-supplies-website/internal/repo"
	"github.com/hatef97/office-supplies-website/internal/transport"
	"github.com/hatef97/office-supplies-website/internal/util"
)

const (
	MsgCategoryTooShort    = "Category title should be at least 3."
	MsgCategoryHasProducts = "There is some products relating this category. Please remove them first."
	MsgNegativePrice       = "Price cannot be negative."
	MsgNegativeStock       = "Stock cannot be negative."
	MsgProductInOrders     = "Product cannot be deleted because it is associated with an order item."
	msgDiscountRange       = "Ensure this value is between 0 and 100."
)

var (
	hundred = decimal.NewFromInt(100)

	orderingColumns = map[string]string{
		"id":         "id",
		"name":       "name",
		"price":      "price",
		"stock":      "stock",
		"created_at": "created_at",
	}
)

type CatalogService struct {
	Repo      *repo.GormRepo
	Publisher EventPublisher
	// Search is optional; without it search falls back to a name match in the database.
	Search ProductIndexer
}

type CategoryView struct {
	Category      models.Category
	NumOfProducts int64
}

type ProductQuery struct {
	Page       int
	Size       int
	Ordering   string
	CategoryID *uint
	Search     string
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]CategoryView, error) {
	cats, err := s.Repo.ListCategories(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list categories")
	}
	counts, err := s.Repo.ProductCountsByCategory(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "count products")
	}

	out := make([]CategoryView, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryView{Category: c, NumOfProducts: counts[c.ID]})
	}
	return out, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*CategoryView, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Category", "get category")
	}
	counts, err := s.Repo.ProductCountsByCategory(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "count products")
	}
	return &CategoryView{Category: *c, NumOfProducts: counts[id]}, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CategoryRequest) (*CategoryView, error) {
	if err := validateCategory(req); err != nil {
		return nil, err
	}
	c := &models.Category{Name: strings.TrimSpace(req.Name), Description: req.Description}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		return nil, categoryWriteError(err)
	}
	return &CategoryView{Category: *c}, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, req transport.CategoryRequest) (*CategoryView, error) {
	if err := validateCategory(req); err != nil {
		return nil, err
	}
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Category", "get category")
	}
	c.Name = strings.TrimSpace(req.Name)
	c.Description = req.Description
	if err := s.Repo.SaveCategory(ctx, c); err != nil {
		return nil, categoryWriteError(err)
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory refuses while any product still references the category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.Repo.GetCategory(ctx, id); err != nil {
		return notFoundOr(err, "Category", "get category")
	}
	counts, err := s.Repo.ProductCountsByCategory(ctx, id)
	if err != nil {
		return apperr.Internal(err, "count products")
	}
	if counts[id] > 0 {
		return apperr.Conflict(MsgCategoryHasProducts)
	}
	if err := s.Repo.DeleteCategory(ctx, id); err != nil {
		if db.IsForeignKeyViolation(err) {
			return apperr.Conflict(MsgCategoryHasProducts)
		}
		return notFoundOr(err, "Category", "delete category")
	}
	return nil
}

func validateCategory(req transport.CategoryRequest) error {
	if len([]rune(strings.TrimSpace(req.Name))) < 3 {
		return apperr.Field("name", MsgCategoryTooShort)
	}
	return nil
}

func categoryWriteError(err error) error {
	if db.IsUniqueViolation(err) {
		return apperr.Field("name", "category with this name already exists.")
	}
	return apperr.Internal(err, "save category")
}

func (s *CatalogService) ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, util.PageMeta, error) {
	offset, limit := util.Calculate(q.Page, q.Size)
	search := strings.TrimSpace(q.Search)

	if search != "" && s.Search != nil {
		items, total, err := s.searchIndex(ctx, search, q.CategoryID, offset, limit)
		if err == nil {
			return items, util.NewPageMeta(q.Page, offset, limit, total), nil
		}
		logging.FromContext(ctx).Warn().Err(err).Msg("product_search_fallback")
	}

	items, total, err := s.Repo.ListProducts(ctx, repo.ProductFilter{
		CategoryID: q.CategoryID,
		NameLike:   search,
		OrderBy:    parseOrdering(q.Ordering),
		Offset:     offset,
		Limit:      limit,
	})
	if err != nil {
		return nil, util.PageMeta{}, apperr.Internal(err, "list products")
	}
	return items, util.NewPageMeta(q.Page, offset, limit, total), nil
}

// searchIndex keeps index relevance order. A category filter is applied to the
// returned page only.
func (s *CatalogService) searchIndex(ctx context.Context, query string, categoryID *uint, offset, limit int) ([]models.Product, int64, error) {
	ids, total, err := s.Search.SearchProductIDs(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	if categoryID == nil {
		return items, total, nil
	}
	filtered := items[:0]
	for _, p := range items {
		if p.CategoryID == *categoryID {
			filtered = append(filtered, p)
		}
	}
	return filtered, total, nil
}

// parseOrdering accepts a column name with an optional "-" prefix for descending.
// Unknown columns fall back to id order.
func parseOrdering(raw string) clause.OrderByColumn {
	raw = strings.TrimSpace(raw)
	desc := strings.HasPrefix(raw, "-")
	col, ok := orderingColumns[strings.TrimPrefix(raw, "-")]
	if !ok {
		return clause.OrderByColumn{Column: clause.Column{Name: "id"}}
	}
	return clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: desc}
}

func (s *CatalogService) ProductsInCategory(ctx context.Context, categoryID uint, q ProductQuery) ([]models.Product, util.PageMeta, error) {
	if _, err := s.Repo.GetCategory(ctx, categoryID); err != nil {
		return nil, util.PageMeta{}, notFoundOr(err, "Category", "get category")
	}
	q.CategoryID = &categoryID
	return s.ListProducts(ctx, q)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Product", "get product")
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if err := validateProductFields(&req.Price, &req.Stock); err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	discounts, err := s.resolveDiscounts(ctx, req.DiscountIDs)
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Slug:        Slugify(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		Discounts:   discounts,
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, apperr.Internal(err, "create product")
	}

	created, err := s.GetProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	s.afterProductWrite(ctx, "product_created", created)
	return created, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, req transport.PatchProductRequest) (*models.Product, error) {
	if err := validateProductFields(req.Price, req.Stock); err != nil {
		return nil, err
	}

	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Product", "get product")
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
		p.Slug = Slugify(*req.Name)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.CategoryID != nil && *req.CategoryID != p.CategoryID {
		if err := s.requireCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		p.CategoryID = *req.CategoryID
		p.Category = nil
	}

	err = db.WithTx(ctx, s.Repo.DB, func(tx *gorm.DB) error {
		r := s.Repo.WithTx(tx)
		if err := r.SaveProduct(ctx, p); err != nil {
			return err
		}
		if req.DiscountIDs == nil {
			return nil
		}
		discounts, err := r.DiscountsByIDs(ctx, *req.DiscountIDs)
		if err != nil {
			return err
		}
		if len(discounts) != len(uniqueIDs(*req.DiscountIDs)) {
			return apperr.Field("discount_ids", "One or more discounts do not exist.")
		}
		return r.ReplaceProductDiscounts(ctx, p, discounts)
	})
	if err != nil {
		return nil, wrapInternal(err, "update product")
	}

	updated, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.afterProductWrite(ctx, "product_updated", updated)
	return updated, nil
}

// DeleteProduct refuses while order items reference the product. Cart lines,
// comments and discount links go with it.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	err := db.WithTx(ctx, s.Repo.DB, func(tx *gorm.DB) error {
		r := s.Repo.WithTx(tx)
		exists, err := r.ProductExists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.NotFound("Product")
		}
		n, err := r.CountOrderItemsForProduct(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperr.Conflict(MsgProductInOrders)
		}
		return r.DeleteProduct(ctx, id)
	})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return apperr.Conflict(MsgProductInOrders)
		}
		return notFoundOr(err, "Product", "delete product")
	}

	if s.Search != nil {
		if err := s.Search.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Uint("product_id", id).Msg("search_unindex_failed")
		}
	}
	publish(ctx, s.Publisher, mykafka.TopicProductEvents, strconv.FormatUint(uint64(id), 10), map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	})
	return nil
}

func (s *CatalogService) afterProductWrite(ctx context.Context, eventType string, p *models.Product) {
	if s.Search != nil {
		if err := s.Search.IndexProduct(ctx, productDocument(p)); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Uint("product_id", p.ID).Msg("search_index_failed")
		}
	}
	publish(ctx, s.Publisher, mykafka.TopicProductEvents, strconv.FormatUint(uint64(p.ID), 10), map[string]any{
		"type":       eventType,
		"product_id": p.ID,
		"name":       p.Name,
		"price":      p.Price.StringFixed(2),
	})
}

func productDocument(p *models.Product) es.ProductDocument {
	doc := es.ProductDocument{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		CategoryID:  p.CategoryID,
	}
	if p.Category != nil {
		doc.CategoryName = p.Category.Name
	}
	return doc
}

func validateProductFields(price *decimal.Decimal, stock *int) error {
	var verr *apperr.Error
	add := func(field, msg string) {
		if verr == nil {
			verr = apperr.Field(field, msg)
			return
		}
		verr.WithDetail(field, msg)
	}
	if price != nil && price.IsNegative() {
		add("price", MsgNegativePrice)
	}
	if stock != nil && *stock < 0 {
		add("stock", MsgNegativeStock)
	}
	if verr != nil {
		return verr
	}
	return nil
}

func (s *CatalogService) requireCategory(ctx context.Context, id uint) error {
	if _, err := s.Repo.GetCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Field("category_id", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
		}
		return apperr.Internal(err, "get category")
	}
	return nil
}

func (s *CatalogService) resolveDiscounts(ctx context.Context, ids []uint) ([]models.Discount, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	discounts, err := s.Repo.DiscountsByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err, "load discounts")
	}
	if len(discounts) != len(uniqueIDs(ids)) {
		return nil, apperr.Field("discount_ids", "One or more discounts do not exist.")
	}
	return discounts, nil
}

func uniqueIDs(ids []uint) map[uint]struct{} {
	out := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

// Slugify lowercases s and joins its letter and digit runs with dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func (s *CatalogService) ListDiscounts(ctx context.Context) ([]models.Discount, error) {
	items, err := s.Repo.ListDiscounts(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list discounts")
	}
	return items, nil
}

func (s *CatalogService) GetDiscount(ctx context.Context, id uint) (*models.Discount, error) {
	d, err := s.Repo.GetDiscount(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Discount", "get discount")
	}
	return d, nil
}

func (s *CatalogService) CreateDiscount(ctx context.Context, req transport.DiscountRequest) (*models.Discount, error) {
	if err := validateDiscount(req); err != nil {
		return nil, err
	}
	d := &models.Discount{Discount: req.Discount, Description: req.Description}
	if err := s.Repo.CreateDiscount(ctx, d); err != nil {
		return nil, apperr.Internal(err, "create discount")
	}
	return d, nil
}

func (s *CatalogService) UpdateDiscount(ctx context.Context, id uint, req transport.DiscountRequest) (*models.Discount, error) {
	if err := validateDiscount(req); err != nil {
		return nil, err
	}
	d, err := s.GetDiscount(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Discount = req.Discount
	d.Description = req.Description
	if err := s.Repo.SaveDiscount(ctx, d); err != nil {
		return nil, apperr.Internal(err, "update discount")
	}
	return d, nil
}

func (s *CatalogService) DeleteDiscount(ctx context.Context, id uint) error {
	err := db.WithTx(ctx, s.Repo.DB, func(tx *gorm.DB) error {
		return s.Repo.WithTx(tx).DeleteDiscount(ctx, id)
	})
	if err != nil {
		return notFoundOr(err, "Discount", "delete discount")
	}
	return nil
}

func validateDiscount(req transport.DiscountRequest) error {
	if req.Discount.IsNegative() || req.Discount.GreaterThan(hundred) {
		return apperr.Field("discount", msgDiscountRange)
	}
	return nil
}
