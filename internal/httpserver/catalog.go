package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hatef97/office-supplies-website/internal/service"
	"github.com/hatef97/office-supplies-website/internal/transport"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func categoryResponse(v *service.CategoryView) transport.CategoryResponse {
	return transport.NewCategoryResponse(&v.Category, v.NumOfProducts)
}

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	l := handlerLogger(c, "categories.list")

	views, err := h.Svc.ListCategories(c.Request().Context())
	if err != nil {
		return fail(l, "list_categories_error", err)
	}
	out := make([]transport.CategoryResponse, 0, len(views))
	for i := range views {
		out = append(out, categoryResponse(&views[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHTTP) GetCategory(c echo.Context) error {
	l := handlerLogger(c, "categories.get")

	id, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "get_category_error", err)
	}
	v, err := h.Svc.GetCategory(c.Request().Context(), id)
	if err != nil {
		return fail(l, "get_category_error", err)
	}
	return c.JSON(http.StatusOK, categoryResponse(v))
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	l := handlerLogger(c, "categories.create")

	var req transport.CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "create_category_error", err)
	}
	v, err := h.Svc.CreateCategory(c.Request().Context(), req)
	if err != nil {
		return fail(l, "create_category_error", err)
	}

	l.Info().Uint("category_id", v.Category.ID).Msg("create_category_success")
	return c.JSON(http.StatusCreated, categoryResponse(v))
}

func (h *CatalogHTTP) UpdateCategory(c echo.Context) error {
	l := handlerLogger(c, "categories.update")

	id, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "update_category_error", err)
	}
	var req transport.CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "update_category_error", err)
	}
	v, err := h.Svc.UpdateCategory(c.Request().Context(), id, req)
	if err != nil {
		return fail(l, "update_category_error", err)
	}
	return c.JSON(http.StatusOK, categoryResponse(v))
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	l := handlerLogger(c, "categories.delete")

	id, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "delete_category_error", err)
	}
	if err := h.Svc.DeleteCategory(c.Request().Context(), id); err != nil {
		return fail(l, "delete_category_error", err)
	}

	l.Info().Uint("category_id", id).Msg("delete_category_success")
	return c.NoContent(http.StatusNoContent)
}

func productQuery(c echo.Context) service.ProductQuery {
	page, size := pageParams(c)
	q := service.ProductQuery{
		Page:     page,
		Size:     size,
		Ordering: c.QueryParam("ordering"),
		Search:   c.QueryParam("search"),
	}
	if raw := c.QueryParam("category_id"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
			id := uint(v)
			q.CategoryID = &id
		}
	}
	return q
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	l := handlerLogger(c, "products.list")

	items, meta, err := h.Svc.ListProducts(c.Request().Context(), productQuery(c))
	if err != nil {
		return fail(l, "list_products_error", err)
	}
	return c.JSON(http.StatusOK, transport.Page[transport.ProductResponse]{
		Data: transport.NewProductResponses(items),
		Meta: meta,
	})
}

func (h *CatalogHTTP) ListCategoryProducts(c echo.Context) error {
	l := handlerLogger(c, "categories.products")

	categoryID, err := pathUint(c, "category_id")
	if err != nil {
		return fail(l, "list_category_products_error", err)
	}
	items, meta, err := h.Svc.ProductsInCategory(c.Request().Context(), categoryID, productQuery(c))
	if err != nil {
		return fail(l, "list_category_products_error", err)
	}
	return c.JSON(http.StatusOK, transport.Page[transport.ProductResponse]{
		Data: transport.NewProductResponses(items),
		Meta: meta,
	})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	l := handlerLogger(c, "products.get")

	id, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "get_product_error", err)
	}
	p, err := h.Svc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return fail(l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewProductResponse(p))
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	l := handlerLogger(c, "products.create")

	var req transport.CreateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "create_product_error", err)
	}
	p, err := h.Svc.CreateProduct(c.Request().Context(), req)
	if err != nil {
		return fail(l, "create_product_error", err)
	}

	l.Info().Uint("product_id", p.ID).Msg("create_product_success")
	return c.JSON(http.StatusCreated, transport.NewProductResponse(p))
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	l := handlerLogger(c, "products.patch")

	id, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "patch_product_error", err)
	}
	var req transport.PatchProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "patch_product_error", err)
	}
	p, err := h.Svc.UpdateProduct(c.Request().Context(), id, req)
	if err != nil {
		return fail(l, "patch_product_error", err)
	}

	l.Info().Uint("product_id", p.ID).Msg("patch_product_success")
	return c.JSON(http.StatusOK, transport.NewProductResponse(p))
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	l := handlerLogger(c, "products.delete")

	id, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "delete_product_error", err)
	}
	if err := h.Svc.DeleteProduct(c.Request().Context(), id); err != nil {
		return fail(l, "delete_product_error", err)
	}

	l.Info().Uint("product_id", id).Msg("delete_product_success")
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) ListDiscounts(c echo.Context) error {
	l := handlerLogger(c, "discounts.list")

	items, err := h.Svc.ListDiscounts(c.Request().Context())
	if err != nil {
		return fail(l, "list_discounts_error", err)
	}
	out := make([]transport.DiscountResponse, 0, len(items))
	for i := range items {
		out = append(out, transport.NewDiscountResponse(&items[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHTTP) GetDiscount(c echo.Context) error {
	l := handlerLogger(c, "discounts.get")

	id, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "get_discount_error", err)
	}
	d, err := h.Svc.GetDiscount(c.Request().Context(), id)
	if err != nil {
		return fail(l, "get_discount_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewDiscountResponse(d))
}

func (h *CatalogHTTP) CreateDiscount(c echo.Context) error {
	l := handlerLogger(c, "discounts.create")

	var req transport.DiscountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "create_discount_error", err)
	}
	d, err := h.Svc.CreateDiscount(c.Request().Context(), req)
	if err != nil {
		return fail(l, "create_discount_error", err)
	}
	return c.JSON(http.StatusCreated, transport.NewDiscountResponse(d))
}

func (h *CatalogHTTP) UpdateDiscount(c echo.Context) error {
	l := handlerLogger(c, "discounts.update")

	id, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "update_discount_error", err)
	}
	var req transport.DiscountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "update_discount_error", err)
	}
	d, err := h.Svc.UpdateDiscount(c.Request().Context(), id, req)
	if err != nil {
		return fail(l, "update_discount_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewDiscountResponse(d))
}

func (h *CatalogHTTP) DeleteDiscount(c echo.Context) error {
	l := handlerLogger(c, "discounts.delete")

	id, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "delete_discount_error", err)
	}
	if err := h.Svc.DeleteDiscount(c.Request().Context(), id); err != nil {
		return fail(l, "delete_discount_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
