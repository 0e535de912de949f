package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hatef97/office-supplies-website/internal/service"
	"github.com/hatef97/office-supplies-website/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) CreateCart(c echo.Context) error {
	l := handlerLogger(c, "carts.create")

	cart, err := h.Svc.CreateCart(c.Request().Context())
	if err != nil {
		return fail(l, "create_cart_error", err)
	}

	l.Info().Str("cart_id", cart.ID.String()).Msg("create_cart_success")
	return c.JSON(http.StatusCreated, transport.NewCartResponse(cart))
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	l := handlerLogger(c, "carts.get")

	cartID, err := pathCartID(c)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	cart, err := h.Svc.GetCart(c.Request().Context(), cartID)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewCartResponse(cart))
}

func (h *CartHTTP) DeleteCart(c echo.Context) error {
	l := handlerLogger(c, "carts.delete")

	cartID, err := pathCartID(c)
	if err != nil {
		return fail(l, "delete_cart_error", err)
	}
	if err := h.Svc.DeleteCart(c.Request().Context(), cartID); err != nil {
		return fail(l, "delete_cart_error", err)
	}

	l.Info().Str("cart_id", cartID.String()).Msg("delete_cart_success")
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) ListItems(c echo.Context) error {
	l := handlerLogger(c, "cart_items.list")

	cartID, err := pathCartID(c)
	if err != nil {
		return fail(l, "list_cart_items_error", err)
	}
	items, err := h.Svc.ListItems(c.Request().Context(), cartID)
	if err != nil {
		return fail(l, "list_cart_items_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewCartItemResponses(items))
}

// AddItem answers 201 whether the line was created or merged into an existing one.
func (h *CartHTTP) AddItem(c echo.Context) error {
	l := handlerLogger(c, "cart_items.add")

	cartID, err := pathCartID(c)
	if err != nil {
		return fail(l, "add_cart_item_error", err)
	}
	var req transport.AddCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "add_cart_item_error", err)
	}
	item, err := h.Svc.AddItem(c.Request().Context(), cartID, req)
	if err != nil {
		return fail(l, "add_cart_item_error", err)
	}

	l.Info().Str("cart_id", cartID.String()).Uint("product_id", item.ProductID).Int("quantity", item.Quantity).Msg("add_cart_item_success")
	return c.JSON(http.StatusCreated, transport.NewCartItemResponse(item))
}

func (h *CartHTTP) GetItem(c echo.Context) error {
	l := handlerLogger(c, "cart_items.get")

	cartID, err := pathCartID(c)
	if err != nil {
		return fail(l, "get_cart_item_error", err)
	}
	itemID, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "get_cart_item_error", err)
	}
	item, err := h.Svc.GetItem(c.Request().Context(), cartID, itemID)
	if err != nil {
		return fail(l, "get_cart_item_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewCartItemResponse(item))
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	l := handlerLogger(c, "cart_items.update")

	cartID, err := pathCartID(c)
	if err != nil {
		return fail(l, "update_cart_item_error", err)
	}
	itemID, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "update_cart_item_error", err)
	}
	var req transport.UpdateCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "update_cart_item_error", err)
	}
	item, err := h.Svc.UpdateItem(c.Request().Context(), cartID, itemID, *req.Quantity)
	if err != nil {
		return fail(l, "update_cart_item_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewCartItemResponse(item))
}

func (h *CartHTTP) DeleteItem(c echo.Context) error {
	l := handlerLogger(c, "cart_items.delete")

	cartID, err := pathCartID(c)
	if err != nil {
		return fail(l, "delete_cart_item_error", err)
	}
	itemID, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "delete_cart_item_error", err)
	}
	if err := h.Svc.DeleteItem(c.Request().Context(), cartID, itemID); err != nil {
		return fail(l, "delete_cart_item_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
