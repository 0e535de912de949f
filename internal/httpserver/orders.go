package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hatef97/office-supplies-website/internal/apperr"
	"github.com/hatef97/office-supplies-website/internal/service"
	"github.com/hatef97/office-supplies-website/internal/transport"
)

type OrderHTTP struct {
	Orders   *service.OrderService
	Checkout *service.CheckoutService
}

// CreateOrder checks out the cart named in the body for the authenticated caller.
func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	l := handlerLogger(c, "orders.checkout")

	actor, err := actorOf(c)
	if err != nil {
		return fail(l, "checkout_error", err)
	}
	var req transport.CheckoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "checkout_error", err)
	}
	cartID, err := uuid.Parse(req.CartID)
	if err != nil {
		return fail(l, "checkout_error", apperr.Field("cart_id", msgInvalidUUID))
	}

	order, err := h.Checkout.Checkout(c.Request().Context(), actor.UserID, cartID)
	if err != nil {
		return fail(l, "checkout_error", err)
	}

	l.Info().Uint("order_id", order.ID).Str("cart_id", cartID.String()).Msg("checkout_success")
	return c.JSON(http.StatusCreated, transport.NewOrderResponse(order))
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	l := handlerLogger(c, "orders.list")

	actor, err := actorOf(c)
	if err != nil {
		return fail(l, "list_orders_error", err)
	}
	page, size := pageParams(c)
	items, meta, err := h.Orders.List(c.Request().Context(), actor, page, size)
	if err != nil {
		return fail(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, transport.Page[transport.OrderResponse]{
		Data: transport.NewOrderResponses(items),
		Meta: meta,
	})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	l := handlerLogger(c, "orders.get")

	actor, err := actorOf(c)
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	id, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	order, err := h.Orders.Get(c.Request().Context(), actor, id)
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewOrderResponse(order))
}

func (h *OrderHTTP) UpdateOrderStatus(c echo.Context) error {
	l := handlerLogger(c, "orders.update_status")

	actor, err := actorOf(c)
	if err != nil {
		return fail(l, "update_order_error", err)
	}
	id, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "update_order_error", err)
	}
	var req transport.OrderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "update_order_error", err)
	}
	order, err := h.Orders.UpdateStatus(c.Request().Context(), actor, id, req.Status)
	if err != nil {
		return fail(l, "update_order_error", err)
	}

	l.Info().Uint("order_id", order.ID).Str("status", order.Status).Msg("update_order_success")
	return c.JSON(http.StatusOK, transport.NewOrderResponse(order))
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	l := handlerLogger(c, "orders.delete")

	actor, err := actorOf(c)
	if err != nil {
		return fail(l, "delete_order_error", err)
	}
	id, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "delete_order_error", err)
	}
	if err := h.Orders.Delete(c.Request().Context(), actor, id); err != nil {
		return fail(l, "delete_order_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
