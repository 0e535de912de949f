package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hatef97/office-supplies-website/internal/service"
	"github.com/hatef97/office-supplies-website/internal/tokens"
	"github.com/hatef97/office-supplies-website/internal/transport"
)

type AccountHTTP struct {
	Svc *service.AccountService
}

func (h *AccountHTTP) Register(c echo.Context) error {
	l := handlerLogger(c, "auth.register")

	var req transport.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "register_error", err)
	}
	user, err := h.Svc.Register(c.Request().Context(), req)
	if err != nil {
		return fail(l, "register_error", err)
	}

	l.Info().Uint("user_id", user.ID).Msg("register_success")
	return c.JSON(http.StatusCreated, transport.NewUserResponse(user))
}

// Login returns the access token in the body and also sets it as a cookie.
func (h *AccountHTTP) Login(c echo.Context) error {
	l := handlerLogger(c, "auth.login")

	var req transport.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "login_error", err)
	}
	res, err := h.Svc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return fail(l, "login_failed", err)
	}

	c.SetCookie(tokens.AccessCookie(res.AccessToken, res.AccessExp))
	l.Info().Bool("is_admin", res.IsAdmin).Msg("login_successful")
	return c.JSON(http.StatusOK, transport.TokenResponse{Access: res.AccessToken, ExpiresAt: res.AccessExp})
}

func (h *AccountHTTP) Me(c echo.Context) error {
	l := handlerLogger(c, "auth.me")

	actor, err := actorOf(c)
	if err != nil {
		return fail(l, "me_error", err)
	}
	customer, err := h.Svc.Me(c.Request().Context(), actor.UserID)
	if err != nil {
		return fail(l, "me_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(customer.User))
}

func (h *AccountHTTP) GetCustomerMe(c echo.Context) error {
	l := handlerLogger(c, "customers.me")

	actor, err := actorOf(c)
	if err != nil {
		return fail(l, "get_customer_error", err)
	}
	customer, err := h.Svc.Me(c.Request().Context(), actor.UserID)
	if err != nil {
		return fail(l, "get_customer_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewCustomerResponse(customer))
}

func (h *AccountHTTP) UpdateCustomerMe(c echo.Context) error {
	l := handlerLogger(c, "customers.me.update")

	actor, err := actorOf(c)
	if err != nil {
		return fail(l, "update_customer_error", err)
	}
	var req transport.UpdateCustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "update_customer_error", err)
	}
	customer, err := h.Svc.UpdateMe(c.Request().Context(), actor.UserID, req)
	if err != nil {
		return fail(l, "update_customer_error", err)
	}

	l.Info().Uint("customer_id", customer.ID).Msg("update_customer_success")
	return c.JSON(http.StatusOK, transport.NewCustomerResponse(customer))
}

func (h *AccountHTTP) ListCustomers(c echo.Context) error {
	l := handlerLogger(c, "customers.list")

	actor, err := actorOf(c)
	if err != nil {
		return fail(l, "list_customers_error", err)
	}
	page, size := pageParams(c)
	items, meta, err := h.Svc.ListCustomers(c.Request().Context(), actor, page, size)
	if err != nil {
		return fail(l, "list_customers_error", err)
	}

	out := make([]transport.CustomerResponse, 0, len(items))
	for i := range items {
		out = append(out, transport.NewCustomerResponse(&items[i]))
	}
	return c.JSON(http.StatusOK, transport.Page[transport.CustomerResponse]{Data: out, Meta: meta})
}
