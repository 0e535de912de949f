package httpserver

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hatef97/office-supplies-website/internal/apperr"
	"github.com/hatef97/office-supplies-website/internal/logging"
	authmw "github.com/hatef97/office-supplies-website/internal/middleware/auth"
	"github.com/hatef97/office-supplies-website/internal/service"
	"github.com/hatef97/office-supplies-website/internal/util"
)

const msgInvalidUUID = "Must be a valid UUID."

func handlerLogger(c echo.Context, name string) zerolog.Logger {
	return logging.FromContext(c.Request().Context()).With().Str("handler", name).Logger()
}

// fail logs the error at a level matching its status and hands it to the error handler.
func fail(l zerolog.Logger, event string, err error) error {
	status := StatusOf(err)
	if status >= 500 {
		l.Error().Err(err).Int("status", status).Msg(event)
	} else {
		l.Warn().Err(err).Int("status", status).Msg(event)
	}
	return err
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperr.Wrap(apperr.CodeValidation, err, "Invalid request body.")
	}
	return c.Validate(req)
}

func pathUint(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, apperr.NotFound("object")
	}
	return uint(v), nil
}

// pathCartID treats a malformed cart id in the path like an unknown cart.
func pathCartID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("cart_id"))
	if err != nil {
		return uuid.Nil, apperr.NotFound("Cart")
	}
	return id, nil
}

func actorOf(c echo.Context) (service.Actor, error) {
	id, ok := authmw.UserID(c)
	if !ok {
		return service.Actor{}, apperr.Unauthorized("Authentication credentials were not provided.")
	}
	return service.Actor{UserID: id, IsStaff: authmw.IsStaff(c)}, nil
}

func pageParams(c echo.Context) (page, size int) {
	page = util.ParseIntDefault(c.QueryParam("page"), 1)
	size = util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	return page, size
}
