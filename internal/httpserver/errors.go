package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hatef97/office-supplies-website/internal/apperr"
	"github.com/hatef97/office-supplies-website/internal/logging"
)

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    apperr.Code       `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// ErrorHandler renders every error as {"error":{"code","message","details"}}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	ae := toAppError(err)
	status := apperr.HTTPStatus(ae.Code())
	if ae.Code() == apperr.CodeInternal {
		logging.FromContext(c.Request().Context()).Error().Err(err).Msg("internal_error")
	}

	body := errorBody{Error: errorPayload{
		Code:    ae.Code(),
		Message: apperr.PublicMessage(ae),
		Details: ae.Details(),
	}}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error().Err(werr).Msg("write_error_response")
	}
}

// StatusOf is the status ErrorHandler will write for err.
func StatusOf(err error) int {
	return apperr.HTTPStatus(toAppError(err).Code())
}

func toAppError(err error) *apperr.Error {
	if ae := apperr.As(err); ae != nil {
		return ae
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprint(he.Message)
		switch he.Code {
		case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
			return apperr.Wrap(apperr.CodeValidation, err, msg)
		case http.StatusUnauthorized:
			return apperr.Wrap(apperr.CodeUnauthorized, err, msg)
		case http.StatusForbidden:
			return apperr.Wrap(apperr.CodeForbidden, err, msg)
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			return apperr.Wrap(apperr.CodeNotFound, err, msg)
		case http.StatusConflict:
			return apperr.Wrap(apperr.CodeConflict, err, msg)
		}
	}
	return apperr.Internal(err, "unhandled error")
}
