package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hatef97/office-supplies-website/internal/service"
	"github.com/hatef97/office-supplies-website/internal/transport"
)

type CommentHTTP struct {
	Svc *service.CommentService
}

func (h *CommentHTTP) ListComments(c echo.Context) error {
	l := handlerLogger(c, "comments.list")

	productID, err := pathUint(c, "product_id")
	if err != nil {
		return fail(l, "list_comments_error", err)
	}
	items, err := h.Svc.List(c.Request().Context(), productID)
	if err != nil {
		return fail(l, "list_comments_error", err)
	}
	out := make([]transport.CommentResponse, 0, len(items))
	for i := range items {
		out = append(out, transport.NewCommentResponse(&items[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CommentHTTP) CreateComment(c echo.Context) error {
	l := handlerLogger(c, "comments.create")

	productID, err := pathUint(c, "product_id")
	if err != nil {
		return fail(l, "create_comment_error", err)
	}
	var req transport.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "create_comment_error", err)
	}
	comment, err := h.Svc.Create(c.Request().Context(), productID, req)
	if err != nil {
		return fail(l, "create_comment_error", err)
	}
	return c.JSON(http.StatusCreated, transport.NewCommentResponse(comment))
}

func (h *CommentHTTP) GetComment(c echo.Context) error {
	l := handlerLogger(c, "comments.get")

	productID, err := pathUint(c, "product_id")
	if err != nil {
		return fail(l, "get_comment_error", err)
	}
	id, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "get_comment_error", err)
	}
	comment, err := h.Svc.Get(c.Request().Context(), productID, id)
	if err != nil {
		return fail(l, "get_comment_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewCommentResponse(comment))
}

func (h *CommentHTTP) UpdateCommentStatus(c echo.Context) error {
	l := handlerLogger(c, "comments.update_status")

	actor, err := actorOf(c)
	if err != nil {
		return fail(l, "update_comment_error", err)
	}
	productID, err := pathUint(c, "product_id")
	if err != nil {
		return fail(l, "update_comment_error", err)
	}
	id, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "update_comment_error", err)
	}
	var req transport.CommentStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "update_comment_error", err)
	}
	comment, err := h.Svc.UpdateStatus(c.Request().Context(), actor, productID, id, req.Status)
	if err != nil {
		return fail(l, "update_comment_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewCommentResponse(comment))
}

func (h *CommentHTTP) DeleteComment(c echo.Context) error {
	l := handlerLogger(c, "comments.delete")

	actor, err := actorOf(c)
	if err != nil {
		return fail(l, "delete_comment_error", err)
	}
	productID, err := pathUint(c, "product_id")
	if err != nil {
		return fail(l, "delete_comment_error", err)
	}
	id, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "delete_comment_error", err)
	}
	if err := h.Svc.Delete(c.Request().Context(), actor, productID, id); err != nil {
		return fail(l, "delete_comment_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
