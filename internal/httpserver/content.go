package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hatef97/office-supplies-website/internal/service"
	"github.com/hatef97/office-supplies-website/internal/transport"
)

type ContentHTTP struct {
	Svc *service.ContentService
}

func (h *ContentHTTP) ListPages(c echo.Context) error {
	l := handlerLogger(c, "pages.list")

	items, err := h.Svc.ListPages(c.Request().Context())
	if err != nil {
		return fail(l, "list_pages_error", err)
	}
	out := make([]transport.PageContentResponse, 0, len(items))
	for i := range items {
		out = append(out, transport.NewPageContentResponse(&items[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ContentHTTP) GetPage(c echo.Context) error {
	l := handlerLogger(c, "pages.get")

	id, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "get_page_error", err)
	}
	p, err := h.Svc.GetPage(c.Request().Context(), id)
	if err != nil {
		return fail(l, "get_page_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewPageContentResponse(p))
}

func (h *ContentHTTP) CreatePage(c echo.Context) error {
	l := handlerLogger(c, "pages.create")

	var req transport.PageContentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "create_page_error", err)
	}
	p, err := h.Svc.CreatePage(c.Request().Context(), req)
	if err != nil {
		return fail(l, "create_page_error", err)
	}
	return c.JSON(http.StatusCreated, transport.NewPageContentResponse(p))
}

func (h *ContentHTTP) UpdatePage(c echo.Context) error {
	l := handlerLogger(c, "pages.update")

	id, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "update_page_error", err)
	}
	var req transport.PageContentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "update_page_error", err)
	}
	p, err := h.Svc.UpdatePage(c.Request().Context(), id, req)
	if err != nil {
		return fail(l, "update_page_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewPageContentResponse(p))
}

func (h *ContentHTTP) DeletePage(c echo.Context) error {
	l := handlerLogger(c, "pages.delete")

	id, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "delete_page_error", err)
	}
	if err := h.Svc.DeletePage(c.Request().Context(), id); err != nil {
		return fail(l, "delete_page_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ContentHTTP) ListTeam(c echo.Context) error {
	l := handlerLogger(c, "team.list")

	items, err := h.Svc.ListTeam(c.Request().Context())
	if err != nil {
		return fail(l, "list_team_error", err)
	}
	out := make([]transport.TeamMemberResponse, 0, len(items))
	for i := range items {
		out = append(out, transport.NewTeamMemberResponse(&items[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ContentHTTP) GetTeamMember(c echo.Context) error {
	l := handlerLogger(c, "team.get")

	id, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "get_team_member_error", err)
	}
	m, err := h.Svc.GetTeamMember(c.Request().Context(), id)
	if err != nil {
		return fail(l, "get_team_member_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewTeamMemberResponse(m))
}

func (h *ContentHTTP) CreateTeamMember(c echo.Context) error {
	l := handlerLogger(c, "team.create")

	var req transport.TeamMemberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "create_team_member_error", err)
	}
	m, err := h.Svc.CreateTeamMember(c.Request().Context(), req)
	if err != nil {
		return fail(l, "create_team_member_error", err)
	}
	return c.JSON(http.StatusCreated, transport.NewTeamMemberResponse(m))
}

func (h *ContentHTTP) UpdateTeamMember(c echo.Context) error {
	l := handlerLogger(c, "team.update")

	id, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "update_team_member_error", err)
	}
	var req transport.TeamMemberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(l, "update_team_member_error", err)
	}
	m, err := h.Svc.UpdateTeamMember(c.Request().Context(), id, req)
	if err != nil {
		return fail(l, "update_team_member_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewTeamMemberResponse(m))
}

func (h *ContentHTTP) DeleteTeamMember(c echo.Context) error {
	l := handlerLogger(c, "team.delete")

	id, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "delete_team_member_error", err)
	}
	if err := h.Svc.DeleteTeamMember(c.Request().Context(), id); err != nil {
		return fail(l, "delete_team_member_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
