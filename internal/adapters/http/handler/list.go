package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ogurasousui/prospector/internal/core/list"
)

type listOperationRequest struct {
	Domain string `json:"domain" validate:"required"`
	Actor  string `json:"user"`
}

type promoteRequest struct {
	Actor string `json:"user"`
}

func (h *Handler) addToList(c echo.Context) error {
	var req listOperationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.lists.Add(c.Request().Context(), list.OperationInput{
		Slug:   c.Param("slug"),
		Domain: req.Domain,
		Actor:  req.Actor,
	})
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{"message": result.Message})
}

func (h *Handler) removeFromList(c echo.Context) error {
	var req listOperationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.lists.Remove(c.Request().Context(), list.OperationInput{
		Slug:   c.Param("slug"),
		Domain: req.Domain,
		Actor:  req.Actor,
	})
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{"message": result.Message})
}

func (h *Handler) promoteCompany(c echo.Context) error {
	req := promoteRequest{}
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
	}

	result, err := h.lists.Promote(c.Request().Context(), list.PromoteInput{
		Domain: c.Param("domain"),
		Actor:  req.Actor,
	})
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{"message": result.Message})
}

func (h *Handler) listMembers(c echo.Context) error {
	page, err := parseOptionalInt(c.QueryParam("page"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "page must be an integer")
	}
	perPage, err := parseOptionalInt(c.QueryParam("per_page"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "per_page must be an integer")
	}

	result, err := h.lists.Members(c.Request().Context(), list.MembersInput{
		Slug:    c.Param("slug"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return mapError(err)
	}

	companies := make([]memberResponse, 0, len(result.Members))
	for _, m := range result.Members {
		companies = append(companies, newMemberResponse(m))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"companies": companies,
		"total":     result.Total,
		"page":      result.Page,
		"per_page":  result.PerPage,
	})
}
