package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ogurasousui/prospector/internal/core/search"
)

type semanticSearchRequest struct {
	Prompt            string `json:"prompt" validate:"required"`
	MinVisits         *int64 `json:"min_visits"`
	Limit             int    `json:"limit"`
	ExcludeReachedOut *bool  `json:"exclude_reached_out"`
}

type searchResultResponse struct {
	CompanyID       int64           `json:"id"`
	Domain          string          `json:"domain"`
	Name            *string         `json:"name"`
	Country         *string         `json:"country"`
	Industry        *string         `json:"industry"`
	EmployeeRange   *string         `json:"employee_range"`
	TechTags        []string        `json:"tech_tags"`
	Metrics         metricsResponse `json:"metrics"`
	SimilarityScore *float64        `json:"similarity_score"`
}

func (h *Handler) semanticSearch(c echo.Context) error {
	var req semanticSearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// 連絡済みの会社は既定で除外します。
	excludeReachedOut := true
	if req.ExcludeReachedOut != nil {
		excludeReachedOut = *req.ExcludeReachedOut
	}

	results, err := h.search.Search(c.Request().Context(), search.SearchInput{
		Prompt:            req.Prompt,
		MinVisits:         req.MinVisits,
		Limit:             req.Limit,
		ExcludeReachedOut: excludeReachedOut,
	})
	if err != nil {
		return mapError(err)
	}

	responses := make([]searchResultResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, searchResultResponse{
			CompanyID:     result.CompanyID,
			Domain:        result.Domain,
			Name:          result.Name,
			Country:       result.Country,
			Industry:      result.Industry,
			EmployeeRange: result.EmployeeRange,
			TechTags:      result.TechTags,
			Metrics: metricsResponse{
				Visits:        result.Visits,
				PagesPerVisit: result.PagesPerVisit,
				AvgVisitSecs:  result.AvgVisitSecs,
				BounceRate:    result.BounceRate,
			},
			SimilarityScore: result.SimilarityScore,
		})
	}

	return c.JSON(http.StatusOK, responses)
}
