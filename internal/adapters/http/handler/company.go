package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ogurasousui/prospector/internal/core/company"
	"github.com/ogurasousui/prospector/internal/core/list"
)

type metricsResponse struct {
	Visits        *float64 `json:"visits"`
	PagesPerVisit *float64 `json:"pages_per_visit"`
	AvgVisitSecs  *float64 `json:"avg_visit_secs"`
	BounceRate    *float64 `json:"bounce_rate"`
}

type companyResponse struct {
	ID            int64           `json:"id"`
	Domain        string          `json:"domain"`
	Name          *string         `json:"name"`
	WebsiteURL    *string         `json:"website_url,omitempty"`
	Country       *string         `json:"country"`
	Industry      *string         `json:"industry"`
	EmployeeRange *string         `json:"employee_range"`
	TechTags      []string        `json:"tech_tags"`
	Vertical      *string         `json:"vertical"`
	Subvertical   *string         `json:"subvertical"`
	Description   *string         `json:"description"`
	Location      *string         `json:"location"`
	Metrics       metricsResponse `json:"metrics"`
}

type memberResponse struct {
	companyResponse
	AddedAt time.Time `json:"added_at"`
}

func newCompanyResponse(entry *company.DirectoryEntry) companyResponse {
	c := entry.Company
	return companyResponse{
		ID:            c.ID,
		Domain:        c.Domain,
		Name:          c.Name,
		WebsiteURL:    c.WebsiteURL,
		Country:       c.Country,
		Industry:      c.Industry,
		EmployeeRange: c.EmployeeRange,
		TechTags:      c.TechTags,
		Vertical:      c.Vertical,
		Subvertical:   c.Subvertical,
		Description:   c.Description,
		Location:      c.Location,
		Metrics: metricsResponse{
			Visits:        entry.Metrics.Visits,
			PagesPerVisit: entry.Metrics.PagesPerVisit,
			AvgVisitSecs:  entry.Metrics.AvgVisitSecs,
			BounceRate:    entry.Metrics.BounceRate,
		},
	}
}

func newMemberResponse(m *list.Member) memberResponse {
	return memberResponse{
		companyResponse: companyResponse{
			ID:            m.CompanyID,
			Domain:        m.Domain,
			Name:          m.Name,
			Country:       m.Country,
			Industry:      m.Industry,
			EmployeeRange: m.EmployeeRange,
			TechTags:      m.TechTags,
			Vertical:      m.Vertical,
			Subvertical:   m.Subvertical,
			Description:   m.Description,
			Location:      m.Location,
			Metrics: metricsResponse{
				Visits:        m.Visits,
				PagesPerVisit: m.PagesPerVisit,
				AvgVisitSecs:  m.AvgVisitSecs,
				BounceRate:    m.BounceRate,
			},
		},
		AddedAt: m.AddedAt,
	}
}

func (h *Handler) searchCompanies(c echo.Context) error {
	input := company.SearchDirectoryInput{Query: c.QueryParam("query")}

	minVisits, err := parseOptionalInt64(c.QueryParam("min_visits"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "min_visits must be an integer")
	}
	input.MinVisits = minVisits

	if v := c.QueryParam("vertical"); v != "" {
		input.Vertical = &v
	}
	if v := c.QueryParam("location"); v != "" {
		input.Location = &v
	}

	limit, err := parseOptionalInt(c.QueryParam("limit"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
	}
	input.Limit = limit

	entries, err := h.companies.SearchDirectory(c.Request().Context(), input)
	if err != nil {
		return mapError(err)
	}

	companies := make([]companyResponse, 0, len(entries))
	for _, entry := range entries {
		companies = append(companies, newCompanyResponse(entry))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":   true,
		"count":     len(companies),
		"companies": companies,
	})
}

func (h *Handler) listCompanies(c echo.Context) error {
	limit, err := parseOptionalInt(c.QueryParam("limit"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
	}
	offset, err := parseOptionalInt(c.QueryParam("offset"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "offset must be an integer")
	}

	result, err := h.companies.ListAll(c.Request().Context(), company.ListAllInput{Limit: limit, Offset: offset})
	if err != nil {
		return mapError(err)
	}

	companies := make([]companyResponse, 0, len(result.Companies))
	for _, entry := range result.Companies {
		companies = append(companies, newCompanyResponse(entry))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":            true,
		"total_companies":    result.Total,
		"returned_companies": len(companies),
		"limit":              result.Limit,
		"offset":             result.Offset,
		"companies":          companies,
	})
}

func (h *Handler) reachedOutCompanies(c echo.Context) error {
	input := list.ReachedOutInput{}

	if v := c.QueryParam("vertical"); v != "" {
		input.Vertical = &v
	}

	limit, err := parseOptionalInt(c.QueryParam("limit"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
	}
	input.Limit = limit

	members, err := h.lists.ReachedOut(c.Request().Context(), input)
	if err != nil {
		return mapError(err)
	}

	companies := make([]memberResponse, 0, len(members))
	for _, m := range members {
		companies = append(companies, newMemberResponse(m))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":   true,
		"count":     len(companies),
		"companies": companies,
	})
}

type verticalCountResponse struct {
	Vertical string `json:"vertical"`
	Count    int64  `json:"count"`
}

func (h *Handler) companyStats(c echo.Context) error {
	stats, err := h.companies.GetStats(c.Request().Context())
	if err != nil {
		return mapError(err)
	}

	distribution := make([]verticalCountResponse, 0, len(stats.VerticalDistribution))
	for _, vc := range stats.VerticalDistribution {
		distribution = append(distribution, verticalCountResponse{Vertical: vc.Vertical, Count: vc.Count})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"stats": map[string]any{
			"total_companies":        stats.TotalCompanies,
			"reached_out_count":      stats.ReachedOutCount,
			"average_monthly_visits": stats.AverageMonthlyVisits,
			"vertical_distribution":  distribution,
		},
	})
}

func parseOptionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func parseOptionalInt64(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
