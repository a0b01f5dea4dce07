// Package handler は REST API のハンドラ群です。ユースケースの戻り値を
// JSON 表現へ変換し、コア層のエラーを HTTP ステータスへ写像します。
package handler

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/ogurasousui/prospector/internal/core/company"
	"github.com/ogurasousui/prospector/internal/core/list"
	"github.com/ogurasousui/prospector/internal/core/search"
)

// Handler は全エンドポイントのハンドラをまとめます。
type Handler struct {
	companies company.UseCase
	lists     list.UseCase
	search    search.UseCase
}

// New は Handler を生成します。
func New(companies company.UseCase, lists list.UseCase, search search.UseCase) *Handler {
	return &Handler{companies: companies, lists: lists, search: search}
}

// RegisterRoutes は全ルートを Echo に登録します。
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.health)

	e.POST("/search", h.semanticSearch)

	e.GET("/companies", h.listCompanies)
	e.GET("/companies/search", h.searchCompanies)
	e.GET("/companies/reached-out", h.reachedOutCompanies)
	e.GET("/companies/stats", h.companyStats)

	e.POST("/lists/:slug/add", h.addToList)
	e.POST("/lists/:slug/remove", h.removeFromList)
	e.GET("/lists/:slug", h.listMembers)

	e.POST("/promote/:domain", h.promoteCompany)
}

func (h *Handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Validator は go-playground/validator を Echo に接続します。
type Validator struct {
	validate *validator.Validate
}

// NewValidator は Validator を生成します。
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate は構造体タグに基づく検証を行います。
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
