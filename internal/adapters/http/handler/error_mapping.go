package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ogurasousui/prospector/internal/core/company"
	"github.com/ogurasousui/prospector/internal/core/list"
	"github.com/ogurasousui/prospector/internal/core/search"
)

var notFoundErrors = []error{
	company.ErrCompanyNotFound,
	list.ErrListNotFound,
	list.ErrCompanyNotFound,
}

var validationErrors = []error{
	company.ErrInvalidDomain,
	company.ErrInvalidQuery,
	company.ErrInvalidLimit,
	company.ErrInvalidOffset,
	company.ErrInvalidMinVisits,
	list.ErrInvalidSlug,
	list.ErrInvalidDomain,
	list.ErrInvalidPage,
	list.ErrInvalidPerPage,
	list.ErrInvalidLimit,
	search.ErrEmptyPrompt,
	search.ErrInvalidLimit,
	search.ErrInvalidMinVisits,
}

// mapError はコア層のエラーを HTTP エラーへ写像します。入力起因は 400、
// 存在しない資源は 404、上流サービスの失敗は 502、設定やシードの欠落は
// 500 です。
func mapError(err error) error {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	if errors.Is(err, search.ErrEmbeddingFailed) {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	if errors.Is(err, search.ErrNotConfigured) || errors.Is(err, list.ErrRequiredListMissing) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
