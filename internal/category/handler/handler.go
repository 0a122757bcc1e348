package handler

import (
	"net/http"
	"net/url"

	"github.com/fekuna/omnipos-inventory-service/internal/category"
	"github.com/fekuna/omnipos-inventory-service/internal/category/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/httpx"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) Routes(r chi.Router) {
	r.Get("/category/", h.List)
	r.Get("/category/{name}/", h.Get)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := &dto.CategoryFilters{
		SearchQuery:  r.URL.Query().Get("search"),
		LowStockOnly: httpx.BoolQuery(r, "low_stock"),
	}
	cats, err := h.uc.ListCategories(r.Context(), filters)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cats)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		httpx.NotFound(w, r)
		return
	}
	c, err := h.uc.GetCategory(r.Context(), name)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}
