package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/httpx"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) Routes(r chi.Router) {
	r.Get("/product/", h.List)
	r.Post("/product/", h.Create)
	r.Get("/product/{id}/", h.Get)
	r.Put("/product/{id}/", h.Replace)
	r.Patch("/product/{id}/", h.Patch)
	r.Delete("/product/{id}/", h.Delete)
}

type createProductRequest struct {
	Name               string           `json:"name" validate:"required,max=255"`
	Category           string           `json:"category" validate:"max=255"`
	Description        string           `json:"description"`
	QuantityInStock    int              `json:"quantity_in_stock" validate:"gte=0"`
	Price              *decimal.Decimal `json:"price" validate:"required"`
	ThresholdLevel     *int             `json:"threshold_level" validate:"omitempty,gte=0"`
	ExtraChargePercent *decimal.Decimal `json:"extra_charge_percent"`
}

type updateProductRequest struct {
	Name               *string          `json:"name" validate:"omitempty,max=255"`
	Category           *string          `json:"category" validate:"omitempty,max=255"`
	Description        *string          `json:"description"`
	QuantityInStock    *int             `json:"quantity_in_stock" validate:"omitempty,gte=0"`
	Price              *decimal.Decimal `json:"price"`
	ThresholdLevel     *int             `json:"threshold_level" validate:"omitempty,gte=0"`
	ExtraChargePercent *decimal.Decimal `json:"extra_charge_percent"`
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &dto.ProductFilters{
		SearchQuery: q.Get("search"),
		Category:    q.Get("category"),
		LowStock:    httpx.BoolQuery(r, "low_stock"),
		SortBy:      q.Get("sort_by"),
		SortOrder:   q.Get("sort_order"),
		Page:        httpx.IntQuery(r, "page", 1),
		PageSize:    httpx.IntQuery(r, "page_size", 0),
	}

	products, count, err := h.uc.ListProducts(r.Context(), filters)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(count))
	httpx.JSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}

	p, err := h.uc.CreateProduct(r.Context(), &dto.CreateProductInput{
		Name:               req.Name,
		Category:           req.Category,
		Description:        req.Description,
		QuantityInStock:    req.QuantityInStock,
		Price:              *req.Price,
		ThresholdLevel:     req.ThresholdLevel,
		ExtraChargePercent: req.ExtraChargePercent,
	})
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	p, err := h.uc.GetProduct(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// Replace handles PUT, which requires the same fields as create.
func (h *ProductHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	var req createProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}

	h.update(w, r, &dto.UpdateProductInput{
		ID:                 id,
		Name:               &req.Name,
		Category:           &req.Category,
		Description:        &req.Description,
		QuantityInStock:    &req.QuantityInStock,
		Price:              req.Price,
		ThresholdLevel:     req.ThresholdLevel,
		ExtraChargePercent: req.ExtraChargePercent,
	})
}

func (h *ProductHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	var req updateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}

	h.update(w, r, &dto.UpdateProductInput{
		ID:                 id,
		Name:               req.Name,
		Category:           req.Category,
		Description:        req.Description,
		QuantityInStock:    req.QuantityInStock,
		Price:              req.Price,
		ThresholdLevel:     req.ThresholdLevel,
		ExtraChargePercent: req.ExtraChargePercent,
	})
}

func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request, input *dto.UpdateProductInput) {
	p, err := h.uc.UpdateProduct(r.Context(), input)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := h.uc.DeleteProduct(r.Context(), id); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.NoContent(w)
}
