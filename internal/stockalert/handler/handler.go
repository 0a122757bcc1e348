package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-inventory-service/internal/stockalert"
	"github.com/fekuna/omnipos-inventory-service/internal/stockalert/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/httpx"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type StockAlertHandler struct {
	uc     stockalert.UseCase
	logger logger.ZapLogger
}

func NewStockAlertHandler(uc stockalert.UseCase, log logger.ZapLogger) *StockAlertHandler {
	return &StockAlertHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *StockAlertHandler) Routes(r chi.Router) {
	r.Get("/stock-alert/", h.List)
	r.Get("/stock-alert/{id}/", h.Get)
	r.Patch("/stock-alert/{id}/", h.Patch)
	r.Delete("/stock-alert/{id}/", h.Delete)
}

type patchAlertRequest struct {
	Resolved *bool `json:"resolved" validate:"required"`
}

func (h *StockAlertHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := &dto.AlertFilters{IncludeResolved: httpx.BoolQuery(r, "all")}
	if pid, err := strconv.ParseInt(r.URL.Query().Get("product"), 10, 64); err == nil {
		filters.ProductID = pid
	}
	alerts, err := h.uc.ListAlerts(r.Context(), filters)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, alerts)
}

func (h *StockAlertHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	a, err := h.uc.GetAlert(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

func (h *StockAlertHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	var req patchAlertRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	a, err := h.uc.SetResolved(r.Context(), id, *req.Resolved)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

func (h *StockAlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := h.uc.DeleteAlert(r.Context(), id); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.NoContent(w)
}
