package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/httpx"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

// Routes registers the ledger endpoints. Rows are immutable, so there is no
// update or delete.
func (h *InventoryHandler) Routes(r chi.Router) {
	r.Get("/inventory/", h.List)
	r.Post("/inventory/", h.Create)
	r.Get("/inventory/{id}/", h.Get)
}

type createTransactionRequest struct {
	ProductID       int64  `json:"product_id" validate:"required"`
	Quantity        int    `json:"quantity"`
	TransactionType string `json:"transaction_type" validate:"required,oneof=restock sale"`
}

type productSummary struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	QuantityInStock int             `json:"quantity_in_stock"`
}

type transactionResponse struct {
	ID               int64                 `json:"id"`
	Product          productSummary        `json:"product"`
	Quantity         int                   `json:"quantity"`
	TransactionType  model.TransactionType `json:"transaction_type"`
	TransactionCost  decimal.Decimal       `json:"transaction_cost"`
	TransactionDate  time.Time             `json:"transaction_date"`
	TransactionMonth string                `json:"transaction_month"`
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &dto.TransactionFilters{
		TransactionType: model.TransactionType(q.Get("transaction_type")),
		Page:            httpx.IntQuery(r, "page", 1),
		PageSize:        httpx.IntQuery(r, "page_size", 0),
	}
	if pid, err := strconv.ParseInt(q.Get("product"), 10, 64); err == nil {
		filters.ProductID = pid
	}

	items, count, err := h.uc.ListTransactions(r.Context(), filters)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}

	resp := make([]transactionResponse, len(items))
	for i := range items {
		resp[i] = mapTransactionToResponse(&items[i])
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(count))
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}

	t, err := h.uc.CreateTransaction(r.Context(), &dto.CreateTransactionInput{
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		TransactionType: model.TransactionType(req.TransactionType),
		Source:          "api",
	})
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, mapTransactionToResponse(t))
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	t, err := h.uc.GetTransaction(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, mapTransactionToResponse(t))
}

func mapTransactionToResponse(t *model.InventoryTransaction) transactionResponse {
	return transactionResponse{
		ID: t.ID,
		Product: productSummary{
			ID:              t.ProductID,
			Name:            t.ProductName,
			Price:           t.ProductPrice,
			QuantityInStock: t.ProductQuantity,
		},
		Quantity:         t.Quantity,
		TransactionType:  t.TransactionType,
		TransactionCost:  t.TransactionCost,
		TransactionDate:  t.TransactionDate,
		TransactionMonth: t.TransactionDate.Format("2006-01"),
	}
}
