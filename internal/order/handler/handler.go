package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/order"
	"github.com/fekuna/omnipos-inventory-service/internal/order/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/httpx"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *OrderHandler) Routes(r chi.Router) {
	r.Get("/order/", h.List)
	r.Post("/order/", h.Create)
	r.Get("/order/{id}/", h.Get)
	r.Put("/order/{id}/", h.Replace)
	r.Patch("/order/{id}/", h.Patch)
	r.Delete("/order/{id}/", h.Delete)

	r.Get("/order/{id}/items/", h.ListItems)
	r.Post("/order/{id}/items/", h.AddItem)
	r.Get("/order/item/{id}/", h.GetItem)
	r.Delete("/order/item/{id}/", h.DeleteItem)
}

type itemRequest struct {
	Product  int64 `json:"product" validate:"required"`
	Quantity int   `json:"quantity"`
}

type createOrderRequest struct {
	CustomerName    string        `json:"customer_name" validate:"required,max=255"`
	TelephoneNumber string        `json:"telephone_number" validate:"required"`
	Status          string        `json:"status" validate:"omitempty,oneof=pending completed"`
	Items           []itemRequest `json:"items" validate:"dive"`
}

type patchOrderRequest struct {
	CustomerName    *string `json:"customer_name" validate:"omitempty,max=255"`
	TelephoneNumber *string `json:"telephone_number"`
	Status          *string `json:"status" validate:"omitempty,oneof=pending completed"`
}

type itemResponse struct {
	ID          int64           `json:"id"`
	Order       int64           `json:"order"`
	Product     int64           `json:"product"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	DemandMonth string          `json:"demand_month"`
}

type orderResponse struct {
	ID              int64             `json:"id"`
	CustomerName    string            `json:"customer_name"`
	TelephoneNumber string            `json:"telephone_number"`
	OrderDate       time.Time         `json:"order_date"`
	Status          model.OrderStatus `json:"status"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	Items           []itemResponse    `json:"items"`
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &dto.OrderFilters{
		Status:   model.OrderStatus(q.Get("status")),
		Search:   q.Get("search"),
		Page:     httpx.IntQuery(r, "page", 1),
		PageSize: httpx.IntQuery(r, "page_size", 0),
	}
	orders, count, err := h.uc.ListOrders(r.Context(), filters)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	resp := make([]orderResponse, len(orders))
	for i := range orders {
		resp[i] = mapOrderToResponse(&orders[i])
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(count))
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}

	input := &dto.CreateOrderInput{
		CustomerName:    req.CustomerName,
		TelephoneNumber: req.TelephoneNumber,
		Status:          model.OrderStatus(req.Status),
		Items:           make([]dto.ItemInput, len(req.Items)),
	}
	for i, it := range req.Items {
		input.Items[i] = dto.ItemInput{ProductID: it.Product, Quantity: it.Quantity}
	}

	o, err := h.uc.CreateOrder(r.Context(), input)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, mapOrderToResponse(o))
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	o, err := h.uc.GetOrder(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, mapOrderToResponse(o))
}

// Replace handles PUT. Items in the body are ignored; lines are changed
// through the item endpoints.
func (h *OrderHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	var req createOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	status := model.OrderStatus(req.Status)
	if status == "" {
		status = model.OrderPending
	}
	h.update(w, r, &dto.UpdateOrderInput{
		ID:              id,
		CustomerName:    &req.CustomerName,
		TelephoneNumber: &req.TelephoneNumber,
		Status:          &status,
	})
}

func (h *OrderHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	var req patchOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	input := &dto.UpdateOrderInput{
		ID:              id,
		CustomerName:    req.CustomerName,
		TelephoneNumber: req.TelephoneNumber,
	}
	if req.Status != nil {
		status := model.OrderStatus(*req.Status)
		input.Status = &status
	}
	h.update(w, r, input)
}

func (h *OrderHandler) update(w http.ResponseWriter, r *http.Request, input *dto.UpdateOrderInput) {
	o, err := h.uc.UpdateOrder(r.Context(), input)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, mapOrderToResponse(o))
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := h.uc.DeleteOrder(r.Context(), id); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.NoContent(w)
}

func (h *OrderHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	items, err := h.uc.ListItems(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, mapItemsToResponse(items))
}

func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	var req itemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	item, err := h.uc.AddItem(r.Context(), &dto.AddItemInput{
		OrderID:   id,
		ItemInput: dto.ItemInput{ProductID: req.Product, Quantity: req.Quantity},
	})
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, mapItemToResponse(item))
}

func (h *OrderHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	item, err := h.uc.GetItem(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, mapItemToResponse(item))
}

func (h *OrderHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if err := h.uc.DeleteItem(r.Context(), id); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.NoContent(w)
}

func mapOrderToResponse(o *model.Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		TelephoneNumber: o.TelephoneNumber,
		OrderDate:       o.OrderDate,
		Status:          o.Status,
		TotalAmount:     o.TotalAmount,
		Items:           mapItemsToResponse(o.Items),
	}
}

func mapItemsToResponse(items []model.OrderItem) []itemResponse {
	out := make([]itemResponse, len(items))
	for i := range items {
		out[i] = mapItemToResponse(&items[i])
	}
	return out
}

func mapItemToResponse(it *model.OrderItem) itemResponse {
	return itemResponse{
		ID:          it.ID,
		Order:       it.OrderID,
		Product:     it.ProductID,
		ProductName: it.ProductName,
		Quantity:    it.Quantity,
		UnitPrice:   it.UnitPrice,
		Price:       it.Price,
		CreatedAt:   it.CreatedAt,
		DemandMonth: it.CreatedAt.Format("2006-01"),
	}
}
