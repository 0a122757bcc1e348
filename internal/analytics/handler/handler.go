package handler

import (
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/analytics"
	"github.com/fekuna/omnipos-inventory-service/internal/analytics/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/pkg/httpx"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 10 << 20

type AnalyticsHandler struct {
	uc      analytics.UseCase
	limitAI func(http.Handler) http.Handler
	logger  logger.ZapLogger
}

// NewAnalyticsHandler wires the handler. limitAI, when set, wraps the routes
// that call the model on every request.
func NewAnalyticsHandler(uc analytics.UseCase, limitAI func(http.Handler) http.Handler, log logger.ZapLogger) *AnalyticsHandler {
	return &AnalyticsHandler{
		uc:      uc,
		limitAI: limitAI,
		logger:  log,
	}
}

func (h *AnalyticsHandler) Routes(r chi.Router) {
	r.Get("/forecast/", h.Forecast)
	r.Post("/inventory-forecast/", h.InventoryForecast)

	r.Group(func(r chi.Router) {
		if h.limitAI != nil {
			r.Use(h.limitAI)
		}
		r.Get("/gemini-insights/", h.DemandInsights)
		r.Get("/analytics/", h.Dashboard)
	})
}

type inventoryForecastRequest struct {
	Data []dto.ForecastRow `json:"data" validate:"dive"`
}

func (h *AnalyticsHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	res, err := h.uc.Forecast(r.Context())
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *AnalyticsHandler) DemandInsights(w http.ResponseWriter, r *http.Request) {
	forecast, err := h.uc.DemandInsights(r.Context())
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{"forecast": forecast})
}

func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.uc.Dashboard(r.Context())
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dashboard)
}

// InventoryForecast accepts either a JSON body or a multipart spreadsheet in
// the "file" field.
func (h *AnalyticsHandler) InventoryForecast(w http.ResponseWriter, r *http.Request) {
	var (
		rows []dto.ForecastRow
		err  error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		rows, err = h.rowsFromUpload(w, r)
	} else {
		rows, err = h.rowsFromJSON(r)
	}
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}

	res, err := h.uc.InventoryForecast(r.Context(), rows)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *AnalyticsHandler) rowsFromJSON(r *http.Request) ([]dto.ForecastRow, error) {
	var req inventoryForecastRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		return nil, err
	}
	if len(req.Data) == 0 {
		return nil, analytics.ErrNoData
	}
	if err := httpx.Validate(req); err != nil {
		return nil, err
	}
	return req.Data, nil
}

func (h *AnalyticsHandler) rowsFromUpload(w http.ResponseWriter, r *http.Request) ([]dto.ForecastRow, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, apperror.Validation("Invalid multipart upload: %v", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, analytics.ErrNoData
	}
	defer file.Close()
	return analytics.ForecastRowsFromSheet(header.Filename, file)
}
