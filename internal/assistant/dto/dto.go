package dto

import (
	"io"

	analyticsdto "github.com/fekuna/omnipos-inventory-service/internal/analytics/dto"
)

type ChatInput struct {
	UserID    int64
	Message   string
	SessionID *int64
}

type ChatReply struct {
	Response      string `json:"response"`
	Status        string `json:"status"`
	ChatSessionID int64  `json:"chat_session_id"`
}

type UploadInput struct {
	UserID    int64
	SessionID *int64
	Filename  string
	File      io.Reader
}

type UploadResult struct {
	ChatSessionID     int64                          `json:"chat_session_id"`
	RowCount          int                            `json:"row_count"`
	Stats             SheetStats                     `json:"stats"`
	InventoryAnalysis analyticsdto.InventoryAnalysis `json:"inventory_analysis"`
}

// SheetProduct is one product line from an uploaded spreadsheet.
type SheetProduct struct {
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Price           float64 `json:"price"`
	QuantityInStock float64 `json:"quantity_in_stock"`
	ThresholdLevel  float64 `json:"threshold_level"`
}

type SheetStats struct {
	TotalProducts       int              `json:"total_products"`
	Categories          int              `json:"categories"`
	TotalValue          float64          `json:"total_value"`
	AvgPrice            float64          `json:"avg_price"`
	LowStockCount       int              `json:"low_stock_count"`
	OutOfStockCount     int              `json:"out_of_stock_count"`
	CategoriesBreakdown map[string]int64 `json:"categories_breakdown"`
}

// UploadedData is what a chat session stores for an uploaded spreadsheet.
type UploadedData struct {
	Products []SheetProduct `json:"products"`
	Stats    SheetStats     `json:"stats"`
}

// SheetInsights is the model output for /excel/analyze/.
type SheetInsights struct {
	Summary         string   `json:"summary" validate:"required"`
	Recommendations []string `json:"recommendations" validate:"dive,required"`
}

type AnalyzeResult struct {
	ChatSessionID     int64                          `json:"chat_session_id"`
	InventoryAnalysis analyticsdto.InventoryAnalysis `json:"inventory_analysis"`
	SheetInsights
}
