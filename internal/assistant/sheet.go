package assistant

import (
	"io"

	"github.com/fekuna/omnipos-inventory-service/internal/analytics"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/assistant/dto"
)

const defaultSheetThreshold = 5

var sheetColumns = []string{"name", "price", "quantity_in_stock"}

// ParseSheet reads an uploaded product spreadsheet. category and
// threshold_level are optional columns.
func ParseSheet(filename string, r io.Reader) (*dto.UploadedData, error) {
	rows, err := analytics.ReadSheet(filename, r, sheetColumns...)
	if err != nil {
		return nil, err
	}

	products := make([]dto.SheetProduct, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		p := dto.SheetProduct{Name: row["name"], Category: row["category"], ThresholdLevel: defaultSheetThreshold}
		if p.Name == "" {
			return nil, apperror.Validation("Row %d: name is required.", line)
		}
		if p.Price, err = analytics.Number(row, "price", line); err != nil {
			return nil, err
		}
		if p.QuantityInStock, err = analytics.Number(row, "quantity_in_stock", line); err != nil {
			return nil, err
		}
		if row["threshold_level"] != "" {
			if p.ThresholdLevel, err = analytics.Number(row, "threshold_level", line); err != nil {
				return nil, err
			}
		}
		products = append(products, p)
	}

	return &dto.UploadedData{Products: products, Stats: SheetSummary(products)}, nil
}

// SheetSummary computes the statistics the assistant quotes for uploaded
// data. A product at or under its threshold counts as low stock.
func SheetSummary(products []dto.SheetProduct) dto.SheetStats {
	s := dto.SheetStats{
		TotalProducts:       len(products),
		CategoriesBreakdown: map[string]int64{},
	}
	var priceSum float64
	for _, p := range products {
		s.TotalValue += p.Price * p.QuantityInStock
		priceSum += p.Price
		if p.QuantityInStock <= p.ThresholdLevel {
			s.LowStockCount++
		}
		if p.QuantityInStock == 0 {
			s.OutOfStockCount++
		}
		if p.Category != "" {
			s.CategoriesBreakdown[p.Category]++
		}
	}
	s.Categories = len(s.CategoriesBreakdown)
	if len(products) > 0 {
		s.AvgPrice = priceSum / float64(len(products))
	}
	return s
}
