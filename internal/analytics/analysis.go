package analytics

import (
	"fmt"

	"github.com/fekuna/omnipos-inventory-service/internal/analytics/dto"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	StatusHealthy  = "Healthy"
	StatusWarning  = "Warning"
	StatusCritical = "Critical"

	// criticalShare is the fraction of low stock rows above which the
	// inventory is reported as critical.
	criticalShare = 0.2
)

var money = message.NewPrinter(language.English)

// FormatMoney renders v in dollars with thousands separators.
func FormatMoney(v float64) string {
	return money.Sprintf("$%.2f", v)
}

// Status grades an inventory by how many of its rows are short on stock.
func Status(low, total int) string {
	switch {
	case total > 0 && float64(low) > float64(total)*criticalShare:
		return StatusCritical
	case low > 0:
		return StatusWarning
	default:
		return StatusHealthy
	}
}

// Analyze builds the status line and insights shown next to model output.
func Analyze(totalValue float64, low, total int) dto.InventoryAnalysis {
	status := Status(low, total)
	return dto.InventoryAnalysis{
		Status: status,
		Insights: []string{
			"Total inventory value: " + FormatMoney(totalValue),
			fmt.Sprintf("Low stock items: %d products", low),
			fmt.Sprintf("Inventory status: %s", status),
		},
	}
}

// Movement splits rows into fast and slow movers around the mean of
// sales_last_month. Rows at the mean count as fast.
func Movement(rows []dto.ForecastRow) (fast, slow []string) {
	fast, slow = []string{}, []string{}
	if len(rows) == 0 {
		return fast, slow
	}
	var sum float64
	for _, r := range rows {
		sum += r.SalesLastMonth
	}
	mean := sum / float64(len(rows))
	for _, r := range rows {
		if r.SalesLastMonth >= mean {
			fast = append(fast, r.ProductName)
		} else {
			slow = append(slow, r.ProductName)
		}
	}
	return fast, slow
}

// AnalyzeForecastRows grades submitted rows. A row is short when its stock
// would not cover another month of sales.
func AnalyzeForecastRows(rows []dto.ForecastRow) dto.InventoryAnalysis {
	var (
		value float64
		low   int
	)
	for _, r := range rows {
		value += r.Price * r.Stock
		if r.Stock < r.SalesLastMonth {
			low++
		}
	}
	return Analyze(value, low, len(rows))
}
