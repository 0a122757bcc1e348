package dto

type CategoryFilters struct {
	// SearchQuery matches category names case-insensitively.
	SearchQuery string
	// LowStockOnly keeps categories with at least one product under its threshold.
	LowStockOnly bool
}
