package dto

type ProductFilters struct {
	SearchQuery string // name, category, description
	Category    string
	LowStock    bool
	SortBy      string // name, price, quantity, date_added
	SortOrder   string // asc, desc
	Page        int
	PageSize    int
}
