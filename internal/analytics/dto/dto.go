package dto

// ForecastResult holds either the mean item quantity or a message when there
// are no recent sales.
type ForecastResult struct {
	Forecast *float64 `json:"forecast,omitempty"`
	Message  string   `json:"message,omitempty"`
}

type ProductSales struct {
	ProductName  string `db:"product_name" json:"product_name"`
	Category     string `db:"category" json:"category"`
	TotalSales   int64  `db:"total_sales" json:"total_sales_last_60_days"`
	CurrentStock int64  `db:"current_stock" json:"current_stock"`
}

// DemandPrediction is one row of model output for a demand forecast.
type DemandPrediction struct {
	ProductName     string   `json:"product_name" validate:"required"`
	PredictedSales  *float64 `json:"predicted_sales" validate:"required,gte=0"`
	ConfidenceScore *float64 `json:"confidence_score" validate:"required,gte=0,lte=1"`
}

type SalesSummary struct {
	TotalSales    float64 `db:"total_sales" json:"total_sales"`
	TotalRevenue  float64 `db:"total_revenue" json:"total_revenue"`
	OrderCount    int64   `db:"order_count" json:"order_count"`
	AvgOrderValue float64 `db:"-" json:"avg_order_value"`
}

type CategorySales struct {
	Category  string  `db:"category" json:"category"`
	TotalSold float64 `db:"total_sold" json:"total_sold"`
}

type StockLevel struct {
	Name  string  `db:"name" json:"name"`
	Stock float64 `db:"stock" json:"stock"`
}

type MonthlySales struct {
	Month string  `json:"month"`
	Sales float64 `json:"sales"`
}

type StockAlertEntry struct {
	Product    string `json:"product" validate:"required"`
	StockLevel int    `json:"stockLevel"`
	Message    string `json:"message"`
}

// AnalyticsInput is the data handed to the model for the dashboard.
type AnalyticsInput struct {
	SalesSummary
	SalesByCategory []CategorySales   `json:"sales_by_category"`
	InventoryHealth []StockLevel      `json:"inventory_health"`
	MonthlySales    []MonthlySales    `json:"monthly_sales"`
	StockAlerts     []StockAlertEntry `json:"stock_alerts"`
	TotalProducts   int64             `json:"total_products"`
	TotalInventory  int64             `json:"total_inventory"`
	RecentOrders    []RecentOrder     `json:"recent_orders"`
}

// Dashboard is the fixed shape the model must return for /analytics/.
type Dashboard struct {
	KPIs              KPIs              `json:"kpis"`
	MonthlySalesTrend []TrendPoint      `json:"monthlySalesTrend" validate:"dive"`
	SalesByCategory   []CategorySlice   `json:"salesByCategory" validate:"dive"`
	InventoryHealth   InventoryHealth   `json:"inventoryHealth"`
	RecentOrders      []RecentOrder     `json:"recentOrders" validate:"dive"`
	StockAlerts       []StockAlertEntry `json:"stockAlerts" validate:"dive"`
}

type KPIs struct {
	TotalRevenue      float64         `json:"totalRevenue" validate:"gte=0"`
	AverageOrderValue float64         `json:"averageOrderValue" validate:"gte=0"`
	TotalOrders       int64           `json:"totalOrders" validate:"gte=0"`
	TotalProducts     int64           `json:"totalProducts" validate:"gte=0"`
	TotalInventory    int64           `json:"totalInventory" validate:"gte=0"`
	TopCategories     []CategorySlice `json:"topCategories" validate:"max=3,dive"`
}

type TrendPoint struct {
	Month      string  `json:"month" validate:"required"`
	TotalSales float64 `json:"totalSales"`
}

type CategorySlice struct {
	Category string  `json:"category"`
	Sales    float64 `json:"sales"`
}

type InventoryHealth struct {
	TotalProductsInStock int64 `json:"totalProductsInStock" validate:"gte=0"`
	LowStockItems        int64 `json:"lowStockItems" validate:"gte=0"`
	OutOfStockItems      int64 `json:"outOfStockItems" validate:"gte=0"`
}

type RecentOrder struct {
	OrderNumber  string  `db:"order_number" json:"orderNumber" validate:"required"`
	CustomerName string  `db:"customer_name" json:"customerName"`
	TotalAmount  float64 `db:"total_amount" json:"totalAmount"`
	Date         string  `db:"order_date" json:"date"`
}

// ForecastRow is one product line submitted to /inventory-forecast/.
type ForecastRow struct {
	ProductName    string  `json:"product_name" validate:"required"`
	Category       string  `json:"category"`
	Price          float64 `json:"price" validate:"gte=0"`
	Stock          float64 `json:"stock" validate:"gte=0"`
	SalesLastMonth float64 `json:"sales_last_month" validate:"gte=0"`
}

type InventoryAnalysis struct {
	Status   string   `json:"status"`
	Insights []string `json:"insights"`
}

type InventoryForecast struct {
	Forecast           []DemandPrediction `json:"forecast"`
	InventoryAnalysis  InventoryAnalysis  `json:"inventory_analysis"`
	FastMovingProducts []string           `json:"fast_moving_products"`
	SlowMovingProducts []string           `json:"slow_moving_products"`
}

// InventoryStats summarises the product table for the assistant.
type InventoryStats struct {
	TotalProducts int64            `db:"total_products" json:"total_products"`
	LowStock      int64            `db:"low_stock" json:"low_stock"`
	OutOfStock    int64            `db:"out_of_stock" json:"out_of_stock"`
	Categories    int64            `db:"categories" json:"categories"`
	TotalValue    float64          `db:"total_value" json:"total_value"`
	AvgPrice      float64          `db:"avg_price" json:"avg_price"`
	TopCategories []CategoryValue  `db:"-" json:"top_categories"`
	Breakdown     map[string]int64 `db:"-" json:"categories_breakdown,omitempty"`
}

type CategoryValue struct {
	Category string  `db:"category" json:"category"`
	Value    float64 `db:"value" json:"value"`
}

type Activity struct {
	Orders          int64 `db:"orders" json:"orders"`
	NewProducts     int64 `db:"new_products" json:"new_products"`
	UpdatedProducts int64 `db:"updated_products" json:"updated_products"`
}

type StockedProduct struct {
	Name            string `db:"name" json:"name"`
	Category        string `db:"category" json:"category"`
	QuantityInStock int    `db:"quantity_in_stock" json:"quantity_in_stock"`
	ThresholdLevel  int    `db:"threshold_level" json:"threshold_level"`
}
