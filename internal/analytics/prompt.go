package analytics

import (
	"encoding/json"
	"fmt"
)

const demandPrompt = `You are an AI-powered inventory forecasting system. Given the following sales data:
%s

Predict the demand for each product over the next 30 days.
Provide output as a JSON list where every element has exactly these keys:
- "product_name" (string)
- "predicted_sales" (number, units over the next 30 days)
- "confidence_score" (number between 0 and 1)
Return ONLY valid JSON with no extra commentary.`

const dashboardPrompt = `Please generate AI-driven insights and data visualizations for a professional analytics dashboard.
Below is the analytics data computed from our system:
%s

Based on the above data, create a JSON response with exactly this structure and these keys:
{
  "kpis": {
    "totalRevenue": number,
    "averageOrderValue": number,
    "totalOrders": integer,
    "totalProducts": integer,
    "totalInventory": integer,
    "topCategories": [{"category": string, "sales": number}]  (at most 3, the top selling categories)
  },
  "monthlySalesTrend": [{"month": "YYYY-MM", "totalSales": number}],
  "salesByCategory": [{"category": string, "sales": number}],
  "inventoryHealth": {"totalProductsInStock": integer, "lowStockItems": integer, "outOfStockItems": integer},
  "recentOrders": [{"orderNumber": string, "customerName": string, "totalAmount": number, "date": "YYYY-MM-DD"}]  (the 5 most recent orders),
  "stockAlerts": [{"product": string, "stockLevel": integer, "message": string}]
}
Return ONLY a JSON object matching the structure above with no additional commentary.`

// DemandPrompt embeds per-product sales in the demand forecast prompt.
func DemandPrompt(data interface{}) (string, error) {
	return render(demandPrompt, data)
}

func DashboardPrompt(data interface{}) (string, error) {
	return render(dashboardPrompt, data)
}

func render(tmpl string, data interface{}) (string, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal prompt data: %w", err)
	}
	return fmt.Sprintf(tmpl, b), nil
}
