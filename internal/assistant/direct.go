package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/analytics"
	analyticsdto "github.com/fekuna/omnipos-inventory-service/internal/analytics/dto"
)

type directQuery struct {
	phrases []string
	answer  func(ctx context.Context, repo analytics.Repository) (string, error)
}

// Order matters: "out of stock" must win over the generic stock phrases.
var directQueries = []directQuery{
	{
		phrases: []string{"out of stock", "out-of-stock", "zero stock"},
		answer: func(ctx context.Context, repo analytics.Repository) (string, error) {
			products, err := repo.OutOfStock(ctx)
			if err != nil {
				return "", err
			}
			if len(products) == 0 {
				return "No products are out of stock.", nil
			}
			return "Out of stock products: " + joinProducts(products, false) + ".", nil
		},
	},
	{
		phrases: []string{"low stock", "need restocking", "needs restocking"},
		answer: func(ctx context.Context, repo analytics.Repository) (string, error) {
			products, err := repo.CriticalStock(ctx)
			if err != nil {
				return "", err
			}
			if len(products) == 0 {
				return "All products are well-stocked.", nil
			}
			return "Products that need restocking: " + joinProducts(products, true) + ".", nil
		},
	},
	{
		phrases: []string{"how many products", "product count", "total products", "number of products"},
		answer: func(ctx context.Context, repo analytics.Repository) (string, error) {
			stats, err := repo.InventoryStats(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Total product count: %d", stats.TotalProducts), nil
		},
	},
	{
		phrases: []string{"how many orders", "order count", "total orders", "number of orders"},
		answer: func(ctx context.Context, repo analytics.Repository) (string, error) {
			n, err := repo.OrderCount(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Total orders placed: %d", n), nil
		},
	},
	{
		phrases: []string{"inventory value", "stock value", "value of inventory", "value of my inventory"},
		answer: func(ctx context.Context, repo analytics.Repository) (string, error) {
			stats, err := repo.InventoryStats(ctx)
			if err != nil {
				return "", err
			}
			return "Total inventory value: " + analytics.FormatMoney(stats.TotalValue), nil
		},
	},
}

// DirectAnswer answers simple factual questions straight from the database.
// It reports false when the query needs the model.
func DirectAnswer(ctx context.Context, repo analytics.Repository, query string) (string, bool, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, dq := range directQueries {
		for _, phrase := range dq.phrases {
			if strings.Contains(q, phrase) {
				answer, err := dq.answer(ctx, repo)
				return answer, err == nil, err
			}
		}
	}
	return "", false, nil
}

func joinProducts(products []analyticsdto.StockedProduct, withStock bool) string {
	parts := make([]string, 0, len(products))
	for _, p := range products {
		if withStock {
			parts = append(parts, fmt.Sprintf("%s (Stock: %d)", p.Name, p.QuantityInStock))
		} else {
			parts = append(parts, p.Name)
		}
	}
	return strings.Join(parts, ", ")
}
