package assistant

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/analytics"
	analyticsdto "github.com/fekuna/omnipos-inventory-service/internal/analytics/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
)

const (
	SourceDatabase    = "Database"
	SourceSpreadsheet = "Uploaded spreadsheet"
)

// PromptContext is everything the assistant knows when it asks the model.
type PromptContext struct {
	Source        string
	TotalProducts int64
	Categories    int64
	TotalValue    float64
	AvgPrice      float64
	LowStock      int64
	OutOfStock    int64
	Breakdown     map[string]int64
	TopCategories []analyticsdto.CategoryValue
	Analysis      analyticsdto.InventoryAnalysis
	// Activity is only known for the live database.
	Activity *analyticsdto.Activity
	History  []model.ChatMessage
}

// BuildPrompt renders the system context followed by the user's question.
func BuildPrompt(pc *PromptContext, query string) string {
	var b strings.Builder
	b.WriteString("You are StockPilot, an advanced AI inventory management assistant. ")
	b.WriteString("Respond professionally using markdown formatting. ")
	b.WriteString("Always reference specific numbers and metrics when available.\n")

	fmt.Fprintf(&b, "\n## Data Source: %s\n", pc.Source)

	b.WriteString("\n## Current Inventory Statistics\n")
	fmt.Fprintf(&b, "- Total Products: %d\n", pc.TotalProducts)
	fmt.Fprintf(&b, "- Categories: %d\n", pc.Categories)
	fmt.Fprintf(&b, "- Total Value: %s\n", analytics.FormatMoney(pc.TotalValue))
	fmt.Fprintf(&b, "- Average Price: %s\n", analytics.FormatMoney(pc.AvgPrice))

	b.WriteString("\n## Stock Status\n")
	fmt.Fprintf(&b, "- Low Stock Items: %d\n", pc.LowStock)
	fmt.Fprintf(&b, "- Out of Stock Items: %d\n", pc.OutOfStock)

	if len(pc.TopCategories) > 0 {
		b.WriteString("\n## Top Categories by Value\n")
		for _, c := range pc.TopCategories {
			fmt.Fprintf(&b, "- %s: %s\n", categoryLabel(c.Category), analytics.FormatMoney(c.Value))
		}
	}

	if len(pc.Breakdown) > 0 {
		b.WriteString("\n## Category Breakdown\n")
		names := make([]string, 0, len(pc.Breakdown))
		for name := range pc.Breakdown {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "- %s: %d products\n", name, pc.Breakdown[name])
		}
	}

	b.WriteString("\n## Inventory Analysis\n")
	fmt.Fprintf(&b, "- Status: %s\n", pc.Analysis.Status)
	for _, insight := range pc.Analysis.Insights {
		fmt.Fprintf(&b, "- %s\n", insight)
	}

	if pc.Activity != nil {
		b.WriteString("\n## Activity (last 30 days)\n")
		fmt.Fprintf(&b, "- Orders: %d\n", pc.Activity.Orders)
		fmt.Fprintf(&b, "- New Products: %d\n", pc.Activity.NewProducts)
		fmt.Fprintf(&b, "- Inventory Transactions: %d\n", pc.Activity.UpdatedProducts)
	}

	if len(pc.History) > 0 {
		b.WriteString("\n## Recent Conversation\n")
		for _, m := range pc.History {
			speaker := "User"
			if m.Sender == model.SenderBot {
				speaker = "Assistant"
			}
			fmt.Fprintf(&b, "%s: %s\n", speaker, m.Text)
		}
	}

	fmt.Fprintf(&b, "\n## Question\n%s\n", query)
	return b.String()
}

func categoryLabel(c string) string {
	if c == "" {
		return "Uncategorized"
	}
	return c
}

const sheetPrompt = `You are an inventory analyst. Below is product data uploaded as a spreadsheet, with summary statistics:
%s

Analyze this inventory and return ONLY a JSON object with exactly these keys:
{"summary": string, "recommendations": [string]}
The summary is a short paragraph. Each recommendation is one concrete action. No extra commentary.`

func SheetPrompt(data []byte) string {
	return fmt.Sprintf(sheetPrompt, data)
}
