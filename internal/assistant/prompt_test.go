package assistant

import (
	"strings"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/analytics"
	analyticsdto "github.com/fekuna/omnipos-inventory-service/internal/analytics/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestBuildPromptDatabase(t *testing.T) {
	pc := &PromptContext{
		Source:        SourceDatabase,
		TotalProducts: 10,
		Categories:    2,
		TotalValue:    1500,
		AvgPrice:      25,
		LowStock:      3,
		OutOfStock:    1,
		TopCategories: []analyticsdto.CategoryValue{{Category: "", Value: 900}, {Category: "Tools", Value: 600}},
		Analysis:      analytics.Analyze(1500, 3, 10),
		Activity:      &analyticsdto.Activity{Orders: 4, NewProducts: 2, UpdatedProducts: 9},
		History: []model.ChatMessage{
			{Sender: model.SenderUser, Text: "hi"},
			{Sender: model.SenderBot, Text: "hello"},
		},
	}

	p := BuildPrompt(pc, "What should I reorder?")

	assert.True(t, strings.HasPrefix(p, "You are StockPilot"))
	assert.Contains(t, p, "## Data Source: Database")
	assert.Contains(t, p, "- Total Value: $1,500.00")
	assert.Contains(t, p, "- Uncategorized: $900.00")
	assert.Contains(t, p, "- Status: Critical")
	assert.Contains(t, p, "- Orders: 4")
	assert.Contains(t, p, "User: hi\nAssistant: hello\n")
	assert.True(t, strings.HasSuffix(p, "## Question\nWhat should I reorder?\n"))
	assert.NotContains(t, p, "## Category Breakdown")
}

func TestBuildPromptSpreadsheet(t *testing.T) {
	pc := &PromptContext{
		Source:    SourceSpreadsheet,
		Breakdown: map[string]int64{"Tools": 2, "Paint": 1},
		Analysis:  analytics.Analyze(0, 0, 3),
	}

	p := BuildPrompt(pc, "summary")

	assert.Contains(t, p, "## Data Source: Uploaded spreadsheet")
	assert.Less(t, strings.Index(p, "- Paint: 1 products"), strings.Index(p, "- Tools: 2 products"))
	assert.NotContains(t, p, "## Activity")
	assert.NotContains(t, p, "## Recent Conversation")
}

func TestSheetPrompt(t *testing.T) {
	p := SheetPrompt([]byte(`{"products":[]}`))
	assert.Contains(t, p, `{"products":[]}`)
	assert.Contains(t, p, `"recommendations"`)
}
