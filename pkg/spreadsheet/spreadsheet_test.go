package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	data := "Product_Name, Category,Price,Stock,Sales_Last_Month\nWidget,Tools,9.99,4,10\n,,,,\nGadget,Toys,5,20,2\n"
	rows, err := Read("upload.CSV", strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Widget", rows[0]["product_name"])
	assert.Equal(t, "Tools", rows[0]["category"])
	assert.Equal(t, "2", rows[1]["sales_last_month"])
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"name", "price", "quantity_in_stock"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Widget", 9.5, 3}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := Read("inventory.xlsx", &buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Widget", rows[0]["name"])
	assert.Equal(t, "9.5", rows[0]["price"])
	assert.Equal(t, "3", rows[0]["quantity_in_stock"])
}

func TestReadRejectsUnknownType(t *testing.T) {
	_, err := Read("notes.txt", strings.NewReader("x"))
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestMissingColumns(t *testing.T) {
	rows := []Row{{"product_name": "a", "stock": "1"}}
	assert.Equal(t, []string{"price"}, MissingColumns(rows, "product_name", "price", "stock"))
	assert.Equal(t, []string{"a", "b"}, MissingColumns(nil, "a", "b"))
}
