package xlsx

import (
	"bytes"
	"testing"

	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteStockRegister(t *testing.T) {
	category := "Brakes"
	items := []domain.StockItem{
		{
			SKU:          "BRK-001",
			Name:         "Brake Pad Set",
			Category:     &category,
			Unit:         "SET",
			CurrentQty:   decimal.NewFromInt(4),
			ReorderLevel: decimal.NewFromInt(10),
			AverageCost:  decimal.RequireFromString("450.50"),
			SaleRate:     decimal.NewFromInt(650),
			MRP:          decimal.NewFromInt(700),
		},
		{
			SKU:          "FLT-010",
			Name:         "Oil Filter",
			Unit:         "PCS",
			CurrentQty:   decimal.NewFromInt(40),
			ReorderLevel: decimal.NewFromInt(10),
			AverageCost:  decimal.NewFromInt(120),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewStockRegisterWriter().WriteStockRegister(&buf, items))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(StockRegisterSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, StockRegisterHeaders, rows[0])

	assert.Equal(t, "BRK-001", rows[1][0])
	assert.Equal(t, "Brakes", rows[1][2])
	assert.Equal(t, "1802", rows[1][8])
	assert.Equal(t, "YES", rows[1][12])

	assert.Equal(t, "Oil Filter", rows[2][1])
	assert.Equal(t, "", rows[2][2])
	assert.Equal(t, "4800", rows[2][8])
}

func TestWriteStockRegisterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewStockRegisterWriter().WriteStockRegister(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(StockRegisterSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
