// Package xlsx renders reports as Excel workbooks.
package xlsx

import (
	"fmt"
	"io"

	"github.com/SscSPs/partsledger/internal/core/domain"
	portssvc "github.com/SscSPs/partsledger/internal/core/ports/services"
	"github.com/xuri/excelize/v2"
)

// StockRegisterSheet is the sheet holding the register rows.
const StockRegisterSheet = "Stock Register"

// StockRegisterHeaders are the column titles of the register, in order.
var StockRegisterHeaders = []string{
	"SKU", "Name", "Category", "OEM Part No", "Unit", "Quantity", "Reorder Level",
	"Average Cost", "Stock Value", "Sale Rate", "MRP", "Location", "Low Stock",
}

var columnWidths = map[string]float64{"A": 14, "B": 32, "C": 16, "D": 16, "L": 14}

// StockRegisterWriter writes the stock register workbook.
type StockRegisterWriter struct{}

// NewStockRegisterWriter creates a StockRegisterWriter.
func NewStockRegisterWriter() *StockRegisterWriter {
	return &StockRegisterWriter{}
}

var _ portssvc.StockRegisterExporter = (*StockRegisterWriter)(nil)

// WriteStockRegister writes one row per item below a header row.
func (e *StockRegisterWriter) WriteStockRegister(w io.Writer, items []domain.StockItem) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", StockRegisterSheet); err != nil {
		return fmt.Errorf("failed to name register sheet: %w", err)
	}

	header := make([]any, len(StockRegisterHeaders))
	for i, h := range StockRegisterHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(StockRegisterSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write register header: %w", err)
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			item.SKU,
			item.Name,
			deref(item.Category),
			deref(item.OEMPartNo),
			item.Unit,
			item.CurrentQty.InexactFloat64(),
			item.ReorderLevel.InexactFloat64(),
			item.AverageCost.InexactFloat64(),
			item.CurrentQty.Mul(item.AverageCost).Round(2).InexactFloat64(),
			item.SaleRate.InexactFloat64(),
			item.MRP.InexactFloat64(),
			deref(item.Location),
			lowStockLabel(item),
		}
		if err := f.SetSheetRow(StockRegisterSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write register row for %s: %w", item.SKU, err)
		}
	}

	for col, width := range columnWidths {
		if err := f.SetColWidth(StockRegisterSheet, col, col, width); err != nil {
			return err
		}
	}
	if err := f.SetPanes(StockRegisterSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze register header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write stock register: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func lowStockLabel(item domain.StockItem) string {
	if item.IsLowStock() {
		return "YES"
	}
	return ""
}
