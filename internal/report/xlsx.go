// Package report renders low-stock reports as XLSX workbooks.
package report

import (
	"fmt"
	"io"

	"stockwatch/internal/core"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Low Stock"

var headings = []string{
	"Product ID", "Product", "SKU", "Warehouse ID", "Warehouse",
	"Current Stock", "Threshold", "Days Until Stockout",
	"Supplier ID", "Supplier", "Supplier Contact",
}

// NewLowStockWorkbook builds a single-sheet workbook, one row per alert.
// The caller must Close the returned file.
func NewLowStockWorkbook(r *core.AlertReport) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	for i, h := range headings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write heading: %w", err)
		}
	}

	for i, a := range r.Alerts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := []any{
			a.ProductID, a.ProductName, a.SKU, a.WarehouseID, a.WarehouseName,
			a.CurrentStock, a.Threshold, daysCell(a.DaysUntilStockout),
		}
		if a.Supplier != nil {
			row = append(row, a.Supplier.ID, a.Supplier.Name, a.Supplier.ContactEmail)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write alert row %d: %w", i+1, err)
		}
	}
	return f, nil
}

// WriteLowStock streams the workbook for r to w.
func WriteLowStock(w io.Writer, r *core.AlertReport) error {
	f, err := NewLowStockWorkbook(r)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveLowStock writes the workbook for r to filename.
func SaveLowStock(filename string, r *core.AlertReport) error {
	f, err := NewLowStockWorkbook(r)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// daysCell leaves the cell blank when no projection exists.
func daysCell(days *int) any {
	if days == nil {
		return ""
	}
	return *days
}
