// Package xlsxexport renders report tables as Excel workbooks.
package xlsxexport

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"nfextract/internal/report"
)

// SheetName is the single sheet every export writes to.
const SheetName = "Relatorio"

// Write renders t into an XLSX workbook and returns its bytes.
func Write(t *report.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("xlsxexport.Write: %w", err)
	}

	if err := writeRow(f, 1, t.Headers()); err != nil {
		return nil, err
	}
	for i, row := range t.Rows {
		if err := writeRow(f, i+2, row); err != nil {
			return nil, err
		}
	}

	if len(t.Columns) > 0 {
		last, _ := excelize.ColumnNumberToName(len(t.Columns))
		_ = f.SetColWidth(SheetName, "A", last, 20)
		if err := f.SetPanes(SheetName, &excelize.Panes{
			Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
		}); err != nil {
			return nil, fmt.Errorf("xlsxexport.Write: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsxexport.Write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("xlsxexport.writeRow: %w", err)
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
		return fmt.Errorf("xlsxexport.writeRow: %w", err)
	}
	return nil
}
