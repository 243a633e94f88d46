// Package excel renders tabular results as spreadsheet report files.
package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"chatbi/domain/table"
)

// DefaultSheetName is used when the caller does not name the report sheet
const DefaultSheetName = "Report"

// WriteResult renders a result as a single-sheet workbook: a header row from
// the column list, then one row per data row in column order.
func WriteResult(res *table.Result, sheetName string) (*excelize.File, error) {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, name := range res.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for rowIdx, row := range res.Rows {
		for col, name := range res.Columns {
			v := row[name]
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	return f, nil
}

// ExportResult writes the workbook for a result to w
func ExportResult(w io.Writer, res *table.Result, sheetName string) error {
	f, err := WriteResult(res, sheetName)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
