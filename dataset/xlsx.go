package dataset

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// ConvertXLSX writes the first sheet of a Microsoft Excel workbook to a file
// of comma-separated values. The conversion is skipped when the CSV file
// already exists.
func ConvertXLSX(xlsxPath, csvPath string) error {
	if _, err := os.Stat(csvPath); err == nil {
		return nil
	}

	wb, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("opening workbook %s: %w", xlsxPath, err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("workbook %s has no sheets", xlsxPath)
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	out, err := os.Create(csvPath)
	if err != nil {
		return err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	// Rows returned by excelize drop trailing empty cells, so pad every
	// record to the header width.
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}
	for _, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
