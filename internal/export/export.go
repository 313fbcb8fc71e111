// Package export serialises price observations to downloadable formats.
// Both serialisations are pure functions of the input sequence and preserve
// its order.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"pricy/internal/model"

	"github.com/xuri/excelize/v2"
)

// MIME types for the two download formats.
const (
	MIMECSV      = "text/csv"
	MIMEWorkbook = "application/vnd.ms-excel"
)

// SheetName is the single sheet in the exported workbook.
const SheetName = "Price Data"

var header = []string{"Product", "Concession", "Price", "Date", "Notes"}

// CSV serialises the observations to a UTF-8 delimited table with a header
// row.
func CSV(prices []model.Price) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, p := range prices {
		record := []string{
			p.Product,
			p.Concession,
			fmt.Sprintf("%.2f", p.Amount),
			p.Date.Format(model.DateLayout),
			p.Notes,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Workbook serialises the observations to a single-sheet xlsx workbook.
func Workbook(prices []model.Price) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetCellValue(SheetName, cell, name); err != nil {
			return nil, fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	for i, p := range prices {
		row := i + 2
		values := []interface{}{
			p.Product,
			p.Concession,
			p.Amount,
			p.Date.Format(model.DateLayout),
			p.Notes,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to compute cell name: %w", err)
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// CSVFilename returns the download filename for a product's CSV export.
func CSVFilename(product string) string {
	return sanitise(product) + "_prices.csv"
}

// WorkbookFilename returns the download filename for a product's xlsx export.
func WorkbookFilename(product string) string {
	return sanitise(product) + "_prices.xlsx"
}

// sanitise replaces characters that are unsafe in filenames or header values.
func sanitise(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		"\"", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"<", "_",
		">", "_",
		"|", "_",
		"\r", "_",
		"\n", "_",
	)
	return replacer.Replace(name)
}
