package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"testing"
	"time"

	"pricy/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func samplePrices(t *testing.T) []model.Price {
	t.Helper()

	dates := []string{"2024-01-01", "2024-02-01", "2024-02-01"}
	amounts := []float64{3.50, 4.00, 3.75}
	concessions := []string{"Gate12", "Gate12", "CityMart"}
	notes := []string{"small cup", "", "with, comma"}

	prices := make([]model.Price, len(dates))
	for i := range dates {
		date, err := time.Parse(model.DateLayout, dates[i])
		require.NoError(t, err)
		prices[i] = model.Price{
			ID:         int64(i + 1),
			Product:    "Coffee",
			Concession: concessions[i],
			Amount:     amounts[i],
			Date:       date,
			Notes:      notes[i],
		}
	}
	return prices
}

func TestCSV_RoundTrip(t *testing.T) {
	prices := samplePrices(t)

	data, err := CSV(prices)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(prices)+1)

	assert.Equal(t, []string{"Product", "Concession", "Price", "Date", "Notes"}, records[0])

	// Parsing the export reproduces the input rows in order.
	for i, p := range prices {
		row := records[i+1]
		assert.Equal(t, p.Product, row[0])
		assert.Equal(t, p.Concession, row[1])
		assert.Equal(t, fmt.Sprintf("%.2f", p.Amount), row[2])
		assert.Equal(t, p.Date.Format(model.DateLayout), row[3])
		assert.Equal(t, p.Notes, row[4])
	}
}

func TestCSV_EmptyInput(t *testing.T) {
	data, err := CSV(nil)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"Product", "Concession", "Price", "Date", "Notes"}, records[0])
}

func TestCSV_Deterministic(t *testing.T) {
	prices := samplePrices(t)

	first, err := CSV(prices)
	require.NoError(t, err)
	second, err := CSV(prices)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWorkbook_RoundTrip(t *testing.T) {
	prices := samplePrices(t)

	data, err := Workbook(prices)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, len(prices)+1)

	assert.Equal(t, []string{"Product", "Concession", "Price", "Date", "Notes"}, rows[0])

	for i, p := range prices {
		row := rows[i+1]
		assert.Equal(t, p.Product, row[0])
		assert.Equal(t, p.Concession, row[1])
		assert.Equal(t, p.Date.Format(model.DateLayout), row[3])
	}
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "Coffee_prices.csv", CSVFilename("Coffee"))
	assert.Equal(t, "Coffee_prices.xlsx", WorkbookFilename("Coffee"))

	// Path separators must not leak into download filenames.
	assert.Equal(t, "Fish_Chips_prices.csv", CSVFilename("Fish/Chips"))
}
