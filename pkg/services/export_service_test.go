package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	generatedAt := time.Date(2024, 3, 4, 9, 5, 7, 0, time.Local)

	err := NewExportService().WriteWorkbook(&buf, pizzaMonday, generatedAt)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Forecast")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Dish", "Day", "Mean", "Low (P10)", "High (P90)", "Generated At"}, rows[0])
	assert.Equal(t, []string{"pizza", "monday", "42", "30", "56", "2024-03-04 09:05:07"}, rows[1])

	for _, cell := range []string{"A1", "F1"} {
		styleID, err := f.GetCellStyle("Forecast", cell)
		require.NoError(t, err)
		style, err := f.GetStyle(styleID)
		require.NoError(t, err)
		require.NotNil(t, style.Font, cell)
		assert.True(t, style.Font.Bold, cell)
	}
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "forecast_pizza_monday.xlsx", ExportFileName(pizzaMonday))
}
