package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ecpulse/pkg/contracts/domain"
)

func TestWriteWorkbook(t *testing.T) {
	dir := t.TempDir()
	w := NewExcelWriter(dir, nil)

	summary := domain.NewTable("total_amount", "orders")
	summary.Append(600.0, 3)

	series := domain.NewTable("bucket", "raw_value", "smoothed_value")
	series.Append("2024-01-01", 100.0, nil)
	series.Append("2024-01-02", 300.0, 200.0)

	err := w.WriteWorkbook("report.xlsx", []Sheet{
		{Name: "Summary", Table: summary},
		{Name: "Daily Series", Table: series},
	})
	require.NoError(t, err)

	f, err := excelize.OpenFile(filepath.Join(dir, "report.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Daily Series"}, f.GetSheetList())

	value, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "total_amount", value)

	value, err = f.GetCellValue("Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, "600", value)

	// Unfilled window cells stay empty.
	value, err = f.GetCellValue("Daily Series", "C2")
	require.NoError(t, err)
	assert.Equal(t, "", value)

	value, err = f.GetCellValue("Daily Series", "C3")
	require.NoError(t, err)
	assert.Equal(t, "200", value)
}

func TestWriteWorkbookNoSheets(t *testing.T) {
	w := NewExcelWriter(t.TempDir(), nil)
	err := w.WriteWorkbook("empty.xlsx", nil)
	assert.Error(t, err)
}
