package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"ecpulse/pkg/contracts/domain"
)

// Sheet pairs a worksheet name with the table it holds.
type Sheet struct {
	Name  string
	Table *domain.Table
}

// ExcelWriter writes derived tables as multi-sheet Excel workbooks.
type ExcelWriter struct {
	baseDir string
	logger  *slog.Logger
}

// NewExcelWriter creates a new Excel writer. Relative file names are
// resolved against baseDir.
func NewExcelWriter(baseDir string, logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{baseDir: baseDir, logger: logger}
}

// WriteWorkbook writes one worksheet per sheet, header row styled bold,
// columns in table order. At least one sheet is required.
func (w *ExcelWriter) WriteWorkbook(filePath string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to write")
	}

	fullPath := filePath
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(w.baseDir, fullPath)
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			f.SetSheetName("Sheet1", sheet.Name)
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return fmt.Errorf("failed to create sheet %q: %w", sheet.Name, err)
			}
		}
		if err := w.writeSheet(f, sheet, headerStyle); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", sheet.Name, err)
		}
	}

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("wrote Excel workbook",
		slog.String("full_path", fullPath),
		slog.Int("sheet_count", len(sheets)))
	return nil
}

func (w *ExcelWriter) writeSheet(f *excelize.File, sheet Sheet, headerStyle int) error {
	table := sheet.Table
	for col, name := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet.Name, cell, name); err != nil {
			return err
		}
	}
	if len(table.Columns) > 0 {
		last, err := excelize.CoordinatesToCellName(len(table.Columns), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet.Name, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	for rowIdx, row := range table.Rows {
		for col, name := range table.Columns {
			value, ok := row[name]
			if !ok || value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet.Name, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}
