package service

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Aashish23092/ocr-form-extractor/utils/kvextract"
)

const fieldsSheet = "Fields"

var exportHeaders = []string{"Key", "Value"}

// ExportService writes extracted fields as spreadsheet files.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// WriteCSV writes a Key,Value header followed by one row per field.
func (s *ExportService) WriteCSV(w io.Writer, fields []kvextract.Field) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeaders); err != nil {
		return fmt.Errorf("csv write: %w", err)
	}
	for _, f := range fields {
		if err := cw.Write([]string{f.Key, f.Value}); err != nil {
			return fmt.Errorf("csv write: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the fields to a single "Fields" sheet.
func (s *ExportService) WriteXLSX(w io.Writer, fields []kvextract.Field) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(fieldsSheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	index, err := f.GetSheetIndex(fieldsSheet)
	if err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	f.SetActiveSheet(index)

	if err := setRow(f, 1, exportHeaders...); err != nil {
		return err
	}
	for i, field := range fields {
		if err := setRow(f, i+2, field.Key, field.Value); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(fieldsSheet, "A", "A", 28); err != nil {
		return fmt.Errorf("xlsx column width: %w", err)
	}
	if err := f.SetColWidth(fieldsSheet, "B", "B", 48); err != nil {
		return fmt.Errorf("xlsx column width: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values ...string) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("xlsx cell: %w", err)
		}
		if err := f.SetCellValue(fieldsSheet, cell, v); err != nil {
			return fmt.Errorf("xlsx cell %s: %w", cell, err)
		}
	}
	return nil
}
