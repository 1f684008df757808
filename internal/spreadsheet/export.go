package spreadsheet

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dockside/truck-management/internal/core/domain"
)

var exportHeader = []string{
	"Terminal", "Truck No", "Dock Code", "Route",
	"Prep Start", "Prep End", "Load Start", "Load End",
	"Status Prep", "Status Load", "Created Date", "Last Updated",
}

// WriteTrucks renders trucks into an xlsx workbook with a styled header
// row and returns the serialized bytes.
func WriteTrucks(trucks []*domain.Truck) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Trucks"
	f.SetSheetName(f.GetSheetName(0), sheet)

	if err := writeHeader(f, sheet, exportHeader, "4CAF50"); err != nil {
		return nil, err
	}

	for i, t := range trucks {
		row := i + 2
		updated := ""
		if t.UpdatedAt != nil {
			updated = t.UpdatedAt.UTC().Format(time.RFC3339)
		}
		values := []any{
			t.Terminal, t.TruckNo, t.DockCode, t.TruckRoute,
			deref(t.PreparationStart), deref(t.PreparationEnd),
			deref(t.LoadingStart), deref(t.LoadingEnd),
			string(t.StatusPreparation), string(t.StatusLoading),
			t.CreatedAt.UTC().Format(time.RFC3339), updated,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "L", 16); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Template builds the import template workbook: a Template sheet with the
// expected headers and example rows, plus an Instructions sheet.
func Template() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Template"
	f.SetSheetName(f.GetSheetName(0), sheet)

	header := []string{
		"Terminal", "Truck No", "Dock Code", "Route",
		"Prep Start", "Prep End", "Load Start", "Load End",
		"Status Prep", "Status Load",
	}
	if err := writeHeader(f, sheet, header, "2196F3"); err != nil {
		return nil, err
	}

	examples := [][]any{
		{"A", "TRK001", "DOCK-A1", "Bangkok-Chonburi", "08:00", "08:30", "09:00", "10:00", "Finished", "Finished"},
		{"B", "TRK002", "DOCK-B1", "Bangkok-Rayong", "09:00", "09:30", "10:00", "", "Finished", "On Process"},
		{"C", "TRK003", "DOCK-C1", "Bangkok-Pattaya", "10:00", "", "", "", "On Process", "On Process"},
	}
	for i, row := range examples {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	if err := f.SetColWidth(sheet, "A", "J", 14); err != nil {
		return nil, err
	}

	const instructions = "Instructions"
	if _, err := f.NewSheet(instructions); err != nil {
		return nil, err
	}
	lines := []string{
		"Import Instructions:",
		"",
		"1. Fill in the Template sheet with your truck data",
		"2. Required fields: Terminal, Truck No, Dock Code, Route",
		"3. Optional fields: Time fields and Status fields",
		"4. Valid status values: \"On Process\", \"Delay\", \"Finished\"",
		"5. Time format: HH:MM (24-hour format)",
		"6. Save the file and upload through the Management page",
	}
	for i, line := range lines {
		if err := f.SetCellValue(instructions, fmt.Sprintf("A%d", i+1), line); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, header []string, color string) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}

	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
