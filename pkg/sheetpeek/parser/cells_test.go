package parser

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ukaji3/sheetpeek-go/pkg/sheetpeek/models"
	"github.com/xuri/excelize/v2"
)

func TestReadCell(t *testing.T) {
	// Create a temporary Excel file for testing
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	// Set some test data
	f.SetCellValue(sheetName, "A7", "Part Number")
	f.SetCellValue(sheetName, "B7", 100)
	f.SetCellValue(sheetName, "C7", 200.5)
	f.SetCellValue(sheetName, "D7", true)
	f.SetCellValue(sheetName, "E7", "  客户：L1001 ")

	// Save to temp file
	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	// Open and read
	f2, err := excelize.OpenFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	defer f2.Close()

	tests := []struct {
		row, col int
		opts     ValueOptions
		ref      string
		typ      models.CellType
		value    interface{}
	}{
		{7, 1, ValueOptions{}, "A7", models.CellTypeString, "Part Number"},
		{7, 2, ValueOptions{}, "B7", models.CellTypeNumber, int64(100)},
		{7, 3, ValueOptions{}, "C7", models.CellTypeNumber, 200.5},
		{7, 4, ValueOptions{}, "D7", models.CellTypeBool, true},
		{7, 5, ValueOptions{}, "E7", models.CellTypeString, "  客户：L1001 "},
		{7, 5, ValueOptions{FoldWidth: true, TrimSpace: true}, "E7", models.CellTypeString, "客户:L1001"},
		{8, 1, ValueOptions{}, "A8", models.CellTypeEmpty, nil},
	}

	for _, tt := range tests {
		cell, err := ReadCell(f2, sheetName, tt.row, tt.col, tt.opts)
		if err != nil {
			t.Fatalf("ReadCell(%d, %d) failed: %v", tt.row, tt.col, err)
		}
		if cell.Ref != tt.ref {
			t.Errorf("ReadCell(%d, %d).Ref = %q, expected %q", tt.row, tt.col, cell.Ref, tt.ref)
		}
		if cell.Type != tt.typ {
			t.Errorf("ReadCell(%d, %d).Type = %q, expected %q", tt.row, tt.col, cell.Type, tt.typ)
		}
		if cell.Value != tt.value {
			t.Errorf("ReadCell(%d, %d).Value = %v (type: %T), expected %v (type: %T)",
				tt.row, tt.col, cell.Value, cell.Value, tt.value, tt.value)
		}
	}
}

func TestReadCellInvalidCoordinates(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := ReadCell(f, "Sheet1", 0, 1, ValueOptions{}); err == nil {
		t.Error("Expected error for row 0")
	}
	if _, err := ReadCell(f, "Sheet1", 1, 0, ValueOptions{}); err == nil {
		t.Error("Expected error for column 0")
	}
}

func TestReadRange(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "A7", "Part Number")
	f.SetCellValue("Sheet1", "B7", "Description")
	f.SetCellValue("Sheet1", "A8", "L1001")

	rows, err := ReadRange(f, "Sheet1", models.Range{R1: 7, C1: 1, R2: 8, C2: 2}, ValueOptions{})
	if err != nil {
		t.Fatalf("ReadRange failed: %v", err)
	}
	if len(rows) != 2 || len(rows[0]) != 2 || len(rows[1]) != 2 {
		t.Fatalf("Expected 2x2 cells, got %v", rows)
	}
	if rows[0][1].Value != "Description" {
		t.Errorf("Expected 'Description', got %v", rows[0][1].Value)
	}
	if rows[1][0].Ref != "A8" || rows[1][0].Value != "L1001" {
		t.Errorf("Expected A8=L1001, got %s=%v", rows[1][0].Ref, rows[1][0].Value)
	}
	if !rows[1][1].IsEmpty() {
		t.Errorf("Expected B8 to be empty, got %v", rows[1][1].Value)
	}
}

func TestReadRangeTooLarge(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	whole := models.Range{R1: 1, C1: 1, R2: excelize.TotalRows, C2: excelize.MaxColumns}
	if _, err := ReadRange(f, "Sheet1", whole, ValueOptions{}); !errors.Is(err, ErrRangeTooLarge) {
		t.Errorf("ReadRange(A1:XFD1048576) error = %v, expected ErrRangeTooLarge", err)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"123", int64(123)},
		{"123.45", 123.45},
		{"-100", int64(-100)},
		{"hello", "hello"},
		{"", ""},
	}

	for _, tt := range tests {
		result := parseValue(tt.input)
		if result != tt.expected {
			t.Errorf("parseValue(%q) = %v (type: %T), expected %v (type: %T)",
				tt.input, result, result, tt.expected, tt.expected)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		input    string
		opts     ValueOptions
		expected string
	}{
		{"单号：A１２", ValueOptions{}, "单号：A１２"},
		{"单号：A１２", ValueOptions{FoldWidth: true}, "单号:A12"},
		{"  Part Number\t", ValueOptions{TrimSpace: true}, "Part Number"},
		{"ＡＢＣ ", ValueOptions{FoldWidth: true, TrimSpace: true}, "ABC"},
	}

	for _, tt := range tests {
		result := NormalizeText(tt.input, tt.opts)
		if result != tt.expected {
			t.Errorf("NormalizeText(%q, %+v) = %q, expected %q", tt.input, tt.opts, result, tt.expected)
		}
	}
}
