package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/sheetpeek-go/pkg/sheetpeek/models"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/width"
)

// ValueOptions controls how cell text is turned into a value.
type ValueOptions struct {
	// RawValues disables number format rendering.
	RawValues bool
	// FoldWidth folds full-width characters to their narrow forms.
	FoldWidth bool
	// TrimSpace trims surrounding whitespace from string values.
	TrimSpace bool
}

// ReadCell reads a single cell by 1-based row and column.
func ReadCell(f *excelize.File, sheetName string, row, col int, opts ValueOptions) (models.Cell, error) {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return models.Cell{}, err
	}

	raw, err := f.GetCellValue(sheetName, ref, excelize.Options{RawCellValue: opts.RawValues})
	if err != nil {
		return models.Cell{}, err
	}

	cellType, err := f.GetCellType(sheetName, ref)
	if err != nil {
		return models.Cell{}, err
	}

	cell := models.Cell{
		Ref: ref,
		Row: row,
		Col: col,
		Raw: raw,
	}
	cell.Type = detectType(cellType, raw)
	if cell.Type != models.CellTypeEmpty {
		cell.Value = convertValue(cell.Type, raw, opts)
	}
	return cell, nil
}

// MaxRangeCells bounds the number of cells ReadRange reads at once.
const MaxRangeCells = 1 << 20

// ErrRangeTooLarge is returned for ranges above MaxRangeCells cells.
var ErrRangeTooLarge = errors.New("range too large")

// ReadRange reads the cells of an inclusive range, row-major.
func ReadRange(f *excelize.File, sheetName string, area models.Range, opts ValueOptions) ([][]models.Cell, error) {
	if int64(area.Rows())*int64(area.Cols()) > MaxRangeCells {
		return nil, fmt.Errorf("%w: %d x %d cells", ErrRangeTooLarge, area.Rows(), area.Cols())
	}
	rows := make([][]models.Cell, 0, area.Rows())
	for r := area.R1; r <= area.R2; r++ {
		row := make([]models.Cell, 0, area.Cols())
		for c := area.C1; c <= area.C2; c++ {
			cell, err := ReadCell(f, sheetName, r, c, opts)
			if err != nil {
				return nil, err
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// detectType maps the stored cell type to a models.CellType.
// Numbers written without an explicit type attribute report as unset.
func detectType(t excelize.CellType, raw string) models.CellType {
	if raw == "" {
		return models.CellTypeEmpty
	}
	switch t {
	case excelize.CellTypeBool:
		return models.CellTypeBool
	case excelize.CellTypeDate:
		return models.CellTypeDate
	case excelize.CellTypeError:
		return models.CellTypeError
	case excelize.CellTypeFormula:
		return models.CellTypeFormula
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return models.CellTypeString
	}
	if _, ok := parseValue(raw).(string); ok {
		return models.CellTypeString
	}
	return models.CellTypeNumber
}

func convertValue(t models.CellType, raw string, opts ValueOptions) interface{} {
	switch t {
	case models.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "TRUE")
	case models.CellTypeNumber:
		return parseValue(raw)
	}
	return NormalizeText(raw, opts)
}

// NormalizeText applies the width folding and trimming options to s.
func NormalizeText(s string, opts ValueOptions) string {
	if opts.FoldWidth {
		s = width.Fold.String(s)
	}
	if opts.TrimSpace {
		s = strings.TrimSpace(s)
	}
	return s
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	// Return as string
	return s
}
