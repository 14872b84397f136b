package parser

import (
	"fmt"
	"strings"

	"github.com/ukaji3/sheetpeek-go/pkg/sheetpeek/models"
	"github.com/xuri/excelize/v2"
)

// ParseRange parses a range string like $A$1:$D$10 or a single cell like B8.
// The bounds are normalized so that R1 <= R2 and C1 <= C2.
func ParseRange(ref string) (models.Range, error) {
	area := parseRangeToArea(ref)
	if area == nil {
		return models.Range{}, fmt.Errorf("invalid range %q", ref)
	}
	return *area, nil
}

// ParseSheetRange parses a range that may be qualified with a sheet name.
// Format: 'Sheet Name'!$A$1:$D$10, SheetName!A1:D10 or A1:D10.
func ParseSheetRange(ref string) (string, models.Range, error) {
	var sheet string
	rangeStr := strings.TrimSpace(ref)

	// Split by ! to separate sheet name and range
	if idx := strings.LastIndex(rangeStr, "!"); idx >= 0 {
		sheet = rangeStr[:idx]
		rangeStr = rangeStr[idx+1:]

		// Remove quotes from sheet name
		sheet = strings.Trim(sheet, "'")
		sheet = strings.ReplaceAll(sheet, "''", "'")
	}

	area, err := ParseRange(rangeStr)
	if err != nil {
		return "", models.Range{}, err
	}
	return sheet, area, nil
}

// FormatRange renders a range in A1:D10 notation.
func FormatRange(area models.Range) (string, error) {
	start, err := excelize.CoordinatesToCellName(area.C1, area.R1)
	if err != nil {
		return "", err
	}
	end, err := excelize.CoordinatesToCellName(area.C2, area.R2)
	if err != nil {
		return "", err
	}
	if start == end {
		return start, nil
	}
	return start + ":" + end, nil
}

// parseRangeToArea parses a range string like $A$1:$D$10 to a Range.
func parseRangeToArea(rangeStr string) *models.Range {
	// Remove $ signs
	rangeStr = strings.ReplaceAll(strings.TrimSpace(rangeStr), "$", "")

	// Split by :
	parts := strings.Split(rangeStr, ":")
	if len(parts) == 1 {
		parts = append(parts, parts[0])
	}
	if len(parts) != 2 {
		return nil
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return nil
	}

	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return nil
	}

	if endRow < startRow {
		startRow, endRow = endRow, startRow
	}
	if endCol < startCol {
		startCol, endCol = endCol, startCol
	}

	return &models.Range{
		R1: startRow,
		C1: startCol,
		R2: endRow,
		C2: endCol,
	}
}
