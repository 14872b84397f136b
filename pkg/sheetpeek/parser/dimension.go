package parser

import (
	"github.com/ukaji3/sheetpeek-go/pkg/sheetpeek/models"
	"github.com/xuri/excelize/v2"
)

// SheetDimension returns the bounding box of non-empty cells in a sheet and
// the number of non-empty cells inside it. ok is false for an empty sheet.
func SheetDimension(f *excelize.File, sheetName string) (area models.Range, nonEmpty int, ok bool, err error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return models.Range{}, 0, false, err
	}

	area, ok = DataBounds(rows)
	if !ok {
		return models.Range{}, 0, false, nil
	}
	nonEmpty = countNonEmptyCells(rows, area.R1-1, area.R2-1, area.C1-1, area.C2-1)
	return area, nonEmpty, true, nil
}

// DataBounds finds the 1-based bounding box of non-empty cells.
func DataBounds(rows [][]string) (models.Range, bool) {
	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return models.Range{}, false
	}
	return models.Range{
		R1: minRow + 1,
		C1: minCol + 1,
		R2: maxRow + 1,
		C2: maxCol + 1,
	}, true
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			if minRow < 0 || rowIdx < minRow {
				minRow = rowIdx
			}
			if maxRow < 0 || rowIdx > maxRow {
				maxRow = rowIdx
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if maxCol < 0 || colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}

// countNonEmptyCells counts non-empty cells within 0-based bounds.
func countNonEmptyCells(rows [][]string, minRow, maxRow, minCol, maxCol int) int {
	count := 0
	for rowIdx := minRow; rowIdx <= maxRow && rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		for colIdx := minCol; colIdx <= maxCol && colIdx < len(row); colIdx++ {
			if row[colIdx] != "" {
				count++
			}
		}
	}
	return count
}
