// Package models defines data structures for workbook inspection.
package models

// CellType names the kind of value held by a cell.
type CellType string

const (
	CellTypeEmpty   CellType = "empty"
	CellTypeBool    CellType = "bool"
	CellTypeNumber  CellType = "number"
	CellTypeDate    CellType = "date"
	CellTypeString  CellType = "string"
	CellTypeFormula CellType = "formula"
	CellTypeError   CellType = "error"
)

// Cell represents a single cell value read from a sheet.
type Cell struct {
	// Ref is the cell coordinate (e.g. "D7").
	Ref string `json:"ref"`
	// Row is the row index (1-based).
	Row int `json:"row"`
	// Col is the column index (1-based).
	Col int `json:"col"`
	// Type is the detected value type.
	Type CellType `json:"type"`
	// Raw is the formatted value as stored in the workbook.
	Raw string `json:"raw"`
	// Value is the parsed value: int64, float64, bool or string.
	Value interface{} `json:"value,omitempty"`
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Type == CellTypeEmpty
}
