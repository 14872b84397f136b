package sheetpeek

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/ukaji3/sheetpeek-go/pkg/sheetpeek/models"
	"github.com/ukaji3/sheetpeek-go/pkg/sheetpeek/parser"
	"github.com/xuri/excelize/v2"
)

// Workbook is a read-only view of an opened spreadsheet document.
type Workbook struct {
	f    *excelize.File
	path string
	opts Options

	anchorsOnce sync.Once
	anchors     map[string][]models.PictureAnchor
}

// Open opens the workbook at path.
func Open(path string, opts Options) (*Workbook, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(ErrFileNotFound, "%s: %v", path, err)
	}
	if info.IsDir() {
		return nil, errors.Wrapf(ErrFileNotFound, "%s: is a directory", path)
	}

	f, err := excelize.OpenFile(path, opts.openOptions())
	if err != nil {
		if os.IsPermission(err) {
			return nil, errors.Wrapf(ErrFileNotFound, "%s: %v", path, err)
		}
		return nil, errors.Wrapf(ErrInvalidFormat, "%s: %v", path, err)
	}
	if len(f.GetSheetList()) == 0 {
		f.Close()
		return nil, errors.Wrapf(ErrInvalidFormat, "%s: workbook has no sheets", path)
	}

	return &Workbook{f: f, path: path, opts: opts}, nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// Name returns the workbook file name (no path).
func (w *Workbook) Name() string {
	return filepath.Base(w.path)
}

// Path returns the path the workbook was opened from.
func (w *Workbook) Path() string {
	return w.path
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// ActiveSheet returns the sheet marked active when the workbook was saved,
// or the first sheet if none is marked.
func (w *Workbook) ActiveSheet() *Sheet {
	names := w.f.GetSheetList()
	idx := w.f.GetActiveSheetIndex()
	if idx < 0 || idx >= len(names) {
		idx = 0
	}
	return &Sheet{wb: w, name: names[idx], index: idx}
}

// Sheet returns the sheet with the given name. Names match case-insensitively.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	for i, n := range w.f.GetSheetList() {
		if strings.EqualFold(n, name) {
			return &Sheet{wb: w, name: n, index: i}, nil
		}
	}
	return nil, errors.Wrapf(ErrSheetNotFound, "%q in %s", name, w.Name())
}

// pictureAnchors returns the drawing anchors of every sheet, parsed once.
// Anchor metadata is optional; a parse failure yields an empty index.
func (w *Workbook) pictureAnchors() map[string][]models.PictureAnchor {
	w.anchorsOnce.Do(func() {
		anchors, err := parser.ExtractPictureAnchors(w.path)
		if err != nil {
			anchors = make(map[string][]models.PictureAnchor)
		}
		w.anchors = anchors
	})
	return w.anchors
}

// Sheet is a worksheet within a workbook.
type Sheet struct {
	wb    *Workbook
	name  string
	index int
}

// Name returns the sheet name.
func (s *Sheet) Name() string {
	return s.name
}

// Index returns the sheet position in the workbook (0-based).
func (s *Sheet) Index() int {
	return s.index
}

// Workbook returns the owning workbook.
func (s *Sheet) Workbook() *Workbook {
	return s.wb
}

// Cell reads the cell at the 1-based row and column.
func (s *Sheet) Cell(row, col int) (models.Cell, error) {
	if row < 1 || col < 1 || row > excelize.TotalRows || col > excelize.MaxColumns {
		return models.Cell{}, errors.Wrapf(ErrInvalidCoordinate, "(%d, %d)", row, col)
	}
	cell, err := parser.ReadCell(s.wb.f, s.name, row, col, s.wb.opts.valueOptions())
	if err != nil {
		return models.Cell{}, errors.Wrapf(err, "read cell (%d, %d) in %q", row, col, s.name)
	}
	return cell, nil
}

// CellAt reads the cell at a coordinate such as "D7".
func (s *Sheet) CellAt(ref string) (models.Cell, error) {
	col, row, err := excelize.CellNameToCoordinates(strings.TrimSpace(ref))
	if err != nil {
		return models.Cell{}, errors.Wrapf(ErrInvalidCoordinate, "%q", ref)
	}
	return s.Cell(row, col)
}

// Range reads an inclusive block such as "A7:D10", row-major.
func (s *Sheet) Range(ref string) ([][]models.Cell, error) {
	sheetName, area, err := parser.ParseSheetRange(ref)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidCoordinate, "%q", ref)
	}
	if sheetName != "" && !strings.EqualFold(sheetName, s.name) {
		return nil, errors.Wrapf(ErrSheetNotFound, "range %q does not address sheet %q", ref, s.name)
	}
	rows, err := parser.ReadRange(s.wb.f, s.name, area, s.wb.opts.valueOptions())
	if err != nil {
		return nil, errors.Wrapf(err, "read range %s in %q", ref, s.name)
	}
	return rows, nil
}

// Dimension returns the used range of the sheet; ok is false for an empty sheet.
func (s *Sheet) Dimension() (area models.Range, ok bool, err error) {
	area, _, ok, err = parser.SheetDimension(s.wb.f, s.name)
	if err != nil {
		return models.Range{}, false, errors.Wrapf(err, "dimension of %q", s.name)
	}
	return area, ok, nil
}

// Summary describes the sheet for reports.
func (s *Sheet) Summary() (models.SheetSummary, error) {
	summary := models.SheetSummary{
		Name:   s.name,
		Index:  s.index,
		Active: s.wb.ActiveSheet().index == s.index,
	}
	area, count, ok, err := parser.SheetDimension(s.wb.f, s.name)
	if err != nil {
		return summary, errors.Wrapf(err, "summarize %q", s.name)
	}
	if ok {
		summary.Dimension, _ = parser.FormatRange(area)
		summary.NonEmptyCells = count
	}
	return summary, nil
}
