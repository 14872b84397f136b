// Package sheetpeek opens a workbook, reads cell values, locates images
// anchored to cells and runs step-by-step inspection plans over them.
package sheetpeek

import (
	"github.com/ukaji3/sheetpeek-go/pkg/sheetpeek/parser"
	"github.com/xuri/excelize/v2"
)

// Options configures how a workbook is opened and how values are read.
type Options struct {
	// Password opens an encrypted workbook.
	Password string
	// RawValues returns stored values without applying number formats.
	RawValues bool
	// FoldWidth folds full-width characters in string values (e.g. "：" to ":").
	FoldWidth bool
	// TrimSpace trims surrounding whitespace from string values.
	TrimSpace bool
}

// DefaultOptions returns default options: values exactly as displayed.
func DefaultOptions() Options {
	return Options{}
}

func (o Options) valueOptions() parser.ValueOptions {
	return parser.ValueOptions{
		RawValues: o.RawValues,
		FoldWidth: o.FoldWidth,
		TrimSpace: o.TrimSpace,
	}
}

func (o Options) openOptions() excelize.Options {
	return excelize.Options{Password: o.Password}
}
