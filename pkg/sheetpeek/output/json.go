// Package output serializes inspection results.
package output

import (
	"github.com/goccy/go-json"
	"github.com/ukaji3/sheetpeek-go/pkg/sheetpeek/models"
)

// ToJSON serializes a run report to JSON.
func ToJSON(report *models.Report, pretty bool) ([]byte, error) {
	return marshal(report, pretty)
}

// CellToJSON serializes a single cell.
func CellToJSON(cell *models.Cell, pretty bool) ([]byte, error) {
	return marshal(cell, pretty)
}

// ImagesToJSON serializes an image listing. A nil listing is written as [].
func ImagesToJSON(images []models.ImageInfo, pretty bool) ([]byte, error) {
	if images == nil {
		images = []models.ImageInfo{}
	}
	return marshal(images, pretty)
}

func marshal(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
