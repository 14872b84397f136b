package sheetpeek

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/ukaji3/sheetpeek-go/pkg/sheetpeek/models"
	"github.com/ukaji3/sheetpeek-go/pkg/sheetpeek/parser"
	"github.com/xuri/excelize/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// metafileExtensions are vector formats excelize can embed but no Go decoder reads.
var metafileExtensions = map[string]bool{
	".emf": true,
	".emz": true,
	".wmf": true,
	".wmz": true,
	".svg": true,
}

// Image is a picture anchored to a cell.
type Image struct {
	Sheet     string
	Cell      string
	Extension string
	Data      []byte
	Name      string
	AltText   string
	WidthPx   int
	HeightPx  int
}

// Decode decodes the image data and returns the decoded image and its format name.
func (i *Image) Decode() (image.Image, string, error) {
	if metafileExtensions[strings.ToLower(i.Extension)] {
		return nil, "", errors.Wrapf(ErrUnsupportedImage, "%s at %s", i.Extension, i.Cell)
	}
	img, format, err := image.Decode(bytes.NewReader(i.Data))
	if err != nil {
		return nil, "", errors.Wrapf(ErrUnsupportedImage, "decode %s at %s: %v", i.Extension, i.Cell, err)
	}
	return img, format, nil
}

// FileName returns the name used when the image is written to disk.
func (i *Image) FileName() string {
	sheet := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, i.Sheet)
	return fmt.Sprintf("%s_%s%s", sheet, i.Cell, i.Extension)
}

// Save writes the image into dir and returns the written path.
func (i *Image) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, i.FileName())
	if err := os.WriteFile(path, i.Data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Show hands the image to a viewer.
func (i *Image) Show(ctx context.Context, v Viewer) error {
	return v.Show(ctx, i)
}

// Info returns the image metadata for reports.
func (i *Image) Info() models.ImageInfo {
	return models.ImageInfo{
		Sheet:     i.Sheet,
		Cell:      i.Cell,
		Extension: i.Extension,
		Bytes:     len(i.Data),
		Name:      i.Name,
		AltText:   i.AltText,
		W:         i.WidthPx,
		H:         i.HeightPx,
	}
}

// ImageLoader locates the images anchored to the cells of one sheet.
type ImageLoader struct {
	sheet   *Sheet
	cells   []string
	anchors map[string]models.PictureAnchor
}

// NewImageLoader indexes the anchored pictures of a sheet.
func NewImageLoader(sheet *Sheet) (*ImageLoader, error) {
	cells, err := sheet.wb.f.GetPictureCells(sheet.name)
	if err != nil {
		return nil, errors.Wrapf(err, "index pictures of %q", sheet.name)
	}
	parser.SortAnchorCells(cells)
	cells = dedupeSorted(cells)

	anchors := indexAnchors(sheet.wb.pictureAnchors()[sheet.name])
	return &ImageLoader{sheet: sheet, cells: cells, anchors: anchors}, nil
}

// indexAnchors picks the anchor describing the picture GetPictures returns
// first for each cell: excelize lists twoCellAnchor pictures before
// oneCellAnchor ones, each group in drawing order.
func indexAnchors(list []models.PictureAnchor) map[string]models.PictureAnchor {
	anchors := make(map[string]models.PictureAnchor)
	for _, kind := range []string{"twoCellAnchor", "oneCellAnchor"} {
		for _, a := range list {
			if a.Anchor != kind {
				continue
			}
			if _, ok := anchors[a.Cell]; !ok {
				anchors[a.Cell] = a
			}
		}
	}
	return anchors
}

// Coordinates returns the anchored cells in row-major order.
func (l *ImageLoader) Coordinates() []string {
	out := make([]string, len(l.cells))
	copy(out, l.cells)
	return out
}

// Has reports whether an image is anchored at ref.
func (l *ImageLoader) Has(ref string) bool {
	ref, err := normalizeRef(ref)
	if err != nil {
		return false
	}
	for _, c := range l.cells {
		if c == ref {
			return true
		}
	}
	return false
}

// Get returns the image anchored at ref. When several pictures share the
// anchor cell the first one excelize reports is returned: two-cell anchors
// come before one-cell anchors, each in drawing order.
func (l *ImageLoader) Get(ref string) (*Image, error) {
	cell, err := normalizeRef(ref)
	if err != nil {
		return nil, err
	}

	pics, err := l.sheet.wb.f.GetPictures(l.sheet.name, cell)
	if err != nil {
		return nil, errors.Wrapf(err, "get picture at %s in %q", cell, l.sheet.name)
	}
	if len(pics) == 0 || len(pics[0].File) == 0 {
		return nil, errors.Wrapf(ErrImageNotFound, "%s in %q", cell, l.sheet.name)
	}

	pic := pics[0]
	img := &Image{
		Sheet:     l.sheet.name,
		Cell:      cell,
		Extension: strings.ToLower(pic.Extension),
		Data:      pic.File,
	}
	if pic.Format != nil {
		img.AltText = pic.Format.AltText
	}
	if a, ok := l.anchors[cell]; ok {
		img.Name = a.Name
		if img.AltText == "" {
			img.AltText = a.Descr
		}
		img.WidthPx, img.HeightPx = a.W, a.H
	}
	return img, nil
}

// List fetches every anchored image in row-major order.
func (l *ImageLoader) List() ([]models.ImageInfo, error) {
	infos := make([]models.ImageInfo, 0, len(l.cells))
	for _, cell := range l.cells {
		img, err := l.Get(cell)
		if err != nil {
			return nil, err
		}
		infos = append(infos, img.Info())
	}
	return infos, nil
}

// normalizeRef validates a coordinate and returns it in canonical form ("d7" -> "D7").
func normalizeRef(ref string) (string, error) {
	col, row, err := excelize.CellNameToCoordinates(strings.TrimSpace(ref))
	if err != nil {
		return "", errors.Wrapf(ErrInvalidCoordinate, "%q", ref)
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidCoordinate, "%q", ref)
	}
	return cell, nil
}

func dedupeSorted(cells []string) []string {
	out := cells[:0]
	for i, c := range cells {
		if i > 0 && c == cells[i-1] {
			continue
		}
		out = append(out, c)
	}
	return out
}
