package sheetpeek

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for x := 0; x < 16; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 32), B: 128, A: 255})
		}
	}
	return img
}

func encodeImage(t *testing.T, ext string) []byte {
	t.Helper()
	var buf bytes.Buffer
	var err error
	switch ext {
	case ".png":
		err = png.Encode(&buf, testImage())
	case ".jpg":
		err = jpeg.Encode(&buf, testImage(), nil)
	case ".gif":
		err = gif.Encode(&buf, testImage(), nil)
	default:
		t.Fatalf("unsupported test image extension %s", ext)
	}
	if err != nil {
		t.Fatalf("Failed to encode %s: %v", ext, err)
	}
	return buf.Bytes()
}

// writeFixture writes an L1001.xlsx workbook whose active sheet "Items"
// holds the part header at row 7 and pictures at B8, D7, D8, D9 and D10.
func writeFixture(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "A1", "cover")

	idx, err := f.NewSheet("Items")
	if err != nil {
		t.Fatalf("NewSheet failed: %v", err)
	}
	f.SetCellValue("Items", "A7", "Part Number")
	f.SetCellValue("Items", "B7", "L1001")
	f.SetCellValue("Items", "D7", "Photo")
	f.SetCellValue("Items", "A8", "Color")
	f.SetCellValue("Items", "A9", 12)

	pictures := []struct {
		cell, ext, alt string
	}{
		{"B8", ".png", "swatch"},
		{"D7", ".png", "front view"},
		{"D8", ".png", ""},
		{"D9", ".jpg", ""},
		{"D10", ".gif", ""},
	}
	for _, p := range pictures {
		if err := f.AddPictureFromBytes("Items", p.cell, &excelize.Picture{
			Extension: p.ext,
			File:      encodeImage(t, p.ext),
			Format:    &excelize.GraphicOptions{AltText: p.alt},
		}); err != nil {
			t.Fatalf("AddPictureFromBytes(%s) failed: %v", p.cell, err)
		}
	}
	f.SetActiveSheet(idx)

	path := filepath.Join(t.TempDir(), "L1001.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save fixture: %v", err)
	}
	return path
}

func openFixture(t *testing.T) *Workbook {
	t.Helper()
	wb, err := Open(writeFixture(t), DefaultOptions())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { wb.Close() })
	return wb
}
