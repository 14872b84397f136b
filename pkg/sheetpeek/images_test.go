package sheetpeek

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pkg/errors"
	"github.com/ukaji3/sheetpeek-go/pkg/sheetpeek/models"
)

func TestImageLoaderGet(t *testing.T) {
	loader, err := NewImageLoader(openFixture(t).ActiveSheet())
	if err != nil {
		t.Fatalf("NewImageLoader failed: %v", err)
	}

	tests := []struct {
		ref    string
		cell   string
		format string
	}{
		{"B8", "B8", "png"},
		{"D7", "D7", "png"},
		{"d9", "D9", "jpeg"},
		{"D10", "D10", "gif"},
	}

	for _, tt := range tests {
		img, err := loader.Get(tt.ref)
		if err != nil {
			t.Fatalf("Get(%q) failed: %v", tt.ref, err)
		}
		if img.Cell != tt.cell || img.Sheet != "Items" {
			t.Errorf("Get(%q) = %s!%s, expected Items!%s", tt.ref, img.Sheet, img.Cell, tt.cell)
		}
		if len(img.Data) == 0 {
			t.Errorf("Get(%q) returned empty image data", tt.ref)
		}
		decoded, format, err := img.Decode()
		if err != nil {
			t.Errorf("Decode(%q) failed: %v", tt.ref, err)
			continue
		}
		if format != tt.format {
			t.Errorf("Decode(%q) format = %q, expected %q", tt.ref, format, tt.format)
		}
		if b := decoded.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
			t.Errorf("Decode(%q) bounds = %v, expected 16x8", tt.ref, b)
		}
	}
}

func TestImageLoaderMetadata(t *testing.T) {
	loader, err := NewImageLoader(openFixture(t).ActiveSheet())
	if err != nil {
		t.Fatalf("NewImageLoader failed: %v", err)
	}

	img, err := loader.Get("D7")
	if err != nil {
		t.Fatalf("Get(D7) failed: %v", err)
	}
	if img.AltText != "front view" {
		t.Errorf("AltText = %q, expected %q", img.AltText, "front view")
	}
	if img.Extension != ".png" {
		t.Errorf("Extension = %q, expected .png", img.Extension)
	}
	if img.Name == "" {
		t.Error("Expected picture name from the drawing part")
	}

	info := img.Info()
	if info.Cell != "D7" || info.Bytes != len(img.Data) {
		t.Errorf("Info = %+v", info)
	}
}

func TestImageLoaderMissing(t *testing.T) {
	loader, err := NewImageLoader(openFixture(t).ActiveSheet())
	if err != nil {
		t.Fatalf("NewImageLoader failed: %v", err)
	}

	if _, err := loader.Get("C3"); !errors.Is(err, ErrImageNotFound) {
		t.Errorf("Get(C3) error = %v, expected ErrImageNotFound", err)
	}
	if _, err := loader.Get("not-a-cell"); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("Get(not-a-cell) error = %v, expected ErrInvalidCoordinate", err)
	}
	if loader.Has("C3") || !loader.Has("b8") {
		t.Error("Has reported wrong anchors")
	}
}

func TestImageLoaderEmptySheet(t *testing.T) {
	wb := openFixture(t)
	cover, err := wb.Sheet("Sheet1")
	if err != nil {
		t.Fatal(err)
	}

	loader, err := NewImageLoader(cover)
	if err != nil {
		t.Fatalf("NewImageLoader failed: %v", err)
	}
	if len(loader.Coordinates()) != 0 {
		t.Errorf("Expected no images on Sheet1, got %v", loader.Coordinates())
	}
	if _, err := loader.Get("B8"); !errors.Is(err, ErrImageNotFound) {
		t.Errorf("Get(B8) on Sheet1 error = %v, expected ErrImageNotFound", err)
	}
}

func TestImageLoaderCoordinatesAndList(t *testing.T) {
	loader, err := NewImageLoader(openFixture(t).ActiveSheet())
	if err != nil {
		t.Fatalf("NewImageLoader failed: %v", err)
	}

	expected := []string{"D7", "B8", "D8", "D9", "D10"}
	if got := loader.Coordinates(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Coordinates = %v, expected %v", got, expected)
	}

	infos, err := loader.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != len(expected) {
		t.Fatalf("List returned %d images, expected %d", len(infos), len(expected))
	}
	for i, info := range infos {
		if info.Cell != expected[i] {
			t.Errorf("List[%d].Cell = %s, expected %s", i, info.Cell, expected[i])
		}
	}
}

func TestImageSave(t *testing.T) {
	img := &Image{Sheet: "Order List", Cell: "D7", Extension: ".png", Data: []byte{1, 2, 3}}
	dir := filepath.Join(t.TempDir(), "out")

	path, err := img.Save(dir)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filepath.Base(path) != "Order_List_D7.png" {
		t.Errorf("Saved as %s, expected Order_List_D7.png", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(data, img.Data) {
		t.Errorf("Saved data = %v, expected %v", data, img.Data)
	}
}

func TestImageDecodeUnsupported(t *testing.T) {
	tests := []*Image{
		{Cell: "A1", Extension: ".emf", Data: []byte{1}},
		{Cell: "A1", Extension: ".png", Data: []byte("not a png")},
	}

	for _, img := range tests {
		if _, _, err := img.Decode(); !errors.Is(err, ErrUnsupportedImage) {
			t.Errorf("Decode(%s) error = %v, expected ErrUnsupportedImage", img.Extension, err)
		}
	}
}

func TestImageShow(t *testing.T) {
	var shown []string
	v := ViewerFunc(func(_ context.Context, img *Image) error {
		shown = append(shown, img.Cell)
		return nil
	})

	img := &Image{Cell: "D7"}
	if err := img.Show(context.Background(), v); err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if !reflect.DeepEqual(shown, []string{"D7"}) {
		t.Errorf("Viewer saw %v", shown)
	}
}

func TestIndexAnchorsOrder(t *testing.T) {
	list := []models.PictureAnchor{
		{Cell: "D7", Anchor: "oneCellAnchor", Name: "one"},
		{Cell: "D7", Anchor: "twoCellAnchor", Name: "two"},
		{Cell: "D7", Anchor: "twoCellAnchor", Name: "two again"},
		{Cell: "B8", Anchor: "oneCellAnchor", Name: "swatch"},
		{Cell: "B8", Anchor: "oneCellAnchor", Name: "swatch again"},
	}

	anchors := indexAnchors(list)
	if len(anchors) != 2 {
		t.Fatalf("Expected 2 anchored cells, got %d", len(anchors))
	}
	if anchors["D7"].Name != "two" {
		t.Errorf("D7 name = %q, expected the first two-cell anchor", anchors["D7"].Name)
	}
	if anchors["B8"].Name != "swatch" {
		t.Errorf("B8 name = %q, expected the first one-cell anchor", anchors["B8"].Name)
	}
}
