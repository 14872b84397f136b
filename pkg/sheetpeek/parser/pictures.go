// Package parser reads cell values, ranges and picture anchors from xlsx files.
package parser

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/ukaji3/sheetpeek-go/pkg/sheetpeek/models"
	"github.com/xuri/excelize/v2"
)

// emuPerPixel is the number of EMUs per pixel at 96 DPI (914400 / 96).
const emuPerPixel = 9525

func emuToPixels(emu int64) int {
	return int(emu / emuPerPixel)
}

// pictureParseResult holds intermediate parsing results for one anchor.
type pictureParseResult struct {
	anchor  models.PictureAnchor
	hasFrom bool
	hasPic  bool
}

// ExtractPictureAnchors extracts picture anchors from an xlsx file.
// Returns a map of sheet name to anchors in drawing order.
func ExtractPictureAnchors(xlsxPath string) (map[string][]models.PictureAnchor, error) {
	r, err := zip.OpenReader(xlsxPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	// Get sheet to drawing mapping
	sheetDrawingMap, err := getSheetDrawingMap(&r.Reader)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]models.PictureAnchor)
	for sheetName, drawingPath := range sheetDrawingMap {
		anchors, err := parseDrawingFile(&r.Reader, drawingPath)
		if err != nil {
			result[sheetName] = []models.PictureAnchor{}
			continue
		}
		result[sheetName] = anchors
	}

	return result, nil
}

// SortAnchorCells sorts cell coordinates row-major.
func SortAnchorCells(cells []string) {
	sort.SliceStable(cells, func(i, j int) bool {
		ci, ri, erri := excelize.CellNameToCoordinates(cells[i])
		cj, rj, errj := excelize.CellNameToCoordinates(cells[j])
		if erri != nil || errj != nil {
			return cells[i] < cells[j]
		}
		if ri != rj {
			return ri < rj
		}
		return ci < cj
	})
}

// getSheetDrawingMap returns a mapping of sheet names to their drawing XML paths.
func getSheetDrawingMap(r *zip.Reader) (map[string]string, error) {
	result := make(map[string]string)

	// Read workbook.xml to get sheet names and rIds
	workbookXML, err := readZipFile(r, "xl/workbook.xml")
	if err != nil || workbookXML == nil {
		return result, nil
	}

	sheetsInfo := parseWorkbookSheets(workbookXML)
	if len(sheetsInfo) == 0 {
		return result, nil
	}

	// Read workbook.xml.rels to map rId to sheet file
	wbRelsXML, err := readZipFile(r, "xl/_rels/workbook.xml.rels")
	if err != nil || wbRelsXML == nil {
		return result, nil
	}

	sheetFiles := parseWorkbookRels(wbRelsXML, sheetsInfo)

	// For each sheet, find its drawing relationship
	for sheetName, sheetPath := range sheetFiles {
		sheetRelsXML, err := readZipFile(r, relsPathFor(sheetPath))
		if err != nil || sheetRelsXML == nil {
			continue
		}

		drawingPath := findDrawingRelationship(sheetRelsXML)
		if drawingPath != "" {
			result[sheetName] = resolveRelativePath(drawingPath, "xl/drawings")
		}
	}

	return result, nil
}

// parseDrawingFile parses a drawing XML file and returns its picture anchors.
func parseDrawingFile(r *zip.Reader, drawingPath string) ([]models.PictureAnchor, error) {
	drawingXML, err := readZipFile(r, drawingPath)
	if err != nil {
		return nil, err
	}

	// Image targets are relative to the drawing part
	var targets map[string]string
	if relsXML, err := readZipFile(r, relsPathFor(drawingPath)); err == nil && relsXML != nil {
		targets = parseRelationshipTargets(relsXML)
	}

	var anchors []models.PictureAnchor
	for _, pr := range parseDrawingXML(drawingXML) {
		a := pr.anchor
		if target, ok := targets[a.EmbedID]; ok {
			a.Target = resolveRelativePath(target, "xl/drawings")
		}
		anchors = append(anchors, a)
	}
	return anchors, nil
}

// parseDrawingXML parses drawing XML content and returns cell-anchored pictures.
func parseDrawingXML(data []byte) []pictureParseResult {
	var results []pictureParseResult

	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		if se, ok := token.(xml.StartElement); ok {
			switch se.Name.Local {
			case "twoCellAnchor", "oneCellAnchor":
				pr := parseAnchor(decoder, se)
				if pr.hasFrom && pr.hasPic {
					results = append(results, pr)
				}
			}
		}
	}

	return results
}

// parseAnchor parses an anchor element; only the from marker and the first
// picture are kept.
func parseAnchor(decoder *xml.Decoder, start xml.StartElement) pictureParseResult {
	pr := pictureParseResult{anchor: models.PictureAnchor{Anchor: start.Name.Local}}
	var extW, extH int
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch {
			case t.Name.Local == "from" && depth == 2:
				col, row := parseMarker(decoder)
				ref, err := excelize.CoordinatesToCellName(col+1, row+1)
				if err == nil {
					pr.anchor.Cell, pr.anchor.Col, pr.anchor.Row = ref, col+1, row+1
					pr.hasFrom = true
				}
				depth--
			case t.Name.Local == "ext" && depth == 2:
				extW, extH = parseExtent(t)
			case t.Name.Local == "pic" && !pr.hasPic:
				parsePicture(decoder, &pr.anchor)
				pr.hasPic = true
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	if pr.anchor.W == 0 && pr.anchor.H == 0 {
		pr.anchor.W, pr.anchor.H = extW, extH
	}
	return pr
}

// parseMarker parses a from/to marker and returns its 0-based column and row.
func parseMarker(decoder *xml.Decoder) (col, row int) {
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "col", "row":
				txt, err := readElementText(decoder)
				depth--
				if err != nil {
					continue
				}
				n, err := strconv.Atoi(strings.TrimSpace(txt))
				if err != nil {
					continue
				}
				if t.Name.Local == "col" {
					col = n
				} else {
					row = n
				}
			}
		case xml.EndElement:
			depth--
		}
	}

	return
}

// parsePicture parses a pic element for its name, description, blip and size.
func parsePicture(decoder *xml.Decoder, anchor *models.PictureAnchor) {
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "cNvPr":
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "name":
						anchor.Name = attr.Value
					case "descr":
						anchor.Descr = attr.Value
					}
				}
			case "blip":
				for _, attr := range t.Attr {
					if attr.Name.Local == "embed" {
						anchor.EmbedID = attr.Value
					}
				}
			case "xfrm":
				anchor.W, anchor.H = parseXfrm(decoder)
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}
}

// parseXfrm parses xfrm element for size.
func parseXfrm(decoder *xml.Decoder) (width, height int) {
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "ext" {
				width, height = parseExtent(t)
			}
		case xml.EndElement:
			depth--
		}
	}

	return
}

// parseExtent reads cx/cy attributes in pixels.
func parseExtent(se xml.StartElement) (width, height int) {
	for _, attr := range se.Attr {
		switch attr.Name.Local {
		case "cx":
			if cx, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
				width = emuToPixels(cx)
			}
		case "cy":
			if cy, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
				height = emuToPixels(cy)
			}
		}
	}
	return
}

// Helper functions

func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, nil
}

func readElementText(decoder *xml.Decoder) (string, error) {
	var text string
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return text, err
		}
		switch t := token.(type) {
		case xml.CharData:
			text += string(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return text, nil
}

// relsPathFor returns the relationships part for a package part,
// e.g. xl/drawings/drawing1.xml -> xl/drawings/_rels/drawing1.xml.rels.
func relsPathFor(part string) string {
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

func resolveRelativePath(target, baseDir string) string {
	if strings.HasPrefix(target, "../") {
		clean := target
		for strings.HasPrefix(clean, "../") {
			clean = strings.TrimPrefix(clean, "../")
		}
		return "xl/" + clean
	}
	if strings.HasPrefix(target, "/xl/") {
		return strings.TrimPrefix(target, "/")
	}
	if strings.HasPrefix(target, "/") {
		return baseDir + target
	}
	return baseDir + "/" + target
}

func parseWorkbookSheets(data []byte) map[string]string {
	result := make(map[string]string) // rId -> sheet name
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sheet" {
			var name, rID string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "name":
					name = attr.Value
				case "id":
					rID = attr.Value
				}
			}
			if name != "" && rID != "" {
				result[rID] = name
			}
		}
	}

	return result
}

func parseWorkbookRels(data []byte, sheetsInfo map[string]string) map[string]string {
	result := make(map[string]string) // sheet name -> file path
	for rID, target := range parseRelationshipTargets(data) {
		if sheetName, ok := sheetsInfo[rID]; ok && strings.Contains(strings.ToLower(target), "worksheet") {
			result[sheetName] = resolveRelativePath(target, "xl")
		}
	}
	return result
}

// parseRelationshipTargets maps relationship ids to their targets.
func parseRelationshipTargets(data []byte) map[string]string {
	result := make(map[string]string)
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var rID, target string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Id":
					rID = attr.Value
				case "Target":
					target = attr.Value
				}
			}
			if rID != "" {
				result[rID] = target
			}
		}
	}

	return result
}

func findDrawingRelationship(data []byte) string {
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var relType, target string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Type":
					relType = attr.Value
				case "Target":
					target = attr.Value
				}
			}
			// vmlDrawing parts hold comments and legacy controls, not pictures
			if strings.HasSuffix(relType, "/drawing") {
				return target
			}
		}
	}

	return ""
}
