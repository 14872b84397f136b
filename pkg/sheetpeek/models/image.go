package models

// PictureAnchor represents a picture found in a sheet drawing part.
type PictureAnchor struct {
	// Cell is the coordinate of the top-left anchor cell.
	Cell string `json:"cell"`
	// Row is the anchor row (1-based).
	Row int `json:"row"`
	// Col is the anchor column (1-based).
	Col int `json:"col"`
	// Anchor is the DrawingML anchor kind (twoCellAnchor, oneCellAnchor).
	Anchor string `json:"anchor"`
	// Name is the picture name from the drawing.
	Name string `json:"name,omitempty"`
	// Descr is the picture description (alt text).
	Descr string `json:"descr,omitempty"`
	// EmbedID is the relationship id of the image part.
	EmbedID string `json:"embed_id,omitempty"`
	// Target is the resolved package path of the image part.
	Target string `json:"target,omitempty"`
	// W is the picture width in pixels.
	W int `json:"w"`
	// H is the picture height in pixels.
	H int `json:"h"`
}

// ImageInfo describes an image fetched from a sheet.
type ImageInfo struct {
	// Sheet is the owning sheet name.
	Sheet string `json:"sheet"`
	// Cell is the anchor coordinate.
	Cell string `json:"cell"`
	// Extension is the image file extension including the dot.
	Extension string `json:"extension"`
	// Bytes is the encoded image size.
	Bytes int `json:"bytes"`
	// Name is the picture name, if known.
	Name string `json:"name,omitempty"`
	// AltText is the picture alternative text, if any.
	AltText string `json:"alt_text,omitempty"`
	// W is the displayed width in pixels (0 if unknown).
	W int `json:"w,omitempty"`
	// H is the displayed height in pixels (0 if unknown).
	H int `json:"h,omitempty"`
	// SavedTo is the path the image was written to, if saved.
	SavedTo string `json:"saved_to,omitempty"`
}
