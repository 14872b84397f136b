package models

// SheetSummary describes the sheet an inspection ran against.
type SheetSummary struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Index is the sheet position in the workbook (0-based).
	Index int `json:"index"`
	// Active reports whether the sheet is the workbook's active sheet.
	Active bool `json:"active"`
	// Dimension is the used range (e.g. "A1:D10"), empty for a blank sheet.
	Dimension string `json:"dimension,omitempty"`
	// NonEmptyCells is the number of cells holding a value.
	NonEmptyCells int `json:"non_empty_cells"`
}

// StepResult records the outcome of one inspection step.
type StepResult struct {
	// Index is the step position in the plan (1-based).
	Index int `json:"index"`
	// Kind is the step kind (cell, image, range, pause).
	Kind string `json:"kind"`
	// Ref is the coordinate or range the step addressed.
	Ref string `json:"ref,omitempty"`
	// Cell is the value read by a cell step.
	Cell *Cell `json:"cell,omitempty"`
	// Rows holds the values read by a range step.
	Rows [][]Cell `json:"rows,omitempty"`
	// Image describes the image fetched by an image step.
	Image *ImageInfo `json:"image,omitempty"`
	// Error is the failure message if the step failed.
	Error string `json:"error,omitempty"`
}

// Report represents the result of running an inspection plan.
type Report struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// Sheet describes the inspected sheet.
	Sheet SheetSummary `json:"sheet"`
	// Steps contains one entry per executed step.
	Steps []StepResult `json:"steps"`
}
