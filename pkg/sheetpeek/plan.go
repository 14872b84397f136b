package sheetpeek

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/ukaji3/sheetpeek-go/pkg/sheetpeek/parser"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the workbook inspected when no file is given.
const DefaultFile = "excel_templates/L1001.xlsx"

// StepKind identifies what an inspection step does.
type StepKind string

const (
	// StepCell reads a cell by row/column or coordinate.
	StepCell StepKind = "cell"
	// StepImage fetches the image anchored at a coordinate and displays it.
	StepImage StepKind = "image"
	// StepRange reads an inclusive block of cells.
	StepRange StepKind = "range"
	// StepPause waits for the operator.
	StepPause StepKind = "pause"
)

// Step is one entry of an inspection plan.
type Step struct {
	Kind StepKind
	Row  int
	Col  int
	Ref  string
}

// CellStep reads the cell at the 1-based row and column.
func CellStep(row, col int) Step { return Step{Kind: StepCell, Row: row, Col: col} }

// CellRefStep reads the cell at a coordinate.
func CellRefStep(ref string) Step { return Step{Kind: StepCell, Ref: ref} }

// ImageStep fetches and displays the image anchored at a coordinate.
func ImageStep(ref string) Step { return Step{Kind: StepImage, Ref: ref} }

// RangeStep reads a block of cells such as "A7:D10".
func RangeStep(ref string) Step { return Step{Kind: StepRange, Ref: ref} }

// PauseStep waits for the operator.
func PauseStep() Step { return Step{Kind: StepPause} }

// Label returns a short human-readable description of the step.
func (s Step) Label() string {
	switch s.Kind {
	case StepCell:
		if s.Ref != "" {
			return "cell " + s.Ref
		}
		return fmt.Sprintf("cell(%d,%d)", s.Row, s.Col)
	case StepPause:
		return "pause"
	}
	return string(s.Kind) + " " + s.Ref
}

// Validate checks that the step is well formed.
func (s Step) Validate() error {
	switch s.Kind {
	case StepCell:
		if s.Ref != "" {
			if s.Row != 0 || s.Col != 0 {
				return errors.Wrapf(ErrInvalidPlan, "cell step sets both ref %q and row/col", s.Ref)
			}
			if _, _, err := excelize.CellNameToCoordinates(s.Ref); err != nil {
				return errors.Wrapf(ErrInvalidCoordinate, "cell step %q", s.Ref)
			}
			return nil
		}
		if _, err := excelize.CoordinatesToCellName(s.Col, s.Row); err != nil {
			return errors.Wrapf(ErrInvalidCoordinate, "cell step (%d, %d)", s.Row, s.Col)
		}
	case StepImage:
		if s.Row != 0 || s.Col != 0 {
			return errors.Wrap(ErrInvalidPlan, "image step takes only ref")
		}
		if _, _, err := excelize.CellNameToCoordinates(s.Ref); err != nil {
			return errors.Wrapf(ErrInvalidCoordinate, "image step %q", s.Ref)
		}
	case StepRange:
		if s.Row != 0 || s.Col != 0 {
			return errors.Wrap(ErrInvalidPlan, "range step takes only ref")
		}
		if _, _, err := parser.ParseSheetRange(s.Ref); err != nil {
			return errors.Wrapf(ErrInvalidCoordinate, "range step %q", s.Ref)
		}
	case StepPause:
		if s.Row != 0 || s.Col != 0 || s.Ref != "" {
			return errors.Wrap(ErrInvalidPlan, "pause step takes no arguments")
		}
	default:
		return errors.Wrapf(ErrInvalidPlan, "unknown step kind %q", s.Kind)
	}
	return nil
}

// stepArgs is the YAML body of a non-pause step.
type stepArgs struct {
	Row int    `yaml:"row,omitempty"`
	Col int    `yaml:"col,omitempty"`
	Ref string `yaml:"ref,omitempty"`
}

// stepFields lists the body keys each step kind accepts.
var stepFields = map[StepKind][]string{
	StepCell:  {"row", "col", "ref"},
	StepImage: {"ref"},
	StepRange: {"ref"},
	StepPause: nil,
}

// UnmarshalYAML accepts "pause", {pause: {}}, {image: B8},
// {image: {ref: B8}} and {cell: {row: 7, col: 2}}.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value != string(StepPause) {
			return errors.Wrapf(ErrInvalidPlan, "line %d: unknown step %q", node.Line, node.Value)
		}
		*s = PauseStep()
		return nil
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return errors.Wrapf(ErrInvalidPlan, "line %d: a step must have exactly one kind", node.Line)
		}
	default:
		return errors.Wrapf(ErrInvalidPlan, "line %d: malformed step", node.Line)
	}

	key, body := node.Content[0], node.Content[1]
	kind := StepKind(key.Value)
	allowed, known := stepFields[kind]
	if !known {
		return errors.Wrapf(ErrInvalidPlan, "line %d: unknown step kind %q", key.Line, key.Value)
	}

	var args stepArgs
	switch {
	case body.Kind == yaml.ScalarNode && body.Tag == "!!null":
	case body.Kind == yaml.ScalarNode:
		args.Ref = body.Value
	case body.Kind == yaml.MappingNode:
		for i := 0; i < len(body.Content); i += 2 {
			if !containsString(allowed, body.Content[i].Value) {
				return errors.Wrapf(ErrInvalidPlan, "line %d: field %q not allowed in %s step",
					body.Content[i].Line, body.Content[i].Value, kind)
			}
		}
		if err := body.Decode(&args); err != nil {
			return errors.Wrapf(ErrInvalidPlan, "line %d: %v", body.Line, err)
		}
	default:
		return errors.Wrapf(ErrInvalidPlan, "line %d: malformed %s step", body.Line, key.Value)
	}

	step := Step{Kind: kind, Row: args.Row, Col: args.Col, Ref: args.Ref}
	if err := step.Validate(); err != nil {
		return errors.Wrapf(err, "line %d", key.Line)
	}
	*s = step
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// MarshalYAML writes the step in the form UnmarshalYAML reads.
func (s Step) MarshalYAML() (interface{}, error) {
	switch s.Kind {
	case StepPause:
		return string(StepPause), nil
	case StepCell:
		if s.Ref == "" {
			return map[string]stepArgs{string(s.Kind): {Row: s.Row, Col: s.Col}}, nil
		}
	}
	return map[string]string{string(s.Kind): s.Ref}, nil
}

// Plan is an ordered list of inspection steps over one workbook.
type Plan struct {
	// File is the workbook path; the CLI argument overrides it.
	File string `yaml:"file,omitempty"`
	// Sheet selects a sheet by name; empty means the active sheet.
	Sheet string `yaml:"sheet,omitempty"`
	// Steps run strictly in order.
	Steps []Step `yaml:"steps"`
}

// Validate checks every step of the plan.
func (p Plan) Validate() error {
	if len(p.Steps) == 0 {
		return errors.Wrap(ErrInvalidPlan, "no steps")
	}
	for i, s := range p.Steps {
		if err := s.Validate(); err != nil {
			return errors.Wrapf(err, "step %d", i+1)
		}
	}
	return nil
}

// DefaultPlan returns the fixed L1001 inspection sequence: four cell reads,
// five image checks and a final cell read, each followed by a pause.
func DefaultPlan() Plan {
	return Plan{
		File: DefaultFile,
		Steps: []Step{
			CellStep(7, 2), PauseStep(),
			CellStep(7, 1), PauseStep(),
			CellStep(8, 1), PauseStep(),
			CellStep(9, 1), PauseStep(),
			ImageStep("B8"), PauseStep(),
			ImageStep("D7"), PauseStep(),
			ImageStep("D8"), PauseStep(),
			ImageStep("D9"), PauseStep(),
			ImageStep("D10"), PauseStep(),
			CellStep(7, 4), PauseStep(),
		},
	}
}

// ParsePlan parses a YAML plan.
func ParsePlan(data []byte) (Plan, error) {
	var plan Plan
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil {
		if errors.Is(err, ErrInvalidPlan) || errors.Is(err, ErrInvalidCoordinate) {
			return Plan{}, err
		}
		return Plan{}, errors.Wrapf(ErrInvalidPlan, "%v", err)
	}
	if err := plan.Validate(); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

// LoadPlan reads a YAML plan from path.
func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, errors.Wrap(err, "read plan")
	}
	plan, err := ParsePlan(data)
	if err != nil {
		return Plan{}, errors.Wrapf(err, "plan %s", path)
	}
	return plan, nil
}
