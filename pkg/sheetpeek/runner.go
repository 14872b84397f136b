package sheetpeek

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/ukaji3/sheetpeek-go/pkg/sheetpeek/models"
)

// Runner executes inspection plans. The zero value runs without pauses,
// discards images and logs nothing.
type Runner struct {
	// Viewer displays fetched images.
	Viewer Viewer
	// Pauser waits for the operator at pause steps.
	Pauser Pauser
	// Log receives one entry per step.
	Log logrus.FieldLogger
	// OutDir, when set, receives a copy of every fetched image.
	OutDir string
}

// Run executes the plan against wb strictly in order. The first failing step
// aborts the run; the returned report holds every step up to and including
// the failure and the error is a *StepError.
func (r *Runner) Run(ctx context.Context, wb *Workbook, plan Plan) (*models.Report, error) {
	sheet := wb.ActiveSheet()
	if plan.Sheet != "" {
		s, err := wb.Sheet(plan.Sheet)
		if err != nil {
			return nil, err
		}
		sheet = s
	}

	summary, err := sheet.Summary()
	if err != nil {
		return nil, err
	}
	report := &models.Report{
		BookName: wb.Name(),
		Sheet:    summary,
		Steps:    make([]models.StepResult, 0, len(plan.Steps)),
	}

	log := r.logger().WithFields(logrus.Fields{"book": wb.Name(), "sheet": sheet.Name()})
	log.WithFields(logrus.Fields{"dimension": summary.Dimension, "steps": len(plan.Steps)}).Info("inspection started")

	var loader *ImageLoader
	previous := ""
	for i, step := range plan.Steps {
		index := i + 1
		if err := ctx.Err(); err != nil {
			return report, NewStepError(index, step, err)
		}

		stepLog := log.WithFields(logrus.Fields{"step": index, "kind": step.Kind})
		result := models.StepResult{Index: index, Kind: string(step.Kind), Ref: step.Ref}

		var stepErr error
		switch step.Kind {
		case StepCell:
			var cell models.Cell
			if step.Ref != "" {
				cell, stepErr = sheet.CellAt(step.Ref)
			} else {
				cell, stepErr = sheet.Cell(step.Row, step.Col)
			}
			if stepErr == nil {
				result.Ref = cell.Ref
				result.Cell = &cell
				stepLog.WithFields(logrus.Fields{"ref": cell.Ref, "type": cell.Type, "value": cell.Value}).Info("cell read")
			}

		case StepRange:
			var rows [][]models.Cell
			rows, stepErr = sheet.Range(step.Ref)
			if stepErr == nil {
				result.Rows = rows
				stepLog.WithFields(logrus.Fields{"ref": step.Ref, "rows": len(rows)}).Info("range read")
			}

		case StepImage:
			if loader == nil {
				loader, stepErr = NewImageLoader(sheet)
				if stepErr == nil {
					stepLog.WithField("images", len(loader.Coordinates())).Debug("image index built")
				}
			}
			if stepErr == nil {
				result.Image, stepErr = r.showImage(ctx, loader, step.Ref, stepLog)
			}

		case StepPause:
			stepLog.WithField("after", previous).Debug("waiting for operator")
			stepErr = r.pauser().Pause(ctx, previous)

		default:
			stepErr = step.Validate()
		}

		if stepErr != nil {
			result.Error = stepErr.Error()
			report.Steps = append(report.Steps, result)
			stepLog.WithError(stepErr).Error("step failed")
			return report, NewStepError(index, step, stepErr)
		}
		report.Steps = append(report.Steps, result)
		if step.Kind != StepPause {
			previous = step.Label()
		}
	}

	log.Info("inspection finished")
	return report, nil
}

func (r *Runner) showImage(ctx context.Context, loader *ImageLoader, ref string, log logrus.FieldLogger) (*models.ImageInfo, error) {
	img, err := loader.Get(ref)
	if err != nil {
		return nil, err
	}
	info := img.Info()

	if r.OutDir != "" {
		path, err := img.Save(r.OutDir)
		if err != nil {
			return &info, err
		}
		info.SavedTo = path
	}

	if err := img.Show(ctx, r.viewer()); err != nil {
		return &info, err
	}
	log.WithFields(logrus.Fields{"ref": img.Cell, "extension": img.Extension, "bytes": len(img.Data)}).Info("image shown")
	return &info, nil
}

func (r *Runner) viewer() Viewer {
	if r.Viewer == nil {
		return NopViewer{}
	}
	return r.Viewer
}

func (r *Runner) pauser() Pauser {
	if r.Pauser == nil {
		return NopPauser{}
	}
	return r.Pauser
}

func (r *Runner) logger() logrus.FieldLogger {
	if r.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		return l
	}
	return r.Log
}
