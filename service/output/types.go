package output

import (
	"github.com/surycat/pkgship/model"
	"github.com/surycat/pkgship/service/storage"
	releasetable "github.com/surycat/pkgship/shared/release_table"
)

// Format represents the output format type
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Renderer defines the interface for drawing results
type Renderer interface {
	DrawReportTable(report *model.ReleaseReport)
	DrawHistoryTable(runs []storage.RunSummary)
	DrawStepsTable(steps []storage.StepRecord)
}

type realRenderer struct{}

func (r *realRenderer) DrawReportTable(report *model.ReleaseReport) {
	releasetable.RenderReportTable(report)
}

func (r *realRenderer) DrawHistoryTable(runs []storage.RunSummary) {
	releasetable.RenderHistoryTable(runs)
}

func (r *realRenderer) DrawStepsTable(steps []storage.StepRecord) {
	releasetable.RenderStepsTable(steps)
}

type service struct {
	format   Format
	renderer Renderer
}

// Service is the interface for rendering results to the console.
type Service interface {
	RenderReport(report *model.ReleaseReport) error
	RenderHistory(runs []storage.RunSummary) error
	RenderSteps(steps []storage.StepRecord) error
	Format() Format
}
