// Package output provides a service for rendering results to the console.
package output

import (
	"encoding/json"
	"os"

	"github.com/surycat/pkgship/model"
	"github.com/surycat/pkgship/service/storage"
)

// NewService creates a new output service with the specified format
func NewService(format string) Service {
	f := FormatTable
	if format == "json" {
		f = FormatJSON
	}

	return &service{
		format:   f,
		renderer: &realRenderer{},
	}
}

func (s *service) Format() Format {
	return s.format
}

func (s *service) RenderReport(report *model.ReleaseReport) error {
	if s.format == FormatJSON {
		return writeJSON(report)
	}
	s.renderer.DrawReportTable(report)
	return nil
}

func (s *service) RenderHistory(runs []storage.RunSummary) error {
	if s.format == FormatJSON {
		return writeJSON(runs)
	}
	s.renderer.DrawHistoryTable(runs)
	return nil
}

func (s *service) RenderSteps(steps []storage.StepRecord) error {
	if s.format == FormatJSON {
		return writeJSON(steps)
	}
	s.renderer.DrawStepsTable(steps)
	return nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
