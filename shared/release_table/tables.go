// Package releasetable renders release runs and history as ASCII tables.
package releasetable

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/surycat/pkgship/model"
	"github.com/surycat/pkgship/service/storage"
)

// RenderReportTable prints the summary and step tables for a release run.
func RenderReportTable(report *model.ReleaseReport) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Package", "Version", "Status", "Archive", "Size", "Duration"})
	size := ""
	if report.ArchiveSize > 0 {
		size = humanize.Bytes(uint64(report.ArchiveSize))
	}
	t.AppendRow(table.Row{
		report.Package, report.Version, report.Status,
		report.ArchivePath, size, report.Duration().Round(10 * time.Millisecond).String(),
	})
	t.SetStyle(table.StyleRounded)
	t.Render()

	st := table.NewWriter()
	st.SetOutputMirror(os.Stdout)
	st.AppendHeader(table.Row{"Step", "State", "Error"})
	for _, step := range report.Steps {
		st.AppendRow(table.Row{step.Name, step.State, step.Error})
	}
	st.SetStyle(table.StyleRounded)
	st.Render()
}

// RenderHistoryTable prints stored release runs.
func RenderHistoryTable(runs []storage.RunSummary) {
	if len(runs) == 0 {
		fmt.Println("No release history found")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Date", "Package", "Version", "Status", "Size"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.RunID, r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Package, r.Version, r.Status, humanize.Bytes(uint64(r.ArchiveSize)),
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// RenderStepsTable prints the steps of one stored run.
func RenderStepsTable(steps []storage.StepRecord) {
	if len(steps) == 0 {
		fmt.Println("No steps recorded for this run")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Step", "State", "Error"})
	for _, step := range steps {
		t.AppendRow(table.Row{step.Name, step.State, step.Error})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
