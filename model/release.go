package model

import "time"

// Step execution states as recorded in a release report.
const (
	StepPending = "PENDING"
	StepDone    = "DONE"
	StepFailed  = "FAILED"
	StepSkipped = "SKIPPED"
)

// Release run states.
const (
	RunSucceeded = "SUCCEEDED"
	RunFailed    = "FAILED"
)

// ReleaseRequest describes a single release run.
type ReleaseRequest struct {
	Package     string
	Version     string
	Repository  string
	SourceDir   string
	DistDir     string
	VersionFile string
	Include     []string
	Exclude     []string
	SkipUpload  bool
	DryRun      bool
}

// StepReport is the execution record of one pipeline step.
type StepReport struct {
	Name       string    `json:"name"`
	State      string    `json:"state"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at,omitzero"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// ReleaseReport is the full execution record of a release run.
type ReleaseReport struct {
	RunID       string       `json:"run_id"`
	Package     string       `json:"package"`
	Version     string       `json:"version"`
	Repository  string       `json:"repository,omitempty"`
	ArchivePath string       `json:"archive_path,omitempty"`
	ArchiveSize int64        `json:"archive_size,omitempty"`
	Status      string       `json:"status"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
	Steps       []StepReport `json:"steps"`
}

// Duration returns the wall-clock duration of the run.
func (r *ReleaseReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
