package storage

import (
	"context"
	"time"
)

// SaveRunInput captures one release run for the history database.
type SaveRunInput struct {
	RunUUID     string
	Package     string
	Version     string
	Repository  string
	ArchivePath string
	ArchiveSize int64
	Duration    time.Duration
	Status      string
	CLIVersion  string
	Steps       []StepRecord
}

// StepRecord is a single pipeline step outcome.
type StepRecord struct {
	Name       string
	State      string
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// RunSummary is a stored release run as listed by history queries.
type RunSummary struct {
	RunID       int64     `json:"run_id"`
	RunUUID     string    `json:"run_uuid"`
	Package     string    `json:"package"`
	Version     string    `json:"version"`
	Repository  string    `json:"repository"`
	ArchivePath string    `json:"archive_path"`
	ArchiveSize int64     `json:"archive_size"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Service is the interface for the release history store.
type Service interface {
	SaveRun(ctx context.Context, input SaveRunInput) (int64, error)
	GetRecentRuns(pkg string, limit int) ([]RunSummary, error)
	GetRunSteps(runID int64) ([]StepRecord, error)
	PurgeOlderThan(ctx context.Context, days int) (int64, error)
	Vacuum(ctx context.Context) error
	Reindex(ctx context.Context) error
	Close() error
}
