// Package storage persists release run history in a local SQLite database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const defaultDBPath = "~/.pkgship/history.db"

// NewService creates a SQLite-backed history service.
func NewService(dbPath string) (Service, error) {
	resolved, err := resolvePath(dbPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaV1); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &service{db: db, dbPath: resolved}, nil
}

type service struct {
	db     *sql.DB
	dbPath string
}

func resolvePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		p = defaultDBPath
	}
	if strings.HasPrefix(p, "~/") || p == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home dir: %w", err)
		}
		if p == "~" {
			p = home
		} else {
			p = filepath.Join(home, p[2:])
		}
	}
	return filepath.Clean(p), nil
}

func (s *service) SaveRun(ctx context.Context, input SaveRunInput) (int64, error) {
	if input.Package == "" {
		return 0, errors.New("package is required")
	}
	if input.Version == "" {
		return 0, errors.New("version is required")
	}
	if input.RunUUID == "" {
		input.RunUUID = fmt.Sprintf("run-%d", time.Now().UnixNano())
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (
			run_uuid, package, version, repository, archive_path,
			archive_size, duration_ms, status, cli_version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, input.RunUUID, input.Package, input.Version, input.Repository, input.ArchivePath,
		input.ArchiveSize, input.Duration.Milliseconds(), input.Status, input.CLIVersion)
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, step := range input.Steps {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_steps (run_id, step_name, state, error, started_at, finished_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, runID, step.Name, step.State, step.Error,
			nullableTime(step.StartedAt), nullableTime(step.FinishedAt))
		if err != nil {
			return 0, err
		}
	}

	err = tx.Commit()
	if err != nil {
		return 0, err
	}
	return runID, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func (s *service) GetRecentRuns(pkg string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT run_id, run_uuid, package, version, COALESCE(repository, ''),
		       COALESCE(archive_path, ''), archive_size, status, created_at
		FROM runs
	`
	args := []any{}
	if pkg != "" {
		query += " WHERE package = ?"
		args = append(args, pkg)
	}
	query += " ORDER BY created_at DESC, run_id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.RunUUID, &r.Package, &r.Version, &r.Repository,
			&r.ArchivePath, &r.ArchiveSize, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *service) GetRunSteps(runID int64) ([]StepRecord, error) {
	rows, err := s.db.Query(`
		SELECT step_name, state, COALESCE(error, ''),
		       COALESCE(started_at, ''), COALESCE(finished_at, '')
		FROM run_steps WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []StepRecord
	for rows.Next() {
		var step StepRecord
		var started, finished string
		if err := rows.Scan(&step.Name, &step.State, &step.Error, &started, &finished); err != nil {
			return nil, err
		}
		if started != "" {
			step.StartedAt, _ = time.Parse(time.RFC3339, started)
		}
		if finished != "" {
			step.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

func (s *service) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, errors.New("days must be positive")
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM runs
		WHERE created_at < datetime('now', ?)
	`, fmt.Sprintf("-%d days", days))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *service) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM;")
	return err
}

func (s *service) Reindex(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "REINDEX;")
	return err
}

func (s *service) Close() error {
	return s.db.Close()
}
