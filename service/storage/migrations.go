package storage

const schemaV1 = `
CREATE TABLE IF NOT EXISTS runs (
    run_id          INTEGER PRIMARY KEY AUTOINCREMENT,
    run_uuid        TEXT UNIQUE NOT NULL,
    package         TEXT NOT NULL,
    version         TEXT NOT NULL,
    repository      TEXT,
    archive_path    TEXT,
    archive_size    INTEGER DEFAULT 0,
    duration_ms     INTEGER DEFAULT 0,
    status          TEXT NOT NULL,
    cli_version     TEXT,
    created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_package_created
    ON runs(package, created_at);
CREATE INDEX IF NOT EXISTS idx_runs_created
    ON runs(created_at DESC);

CREATE TABLE IF NOT EXISTS run_steps (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id         INTEGER NOT NULL,
    step_name      TEXT NOT NULL,
    state          TEXT NOT NULL,
    error          TEXT,
    started_at     DATETIME,
    finished_at    DATETIME,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_steps_run ON run_steps(run_id);
`
