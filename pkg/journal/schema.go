package journal

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the journal tables. Times are stored as Unix nanoseconds
// so ordering and range filters stay numeric.
const Schema = `
CREATE TABLE IF NOT EXISTS loads (
    id TEXT PRIMARY KEY,
    started_at INTEGER NOT NULL,
    trigger_name TEXT NOT NULL,
    resources TEXT NOT NULL,
    status TEXT NOT NULL,
    definitions INTEGER NOT NULL,
    aliases INTEGER NOT NULL,
    overrides INTEGER NOT NULL,
    version TEXT,
    duration_ns INTEGER NOT NULL,
    error TEXT
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_loads_started_at ON loads(started_at);
CREATE INDEX IF NOT EXISTS idx_loads_status ON loads(status);
`

const insertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

const getSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
