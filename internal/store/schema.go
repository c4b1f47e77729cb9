package store

// Schema is the SQL schema for the saved-analyses database.
const Schema = `
CREATE TABLE IF NOT EXISTS saved_analyses (
    id          TEXT PRIMARY KEY,
    title       TEXT NOT NULL DEFAULT '',
    input       TEXT NOT NULL,
    words       INTEGER NOT NULL,
    unresolved  INTEGER NOT NULL,
    document    TEXT NOT NULL,
    saved_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_saved_analyses_saved_at ON saved_analyses(saved_at);
`
