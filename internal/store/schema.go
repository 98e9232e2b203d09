package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS settings (
    key                  TEXT PRIMARY KEY,
    value                TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS undo_log (
    seq                  INTEGER PRIMARY KEY,
    remaining_minutes    INTEGER NOT NULL
);
`
