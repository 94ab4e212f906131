package database

// schema is shared by the Postgres and SQLite backends; both accept this
// subset of DDL unchanged.
const schema = `
CREATE TABLE IF NOT EXISTS validators (
    id                   INTEGER PRIMARY KEY,
    public_key           TEXT NOT NULL DEFAULT '',
    missed_attestations  INTEGER NOT NULL DEFAULT 0 CHECK (missed_attestations >= 0)
);
`
