// Package export mirrors a catalog into a disposable SQLite file.
package export

// Schema creates the logs table. ts and ts_text both hold RFC 3339 text in
// UTC with a "+00:00" offset;
// SQLite has no native timestamp type.
const Schema = `
CREATE TABLE IF NOT EXISTS logs (
    row_id INTEGER PRIMARY KEY,
    file_id INTEGER NOT NULL,
    line_start INTEGER NOT NULL,
    line_end INTEGER NOT NULL,
    ts TEXT,
    ts_text TEXT,
    level TEXT,
    corr TEXT,
    name TEXT,
    msg TEXT,
    service TEXT,
    namespace TEXT,
    trace_id TEXT,
    request_id TEXT,
    raw_json TEXT NOT NULL,
    flat_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_logs_ts ON logs(ts);
CREATE INDEX IF NOT EXISTS idx_logs_file_id ON logs(file_id);
`

const insertRow = `
INSERT INTO logs (
    row_id, file_id, line_start, line_end, ts, ts_text, level, corr, name, msg,
    service, namespace, trace_id, request_id, raw_json, flat_json
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
