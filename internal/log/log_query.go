// log_query.go reads the audit log back for the history command.
//
// Queries open their own read connection rather than sharing the global
// writer, so history works even when best-effort logging was never
// initialised in this process.

package log

import (
	"database/sql"
	"encoding/json"
)

// Recent returns the most recent entries recorded for a session
// directory, newest first. A missing database returns no entries.
func Recent(sessionDir string, limit int) ([]Entry, error) {
	db, err := sql.Open("sqlite", dbPath())
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
		SELECT start, end, source, author, action, range_start, range_end,
		       event_index, result_count, success, error, detail
		FROM log WHERE session = ? ORDER BY id DESC LIMIT ?`,
		hash(sessionDir), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var author, errMsg, detail sql.NullString
		var rangeStart, rangeEnd sql.NullInt64
		var eventIndex, resultCount sql.NullInt64
		var success int
		if err := rows.Scan(&e.Start, &e.End, &e.Source, &author, &e.Action,
			&rangeStart, &rangeEnd, &eventIndex, &resultCount,
			&success, &errMsg, &detail); err != nil {
			return nil, err
		}
		e.Author = author.String
		e.RangeStart = rangeStart.Int64
		e.RangeEnd = rangeEnd.Int64
		e.EventIndex = int(eventIndex.Int64)
		e.ResultCount = int(resultCount.Int64)
		e.Success = success == 1
		e.Error = errMsg.String
		if detail.Valid {
			_ = json.Unmarshal([]byte(detail.String), &e.Detail)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
