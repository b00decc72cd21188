// Package logtail reads the tail of the gantry log file for the console's
// log view.
//
// # Reading
//
// Read keeps a ring buffer of maxLines entries and scans the file once, so
// memory stays bounded by the number of lines shown rather than the size of
// the file:
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//
// A missing file is not an error; the console simply shows an empty view
// until the first record is written. Rotated files are not followed, only
// the current file is read.
//
// # Parsing
//
// The log file is written by slog's text handler, one record per line:
//
//	time=2026-10-19T09:30:00.000+02:00 level=INFO msg=authenticated session_id=5b0c… host=192.168.1.100
//
// Parse splits such a line into time, level, message and the remaining
// attributes so the console can colour each part. Quoted values are
// unquoted. Anything that does not look like a slog record comes back
// unchanged in Message.
package logtail
