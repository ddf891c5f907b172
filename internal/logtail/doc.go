// Package logtail reads the last lines of a log file.
//
// The dashboard writes its own structured log to disk because the
// terminal belongs to the TUI; the in-app log view reads that file back
// through this package.
//
// # Reading
//
// Read extracts the last maxLines lines in one sequential pass using a
// ring buffer, so memory stays O(maxLines) no matter how large the file
// has grown:
//
//	lines, err := logtail.Read("~/.local/share/raovat/raovat.log", 5000)
//
// A missing file reads as empty rather than failing; the log view simply
// has nothing to show yet.
//
// # Scope
//
// The package only reads. Level styling happens in the UI, and there is
// no follow mode: the log view re-reads on demand, which is cheap at
// this file size and avoids a file watcher.
package logtail
