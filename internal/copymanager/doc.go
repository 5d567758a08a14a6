// Package copymanager copies files into export packages and tracks every
// running copy in a job registry so a user cancellation can stop them all.
//
// Small files are copied in process with their modification time preserved.
// Files at or above the configured threshold are handed to rsync, whose
// percentage output is forwarded as progress. Copy never returns a Go error:
// the Result carries an ErrorKind and a message instead.
//
// CancelAll marks every registered job cancelled before it signals or cleans
// up anything. A job whose process still exits 0 after that point reports
// "Copy cancelled" but keeps its completed destination.
package copymanager
