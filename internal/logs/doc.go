// Package logs reads lameta.log for the `lameta logs` command.
//
// Last returns the final matching lines with bounded memory, and Follow polls
// for appended lines until its context is cancelled. MatchExport narrows
// output to one export run in either the console or JSON log format.
package logs
