// Package workflow runs one export from start to finish.
//
// Manager.Run loads the project, takes the destination lock, clears partial
// files left by an earlier interrupted run and hands the project to the
// writer for the requested format. Every run gets an export id that is
// attached to the context (and so to every log line), recorded in the
// history store and used to label the run's metrics. RO-Crate exports are
// validated as the last step; validation errors mark the run invalid
// without removing what was written.
//
// Format writers never return partial state: the Summary is filled in by the
// manager from their stats, and the warnings collector gathers every
// non-fatal problem for the CLI to print.
package workflow
