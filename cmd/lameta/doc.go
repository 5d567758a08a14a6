// Package main hosts the lameta CLI entrypoint and command graph.
//
// The Cobra command tree exposes the export pipeline (export, validate,
// copy), the export history and configuration scaffolding. Configuration,
// logging and the history store are resolved once per invocation in
// commandContext so subcommands only deal with presentation.
//
// Keep this package lean: new behaviour belongs in the internal packages and
// is surfaced here through dedicated commands or flags.
package main
