// Package config reads lameta's TOML configuration.
//
// Load looks for an explicit path, then ~/.config/lameta/config.toml, then
// ./lameta.toml, and falls back to defaults when none exists. Paths are
// expanded (including ~), blank values are replaced by defaults, and
// LAMETA_VALIDATOR fills validator.binary when the file leaves it empty.
// Validate rejects bad language tags, globs and log settings before any
// export starts.
package config
