// Package history records export runs in a small SQLite database.
//
// Every export opens a run with Start before touching the destination and
// closes it with Finish once the outcome is known. Runs left without a
// finish time belong to a process that died mid-export; List reports them
// with status "running" so the CLI can surface them.
//
// Schema changes are added as new files under migrations/; applied versions
// are tracked in schema_migrations.
package history
