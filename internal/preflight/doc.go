// Package preflight checks the filesystem paths and services lameta depends
// on. `lameta config validate` prints the results next to the external tool
// table; checks for disabled features are skipped.
package preflight
