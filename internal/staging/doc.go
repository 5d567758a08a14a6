// Package staging removes the leftovers an interrupted export can leave in
// its destination: temp files from atomic metadata writes and any other
// partial output matched by caller-supplied globs.
package staging
