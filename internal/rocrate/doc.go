// Package rocrate builds RO-Crate 1.2 JSON-LD graphs from a lameta project,
// writes them to disk with the referenced files, and runs the LDAC profile
// checks used after export.
//
// A Crate is a flat, ordered list of entities unique by @id. Nesting is only
// expressed through {"@id"} references; every hasPart list is deduplicated
// before the crate is serialized.
package rocrate
