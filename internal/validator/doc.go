// Package validator checks an exported RO-Crate directory the way a
// repository ingest would: the metadata file must load, the graph must pass
// the LDAC profile checks and every file entity must exist on disk. An
// optional external collector can add its own findings.
package validator
