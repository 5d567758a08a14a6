// Package vocab exposes the controlled vocabularies (contributor roles and
// session genres) embedded as YAML tables, and their RO-Crate mappings.
package vocab
