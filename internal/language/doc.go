// Package language normalizes the ISO 639 codes found in lameta projects and
// resolves their English names.
//
// Sessions and people store ISO 639-3 codes, sometimes with a name suffix
// ("etr: Edolo"). Exporters use this package to build language entities and
// IMDI language ids.
package language
