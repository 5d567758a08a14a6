// Package materialtype classifies exported files as LDAC primary material or
// annotation and supplies the matching DefinedTerm vocabulary.
package materialtype
