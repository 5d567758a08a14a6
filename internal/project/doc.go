// Package project reads a lameta project directory into an immutable model
// used by the exporters.
//
// A project is laid out as:
//
//	<root>/<name>.sprj
//	<root>/Sessions/<id>/<id>.session
//	<root>/People/<id>/<id>.person
//	<root>/DescriptionDocuments/
//	<root>/OtherDocuments/
//
// Content files may carry a "<file>.meta" sidecar. Metadata files are XML
// documents whose children are fields, with optional AdditionalFields,
// CustomFields, contributions and person language sections.
//
// Load never writes to the project; sessions, people and files are sorted so
// exports are reproducible.
package project
