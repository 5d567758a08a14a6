// Package imdi renders a lameta project as IMDI 3.0 metadata: one corpus
// document linking to one session document per session, plus pseudo-session
// documents for the project's document folders and consent forms.
//
// Documents are built as an in-memory Node tree so that element order, which
// the IMDI schema fixes through xs:sequence, is explicit in the generator and
// easy to assert on in tests. WriteBundle lays the documents and the files
// they reference out on disk, optionally wrapped for OPEX ingest.
package imdi
