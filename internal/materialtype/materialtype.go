package materialtype

import "lameta/internal/fileformat"

// MaterialType is an LDAC material type term.
type MaterialType string

const (
	PrimaryMaterial MaterialType = "ldac:PrimaryMaterial"
	Annotation      MaterialType = "ldac:Annotation"
	// DerivedMaterial is part of the vocabulary but no file type maps to it yet.
	DerivedMaterial MaterialType = "ldac:DerivedMaterial"
)

// UnknownType is the file type used when a path has no known format.
const UnknownType = "unknown"

// Classify maps a file format type to its material type. Only recordings and
// images are primary material; everything else, including unknown and empty
// types, is annotation.
func Classify(fileType string) MaterialType {
	switch fileType {
	case "Audio", "Video", "Image":
		return PrimaryMaterial
	default:
		return Annotation
	}
}

// ClassifyByPath looks up the format of path and classifies it.
func ClassifyByPath(path string) MaterialType {
	return Classify(fileformat.TypeForPath(path, UnknownType))
}

// Term is one DefinedTerm or DefinedTermSet in the material type vocabulary.
type Term struct {
	ID          string
	Type        string
	Name        string
	Description string
	InSet       string
}

// TermSetID is the @id of the material type DefinedTermSet.
const TermSetID = "ldac:MaterialTypes"

// Definitions returns the vocabulary entities that every crate using
// material types must carry.
func Definitions() []Term {
	return []Term{
		{ID: TermSetID, Type: "DefinedTermSet", Name: "Material Types"},
		{
			ID:          string(PrimaryMaterial),
			Type:        "DefinedTerm",
			Name:        "Primary Material",
			Description: "The object of study, such as a literary work, film, or recording of natural discourse.",
			InSet:       TermSetID,
		},
		{
			ID:          string(Annotation),
			Type:        "DefinedTerm",
			Name:        "Annotation",
			Description: "The resource includes material that adds information to some other linguistic record.",
			InSet:       TermSetID,
		},
		{
			ID:          string(DerivedMaterial),
			Type:        "DefinedTerm",
			Name:        "Derived Material",
			Description: "This is derived from another source, such as a Primary Material, via some process, e.g. a downsampled video or a sample or an abstract of a resource that is not an annotation (an analysis or description).",
			InSet:       TermSetID,
		},
	}
}
