package rocrate

import "fmt"

// Severity of a check finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is one finding of Check.
type Issue struct {
	Severity Severity
	Message  string
	Entity   string
	Property string
}

// Check runs the in-process LDAC profile checks: a root collection must
// exist, the root and every repository object need ldac:subjectLanguage,
// every hasPart reference must resolve and @ids must be unique.
func Check(c *Crate) []Issue {
	var issues []Issue
	if c.Len() == 0 {
		return append(issues, Issue{Severity: SeverityError, Message: "RO-Crate @graph is empty"})
	}
	for _, id := range c.Duplicates() {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Message:  fmt.Sprintf("Duplicate @id %q in @graph", id),
			Entity:   id,
		})
	}

	root := c.Root()
	if root == nil || !root.Type.Has("Dataset") {
		issues = append(issues, Issue{Severity: SeverityError, Message: "No root collection found in @graph", Entity: RootID})
	} else {
		if !root.Type.Has("RepositoryCollection") {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Message:  "Root dataset is not typed RepositoryCollection",
				Entity:   RootID,
				Property: "@type",
			})
		}
		if len(root.RefIDs("ldac:subjectLanguage")) == 0 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Message:  "Root collection has no ldac:subjectLanguage",
				Entity:   RootID,
				Property: "ldac:subjectLanguage",
			})
		}
	}

	for _, e := range c.Entities() {
		if e.ID != RootID && e.Type.Has("RepositoryObject") && len(e.RefIDs("ldac:subjectLanguage")) == 0 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Message:  fmt.Sprintf("Object %s has no ldac:subjectLanguage", e.ID),
				Entity:   e.ID,
				Property: "ldac:subjectLanguage",
			})
		}
		for _, part := range e.HasPart() {
			if !c.Has(part.ID) {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Message:  fmt.Sprintf("%s lists %s in hasPart but no entity has that @id", e.ID, part.ID),
					Entity:   e.ID,
					Property: "hasPart",
				})
			}
		}
		if parts := e.HasPart(); len(DedupeRefs(parts)) != len(parts) {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Message:  fmt.Sprintf("%s lists the same part more than once", e.ID),
				Entity:   e.ID,
				Property: "hasPart",
			})
		}
		if e.Type.Has("File") {
			if _, ok := e.Get("ldac:materialType"); !ok {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("File %s has no ldac:materialType", e.ID),
					Entity:   e.ID,
					Property: "ldac:materialType",
				})
			}
		}
	}
	return issues
}
