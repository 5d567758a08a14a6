package rocrate

import (
	"encoding/json"
	"fmt"
	"slices"
)

// TypeValue is an entity's @type: either one string or a list. The form it
// was created or parsed with is the form it is written back in.
type TypeValue struct {
	values   []string
	multiple bool
}

// Single returns a single-string @type.
func Single(t string) TypeValue {
	return TypeValue{values: []string{t}}
}

// Multiple returns a list @type, even when it holds one value.
func Multiple(types ...string) TypeValue {
	return TypeValue{values: append([]string(nil), types...), multiple: true}
}

// TypesOf returns Single for one type and Multiple otherwise.
func TypesOf(types []string) TypeValue {
	if len(types) == 1 {
		return Single(types[0])
	}
	return Multiple(types...)
}

// Values returns the type names.
func (t TypeValue) Values() []string { return append([]string(nil), t.values...) }

// IsMultiple reports whether the value is written as a list.
func (t TypeValue) IsMultiple() bool { return t.multiple }

// Has reports whether name is one of the types.
func (t TypeValue) Has(name string) bool { return slices.Contains(t.values, name) }

// IsZero reports whether no type is set.
func (t TypeValue) IsZero() bool { return len(t.values) == 0 }

func (t TypeValue) MarshalJSON() ([]byte, error) {
	if !t.multiple && len(t.values) == 1 {
		return json.Marshal(t.values[0])
	}
	if t.values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.values)
}

func (t *TypeValue) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = Single(single)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("@type must be a string or a list of strings: %w", err)
	}
	*t = Multiple(list...)
	return nil
}

// Ref is a JSON-LD node reference.
type Ref struct {
	ID string `json:"@id"`
}

// RefTo returns a reference to id.
func RefTo(id string) Ref { return Ref{ID: id} }

// Refs converts ids to references.
func Refs(ids ...string) []Ref {
	out := make([]Ref, 0, len(ids))
	for _, id := range ids {
		out = append(out, Ref{ID: id})
	}
	return out
}

// DedupeRefs keeps the first occurrence of every @id, preserving order.
func DedupeRefs(refs []Ref) []Ref {
	if refs == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(refs))
	out := make([]Ref, 0, len(refs))
	for _, r := range refs {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// RefIDs extracts the @id values of a property value. It accepts Ref,
// []Ref and the generic maps and slices produced by decoding JSON.
func RefIDs(value any) []string {
	switch v := value.(type) {
	case Ref:
		return []string{v.ID}
	case []Ref:
		ids := make([]string, 0, len(v))
		for _, r := range v {
			ids = append(ids, r.ID)
		}
		return ids
	case map[string]any:
		if id, ok := v["@id"].(string); ok {
			return []string{id}
		}
	case []any:
		var ids []string
		for _, item := range v {
			ids = append(ids, RefIDs(item)...)
		}
		return ids
	}
	return nil
}
