package rocrate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Entity is one node of the @graph. Properties keep insertion order so the
// serialized crate is stable across runs.
type Entity struct {
	ID    string
	Type  TypeValue
	keys  []string
	props map[string]any
}

// NewEntity returns an entity with the given @id and @type.
func NewEntity(id string, typ TypeValue) *Entity {
	return &Entity{ID: id, Type: typ, props: make(map[string]any)}
}

// Set stores a property. Empty strings and nil values are ignored so
// optional fields stay absent rather than blank.
func (e *Entity) Set(key string, value any) *Entity {
	switch v := value.(type) {
	case nil:
		return e
	case string:
		if strings.TrimSpace(v) == "" {
			return e
		}
	case []Ref:
		if len(v) == 0 {
			return e
		}
	case []string:
		if len(v) == 0 {
			return e
		}
	}
	if e.props == nil {
		e.props = make(map[string]any)
	}
	if _, ok := e.props[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.props[key] = value
	return e
}

// Delete removes a property.
func (e *Entity) Delete(key string) {
	if _, ok := e.props[key]; !ok {
		return
	}
	delete(e.props, key)
	for i, k := range e.keys {
		if k == key {
			e.keys = append(e.keys[:i], e.keys[i+1:]...)
			break
		}
	}
}

// Get returns a property value.
func (e *Entity) Get(key string) (any, bool) {
	v, ok := e.props[key]
	return v, ok
}

// String returns a string property, or "".
func (e *Entity) String(key string) string {
	v, _ := e.props[key].(string)
	return v
}

// Keys returns the property names in insertion order.
func (e *Entity) Keys() []string {
	return append([]string(nil), e.keys...)
}

// AddPart appends a hasPart reference. Duplicates are tolerated here and
// removed by Crate.DedupeHasPart.
func (e *Entity) AddPart(id string) {
	parts := e.HasPart()
	e.Set("hasPart", append(parts, Ref{ID: id}))
}

// HasPart returns the entity's hasPart references.
func (e *Entity) HasPart() []Ref {
	parts, _ := e.props["hasPart"].([]Ref)
	return parts
}

// AddRef appends a reference to a list-valued property.
func (e *Entity) AddRef(key, id string) {
	switch existing := e.props[key].(type) {
	case []Ref:
		e.props[key] = append(existing, Ref{ID: id})
	case Ref:
		e.props[key] = []Ref{existing, {ID: id}}
	default:
		e.Set(key, []Ref{{ID: id}})
	}
}

// RefIDs returns the @ids referenced by a property.
func (e *Entity) RefIDs(key string) []string {
	return RefIDs(e.props[key])
}

func (e *Entity) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	id, err := json.Marshal(e.ID)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`"@id":`)
	buf.Write(id)
	if !e.Type.IsZero() {
		typ, err := json.Marshal(e.Type)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"@type":`)
		buf.Write(typ)
	}
	for _, key := range e.keys {
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.props[key])
		if err != nil {
			return nil, fmt.Errorf("entity %s property %s: %w", e.ID, key, err)
		}
		buf.WriteByte(',')
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (e *Entity) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("entity must be a JSON object")
	}
	*e = Entity{props: make(map[string]any)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		switch key {
		case "@id":
			if err := dec.Decode(&e.ID); err != nil {
				return fmt.Errorf("@id: %w", err)
			}
		case "@type":
			if err := dec.Decode(&e.Type); err != nil {
				return err
			}
		default:
			var value any
			if err := dec.Decode(&value); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			if key == "hasPart" {
				value = Refs(RefIDs(value)...)
			}
			e.keys = append(e.keys, key)
			e.props[key] = value
		}
	}
	_, err = dec.Token()
	return err
}
