package rocrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Well-known identifiers.
const (
	MetadataFileName  = "ro-crate-metadata.json"
	RootID            = "./"
	ContextURL        = "https://w3id.org/ro/crate/1.2/context"
	SpecURL           = "https://w3id.org/ro/crate/1.2"
	LDACNamespace     = "https://w3id.org/ldac/terms#"
	CollectionProfile = "https://w3id.org/ldac/profile#Collection"
	ObjectProfile     = "https://w3id.org/ldac/profile#Object"
)

// ErrNoGraph is returned by Parse when the document has no @graph array.
var ErrNoGraph = errors.New("RO-Crate must have a @graph array")

// DefaultContext returns the @context written into every crate.
func DefaultContext() any {
	return []any{
		ContextURL,
		map[string]any{
			"ldac":          LDACNamespace,
			"Dataset":       "http://schema.org/Dataset",
			"name":          "http://schema.org/name",
			"description":   "http://schema.org/description",
			"datePublished": "http://schema.org/datePublished",
			"license":       "http://schema.org/license",
		},
	}
}

// Crate is a flat JSON-LD graph unique by @id.
type Crate struct {
	Context  any
	entities []*Entity
	index    map[string]int
	// sources maps file entity ids to the files they were built from.
	sources    map[string]string
	duplicates []string
}

// NewCrate returns an empty crate with the default context.
func NewCrate() *Crate {
	return &Crate{
		Context: DefaultContext(),
		index:   make(map[string]int),
		sources: make(map[string]string),
	}
}

// Add appends e unless an entity with the same @id exists. It returns the
// entity that holds the id, so the first entity added wins.
func (c *Crate) Add(e *Entity) *Entity {
	if idx, ok := c.index[e.ID]; ok {
		return c.entities[idx]
	}
	c.index[e.ID] = len(c.entities)
	c.entities = append(c.entities, e)
	return e
}

// Get returns the entity with id, or nil.
func (c *Crate) Get(id string) *Entity {
	idx, ok := c.index[id]
	if !ok {
		return nil
	}
	return c.entities[idx]
}

// Has reports whether id is present.
func (c *Crate) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Entities returns the graph in order.
func (c *Crate) Entities() []*Entity {
	return append([]*Entity(nil), c.entities...)
}

// Len returns the number of entities.
func (c *Crate) Len() int { return len(c.entities) }

// Root returns the root dataset, or nil.
func (c *Crate) Root() *Entity { return c.Get(RootID) }

// SetSource records the on-disk file behind a file entity.
func (c *Crate) SetSource(id, path string) {
	c.sources[id] = path
}

// Sources returns file entity ids and their source paths, sorted by id.
func (c *Crate) Sources() []Source {
	out := make([]Source, 0, len(c.sources))
	for id, path := range c.sources {
		out = append(out, Source{ID: id, Path: path})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Source pairs a file entity with the file it describes.
type Source struct {
	ID   string
	Path string
}

// DedupeHasPart removes repeated references from every hasPart list,
// keeping first occurrences in order.
func (c *Crate) DedupeHasPart() {
	for _, e := range c.entities {
		parts := e.HasPart()
		if len(parts) == 0 {
			continue
		}
		e.props["hasPart"] = DedupeRefs(parts)
	}
}

// CountByType returns how many entities carry each @type value.
func (c *Crate) CountByType() map[string]int {
	counts := make(map[string]int)
	for _, e := range c.entities {
		for _, t := range e.Type.values {
			counts[t]++
		}
	}
	return counts
}

type crateJSON struct {
	Context any       `json:"@context"`
	Graph   []*Entity `json:"@graph"`
}

func (c *Crate) MarshalJSON() ([]byte, error) {
	graph := c.entities
	if graph == nil {
		graph = []*Entity{}
	}
	return json.Marshal(crateJSON{Context: c.Context, Graph: graph})
}

// Encode returns the indented JSON document with a trailing newline.
func (c *Crate) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Parse reads an ro-crate-metadata.json document. Duplicate @ids are kept
// out of the index but counted in Duplicates.
func Parse(data []byte) (*Crate, error) {
	var raw struct {
		Context any             `json:"@context"`
		Graph   json.RawMessage `json:"@graph"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	trimmed := bytes.TrimSpace(raw.Graph)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNoGraph
	}
	var entities []*Entity
	if err := json.Unmarshal(trimmed, &entities); err != nil {
		return nil, fmt.Errorf("invalid @graph: %w", err)
	}
	c := NewCrate()
	c.Context = raw.Context
	for _, e := range entities {
		if e == nil {
			continue
		}
		if c.Has(e.ID) {
			c.duplicates = append(c.duplicates, e.ID)
			continue
		}
		c.Add(e)
	}
	return c, nil
}

// Duplicates lists @ids that appeared more than once in a parsed crate.
func (c *Crate) Duplicates() []string {
	return append([]string(nil), c.duplicates...)
}
