package imdi

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// Node is one XML element. Comments are emitted before the element's
// children.
type Node struct {
	Name     string
	Attrs    []xml.Attr
	Text     string
	Comments []string
	Children []*Node
}

// NewNode returns an element with optional text content.
func NewNode(name, text string) *Node {
	return &Node{Name: name, Text: text}
}

// Add appends a child element and returns it.
func (n *Node) Add(name, text string) *Node {
	child := NewNode(name, text)
	n.Children = append(n.Children, child)
	return child
}

// Group appends an empty child element, runs fill on it and returns it.
func (n *Node) Group(name string, fill func(*Node)) *Node {
	child := n.Add(name, "")
	if fill != nil {
		fill(child)
	}
	return child
}

// Attr sets an attribute, replacing an existing value.
func (n *Node) Attr(name, value string) *Node {
	for i := range n.Attrs {
		if n.Attrs[i].Name.Local == name {
			n.Attrs[i].Value = value
			return n
		}
	}
	n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
	return n
}

// AttrValue returns an attribute value, or "".
func (n *Node) AttrValue(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// Comment records an XML comment inside the element.
func (n *Node) Comment(text string) {
	n.Comments = append(n.Comments, strings.ReplaceAll(text, "--", "- -"))
}

// Find follows a slash-separated path of child element names and returns
// the first match.
func (n *Node) Find(path string) *Node {
	all := n.FindAll(path)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// FindAll returns every element reached by a slash-separated path.
func (n *Node) FindAll(path string) []*Node {
	current := []*Node{n}
	for _, step := range strings.Split(path, "/") {
		var next []*Node
		for _, node := range current {
			for _, child := range node.Children {
				if child.Name == step {
					next = append(next, child)
				}
			}
		}
		current = next
	}
	return current
}

// Encode writes the tree as indented XML with a declaration.
func (n *Node) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := n.encode(enc); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (n *Node) encode(enc *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: n.Name}, Attr: n.Attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, c := range n.Comments {
		if err := enc.EncodeToken(xml.Comment(" " + c + " ")); err != nil {
			return err
		}
	}
	if n.Text != "" {
		if err := enc.EncodeToken(xml.CharData(n.Text)); err != nil {
			return err
		}
	}
	for _, child := range n.Children {
		if err := child.encode(enc); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
