// Package field models a single metadata value that may carry one string per
// language, and its stored "[[tag]]value" form.
//
// A field holding only a default-language value is stored bare. Any other
// combination is stored as tagged pairs in insertion order. SerializeForXML
// escapes the values, never the tag markers.
package field
