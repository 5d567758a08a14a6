package project

import (
	"strings"

	"lameta/internal/field"
)

// Fields is an ordered set of fields keyed by field key. The zero value is
// ready to use.
type Fields struct {
	keys  []string
	byKey map[string]*field.Field
}

// Set adds f, replacing an existing field with the same key in place.
func (fs *Fields) Set(f *field.Field) {
	if f == nil || f.Key == "" {
		return
	}
	if fs.byKey == nil {
		fs.byKey = make(map[string]*field.Field)
	}
	if _, ok := fs.byKey[f.Key]; !ok {
		fs.keys = append(fs.keys, f.Key)
	}
	fs.byKey[f.Key] = f
}

// Get returns the field stored under key, or nil.
func (fs *Fields) Get(key string) *field.Field {
	if fs == nil || fs.byKey == nil {
		return nil
	}
	return fs.byKey[key]
}

// Text returns the trimmed default-language text of key.
func (fs *Fields) Text(key string) string {
	return strings.TrimSpace(fs.Get(key).Text())
}

// FirstText returns the first non-empty text among keys.
func (fs *Fields) FirstText(keys ...string) string {
	for _, key := range keys {
		if v := fs.Text(key); v != "" {
			return v
		}
	}
	return ""
}

// Keys returns the field keys in load order.
func (fs *Fields) Keys() []string {
	if fs == nil {
		return nil
	}
	return append([]string(nil), fs.keys...)
}

// All returns the fields in load order.
func (fs *Fields) All() []*field.Field {
	if fs == nil {
		return nil
	}
	out := make([]*field.Field, 0, len(fs.keys))
	for _, key := range fs.keys {
		out = append(out, fs.byKey[key])
	}
	return out
}

// Len reports the number of fields.
func (fs *Fields) Len() int {
	if fs == nil {
		return 0
	}
	return len(fs.keys)
}
