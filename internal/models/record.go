// Package models defines the domain types for the gallery.
package models

import orderedmap "github.com/wk8/go-ordered-map/v2"

// Field is one manifest column of a Record, in header order.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Record is one parsed manifest row. The resolved display fields are always
// present; Fields keeps every header column in manifest order.
//
// Records are values and are never modified once the parser has built them.
type Record struct {
	Src         string  `json:"src"`
	Thumbnail   string  `json:"thumbnail"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Subject     string  `json:"subject"`
	Fields      []Field `json:"-"`
}

// Get returns the value of the named column.
func (r Record) Get(name string) (string, bool) {
	switch name {
	case "src":
		return r.Src, true
	case "thumbnail":
		return r.Thumbnail, true
	case "title":
		return r.Title, true
	case "description":
		return r.Description, true
	case "subject":
		return r.Subject, true
	}
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// MarshalJSON emits the resolved fields (src, thumbnail, title, description,
// subject) and then the remaining manifest columns in header order. A column
// sharing a resolved field's name is left out; the resolved value wins.
func (r Record) MarshalJSON() ([]byte, error) {
	out := orderedmap.New[string, string](orderedmap.WithCapacity[string, string](5 + len(r.Fields)))
	out.Set("src", r.Src)
	out.Set("thumbnail", r.Thumbnail)
	out.Set("title", r.Title)
	out.Set("description", r.Description)
	out.Set("subject", r.Subject)
	for _, f := range r.Fields {
		if _, taken := out.Get(f.Name); taken {
			continue
		}
		out.Set(f.Name, f.Value)
	}
	return out.MarshalJSON()
}
