// Package views maps entities to and from their wire shape. Every attribute
// is listed once in a table together with the view groups that expose it;
// normalization and denormalization only ever consult that table.
package views

import (
	"encoding/json"
	"slices"

	"catalog/apierr"
)

type Group string

const (
	ProductRead       Group = "product.read"
	ProductWrite      Group = "product.write"
	ManufacturerRead  Group = "manufacturer.read"
	ManufacturerWrite Group = "manufacturer.write"
)

// Document is one rendered entity.
type Document map[string]any

// Field is one attribute of E. Get returns an untyped nil for absent values.
// Set is nil for read-only attributes; Column is the persisted struct field
// Set writes to.
type Field[E any] struct {
	Name     string
	Column   string
	Groups   []Group
	Required []Group
	Get      func(e *E, g Group) any
	Set      func(e *E, raw json.RawMessage) error
}

func (f Field[E]) In(g Group) bool {
	return slices.Contains(f.Groups, g)
}

type Table[E any] struct {
	Type   string
	IRI    func(e *E) string
	Fields []Field[E]
}

// Normalize renders e with the attributes visible in g.
func (t *Table[E]) Normalize(e *E, g Group) Document {
	doc := Document{
		"@id":   t.IRI(e),
		"@type": t.Type,
	}
	for _, f := range t.Fields {
		if f.Get == nil || !f.In(g) {
			continue
		}
		if v := f.Get(e, g); v != nil {
			doc[f.Name] = v
		}
	}
	return doc
}

// Item renders e as a top-level document.
func (t *Table[E]) Item(e *E, g Group) Document {
	doc := t.Normalize(e, g)
	doc["@context"] = "/api/contexts/" + t.Type
	return doc
}

// Members renders a page of items for a collection envelope.
func (t *Table[E]) Members(items []E, g Group) []any {
	members := make([]any, 0, len(items))
	for i := range items {
		members = append(members, t.Normalize(&items[i], g))
	}
	return members
}

// Denormalize applies the attributes of body that are writable in g onto e
// and returns the columns it touched. Attributes outside g are ignored.
func (t *Table[E]) Denormalize(e *E, body []byte, g Group) ([]string, error) {
	var attrs map[string]json.RawMessage
	if err := json.Unmarshal(body, &attrs); err != nil {
		return nil, apierr.BadRequest("Syntax error", err)
	}

	var (
		columns    []string
		violations []apierr.Violation
	)
	for _, f := range t.Fields {
		if f.Set == nil || !f.In(g) {
			continue
		}
		raw, ok := attrs[f.Name]
		if !ok {
			continue
		}
		if err := f.Set(e, raw); err != nil {
			violations = append(violations, apierr.Violation{PropertyPath: f.Name, Message: err.Error()})
			continue
		}
		columns = append(columns, f.Column)
	}
	if len(violations) > 0 {
		return nil, apierr.Invalid(violations...)
	}
	return columns, nil
}

// Columns lists every column writable in g.
func (t *Table[E]) Columns(g Group) []string {
	var columns []string
	for _, f := range t.Fields {
		if f.Set != nil && f.In(g) {
			columns = append(columns, f.Column)
		}
	}
	return columns
}

// Missing reports attributes g declares required that have no value on e.
func (t *Table[E]) Missing(e *E, g Group) []apierr.Violation {
	var violations []apierr.Violation
	for _, f := range t.Fields {
		if !slices.Contains(f.Required, g) {
			continue
		}
		if f.Get(e, g) == nil {
			violations = append(violations, apierr.Violation{PropertyPath: f.Name, Message: msgNotNull.Error()})
		}
	}
	return violations
}
