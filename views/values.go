package views

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type constraintMessage string

func (m constraintMessage) Error() string { return string(m) }

const (
	msgNotNull     constraintMessage = "This value should not be null."
	msgNotString   constraintMessage = "This value should be of type string."
	msgInvalidDate constraintMessage = "This value is not a valid date."
)

const (
	ProductsPath      = "/api/products"
	ManufacturersPath = "/api/manufacturers"
)

// DateLayout renders dates as full timestamps with a numeric offset.
const DateLayout = "2006-01-02T15:04:05-07:00"

var dateInputs = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

func ProductIRI(id uint) string {
	return fmt.Sprintf("%s/%d", ProductsPath, id)
}

func ManufacturerIRI(id uint) string {
	return fmt.Sprintf("%s/%d", ManufacturersPath, id)
}

// ParseIRI extracts the id from an item IRI under collection.
func ParseIRI(collection, iri string) (uint, error) {
	rest, ok := strings.CutPrefix(iri, collection+"/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return 0, fmt.Errorf("invalid IRI %q", iri)
	}
	id, err := strconv.ParseUint(rest, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid IRI %q", iri)
	}
	return uint(id), nil
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate accepts a calendar date or a timestamp and returns it in UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateInputs {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, msgInvalidDate
}

func stringValue(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func dateValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return FormatDate(*t)
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

func decodeString(raw json.RawMessage) (*string, error) {
	if isNull(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, msgNotString
	}
	return &s, nil
}

func decodeDate(raw json.RawMessage) (*time.Time, error) {
	s, err := decodeString(raw)
	if err != nil {
		return nil, msgInvalidDate
	}
	if s == nil {
		return nil, nil
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func decodeIRI(collection string, raw json.RawMessage) (*uint, error) {
	s, err := decodeString(raw)
	if err != nil {
		return nil, constraintMessage("Expected IRI or nested document for attribute, got a different type.")
	}
	if s == nil {
		return nil, nil
	}
	id, err := ParseIRI(collection, *s)
	if err != nil {
		return nil, constraintMessage(fmt.Sprintf("Invalid IRI %q.", *s))
	}
	return &id, nil
}
