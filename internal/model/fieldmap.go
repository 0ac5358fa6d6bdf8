package model

import "strings"

// FieldMap is the reconstructed title→value view of one submission after
// regrouping the flat export. Keys are the literal form-field titles from the
// source platform. Within a submission a repeated title overwrites the
// earlier value (last write wins).
type FieldMap map[string]string

// Set stores value under title, overwriting any earlier value.
func (m FieldMap) Set(title, value string) {
	m[title] = value
}

// Get returns the value for title, or "" when the field was never answered.
func (m FieldMap) Get(title string) string {
	return m[title]
}

// GetDefault returns the value for title, or def when the field is absent
// or empty.
func (m FieldMap) GetDefault(title, def string) string {
	if v := m[title]; v != "" {
		return v
	}
	return def
}

// First returns the first non-empty value among the given titles, evaluated
// in order. Form platforms rename fields across revisions, so several logical
// fields carry two source titles.
func (m FieldMap) First(titles ...string) string {
	for _, t := range titles {
		if v := m[t]; v != "" {
			return v
		}
	}
	return ""
}

// Has reports whether title carries a non-empty value.
func (m FieldMap) Has(title string) bool {
	return m[title] != ""
}

// Equals reports whether the value for title equals want, ignoring case and
// surrounding whitespace.
func (m FieldMap) Equals(title, want string) bool {
	return strings.EqualFold(strings.TrimSpace(m[title]), want)
}
