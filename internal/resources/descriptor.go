package resources

import (
	"strings"

	"tourtra/internal/store"
)

// FieldKind drives how a form renders and validates one input.
type FieldKind int

const (
	Text FieldKind = iota
	Secret
	Date
	Number
	Select
	MultiSelect
	File
)

// FormField declares one input of an entity's create/edit form. Validation
// here is presence-only; format rules belong to the server.
type FormField struct {
	Key      string
	Label    string
	Kind     FieldKind
	Required bool
	Options  []string // Select only
}

// Column declares one table column of an entity's list page.
type Column[T store.Record] struct {
	Title string
	Width int
	Value func(T) string
}

// Descriptor is the full per-entity configuration: one instance per resource
// parameterizes the generic store, client and page.
type Descriptor[T store.Record] struct {
	Name     string // route key, e.g. "chantiers"
	Title    string // page heading
	Path     string // REST collection path, trailing slash included
	PageSize int
	Insert   store.Insert
	// SearchText lists the values the list filter matches against.
	SearchText func(T) []string
	Columns    []Column[T]
	Form       []FormField
	// Preview derives a display-only line from the draft form values, e.g.
	// the gratuity estimate on the settlement form. Empty string hides it.
	Preview func(values map[string]string) string
}

// Filter returns the records whose declared search fields contain query,
// case-insensitively. A blank query returns the input unchanged. Purely
// derived: the collection is never mutated.
func Filter[T store.Record](records []T, query string, searchText func(T) []string) []T {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return records
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		for _, field := range searchText(r) {
			if strings.Contains(strings.ToLower(field), query) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Paginate slices one page out of list. page is zero-based; out-of-range
// pages yield an empty slice.
func Paginate[T any](list []T, page, size int) []T {
	if size <= 0 || page < 0 {
		return nil
	}
	start := page * size
	if start >= len(list) {
		return nil
	}
	end := start + size
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

// PageCount returns how many pages of the given size list spans, at least 1.
func PageCount(n, size int) int {
	if size <= 0 || n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}
