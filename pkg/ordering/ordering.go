// Package ordering parses Django-style ordering expressions and applies
// them as a stable multi-key in-memory sort. Sorting in memory keeps
// derived fields (values computed from a row rather than stored on it)
// orderable without pushing expressions into SQL.
package ordering

import (
	"fmt"
	"sort"
	"strings"
)

// Key is a single ordering criterion.
type Key struct {
	Field string
	Desc  bool
}

// Parse splits a comma-separated ordering expression into keys. A leading
// "-" marks a key as descending. Fields not present in allowed are
// rejected so callers can bound the sortable surface.
func Parse(raw string, allowed map[string]struct{}) ([]Key, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	keys := make([]Key, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key := Key{Field: part}
		if strings.HasPrefix(part, "-") {
			key.Desc = true
			key.Field = strings.TrimPrefix(part, "-")
		}
		if key.Field == "" {
			return nil, fmt.Errorf("empty ordering field in %q", raw)
		}
		if _, ok := allowed[key.Field]; !ok {
			return nil, fmt.Errorf("unknown ordering field %q", key.Field)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Comparator compares a and b on the named field. It returns a negative
// value when a sorts before b ascending, zero when equal.
type Comparator[T any] func(a, b T, field string) int

// Apply sorts items in place by the provided keys. The sort is stable so
// rows equal on every key keep their original relative order, and later
// keys only break ties left by earlier ones.
func Apply[T any](items []T, keys []Key, compare Comparator[T]) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		for _, key := range keys {
			cmp := compare(items[i], items[j], key.Field)
			if cmp == 0 {
				continue
			}
			if key.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}
