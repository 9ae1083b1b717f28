package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// FieldDiff represents a single field value change on an entity.
type FieldDiff struct {
	Field    string
	OldValue json.RawMessage
	NewValue json.RawMessage
}

// DiffFields computes changed, added, and removed fields between two
// field maps. Keys are visited in sorted order so the resulting
// activity records are deterministic.
func DiffFields(oldFields, newFields map[string]any) ([]FieldDiff, error) {
	keys := make([]string, 0, len(newFields))
	for k := range newFields {
		keys = append(keys, k)
	}
	for k := range oldFields {
		if _, exists := newFields[k]; !exists {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var diffs []FieldDiff

	for _, k := range keys {
		newVal, inNew := newFields[k]
		oldVal, inOld := oldFields[k]

		var newJSON, oldJSON json.RawMessage
		var err error

		if inNew {
			newJSON, err = json.Marshal(newVal)
			if err != nil {
				return nil, fmt.Errorf("marshalling new value for %s: %w", k, err)
			}
		}
		if inOld {
			oldJSON, err = json.Marshal(oldVal)
			if err != nil {
				return nil, fmt.Errorf("marshalling old value for %s: %w", k, err)
			}
		}

		if !inOld || !inNew || !bytes.Equal(oldJSON, newJSON) {
			diffs = append(diffs, FieldDiff{Field: k, OldValue: oldJSON, NewValue: newJSON})
		}
	}

	return diffs, nil
}
