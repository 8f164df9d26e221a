package keymap

import (
	"sort"

	"github.com/dshills/canvaskeys/internal/input/key"
)

// BindingMap maps action ids to their bound key labels.
// Label order is preserved; comparisons ignore case.
type BindingMap map[string][]string

// Clone returns a deep copy. Nil label lists become empty lists so the map
// always encodes as arrays.
func (m BindingMap) Clone() BindingMap {
	out := make(BindingMap, len(m))
	for id, keys := range m {
		out[id] = cloneKeys(keys)
	}
	return out
}

// Keys returns a copy of the labels bound to id, or an empty list.
func (m BindingMap) Keys(id string) []string {
	return cloneKeys(m[id])
}

// Has reports whether label is bound to id.
func (m BindingMap) Has(id, label string) bool {
	return key.ContainsFold(m[id], label)
}

// Equal reports whether both maps bind the same labels in the same order.
// Missing entries and empty lists are equivalent.
func (m BindingMap) Equal(other BindingMap) bool {
	ids := make(map[string]struct{}, len(m)+len(other))
	for id := range m {
		ids[id] = struct{}{}
	}
	for id := range other {
		ids[id] = struct{}{}
	}
	for id := range ids {
		a, b := m[id], other[id]
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	}
	return true
}

// IDs returns the action ids in sorted order.
func (m BindingMap) IDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func cloneKeys(keys []string) []string {
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// cleanKeys converts raw key values to labels, dropping empty values and
// case-insensitive duplicates.
func cleanKeys(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, k := range raw {
		label := key.Label(k)
		if label == "" || key.ContainsFold(out, label) {
			continue
		}
		out = append(out, label)
	}
	return out
}
