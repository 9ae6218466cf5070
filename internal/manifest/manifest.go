// Package manifest holds the export manifest: an ordered mapping from a
// formula key ("name" or "user/repo/name") to the build configuration
// needed to reinstall it.
package manifest

import "github.com/blackwell-systems/brewmigrate/internal/brew"

// Entry is one formula's reinstall recipe.
type Entry struct {
	Options     brew.Options `json:"options"`
	BuildBottle bool         `json:"build_bottle"`
}

// Equal reports whether two entries describe the same build.
func (e Entry) Equal(other Entry) bool {
	return e.BuildBottle == other.BuildBottle && e.Options.Equal(other.Options)
}

// Manifest maps formula keys to entries, preserving insertion order.
// Import reinstalls in this order.
type Manifest struct {
	keys    []string
	entries map[string]Entry
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{entries: make(map[string]Entry)}
}

// Set adds or replaces the entry for key. Replacing keeps the original
// position.
func (m *Manifest) Set(key string, entry Entry) {
	if m.entries == nil {
		m.entries = make(map[string]Entry)
	}
	if _, ok := m.entries[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = entry
}

// Get returns the entry stored under key.
func (m *Manifest) Get(key string) (Entry, bool) {
	e, ok := m.entries[key]
	return e, ok
}

// Keys returns the keys in manifest order.
func (m *Manifest) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	return len(m.keys)
}

// Equal reports whether both manifests hold the same entries in the same
// order.
func (m *Manifest) Equal(other *Manifest) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i, key := range m.keys {
		if other.keys[i] != key {
			return false
		}
		if !m.entries[key].Equal(other.entries[key]) {
			return false
		}
	}
	return true
}
