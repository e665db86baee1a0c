package model

// FlatMap maps normalized package names to versions and remembers the order
// in which names were first inserted. Setting an existing name overwrites its
// version but keeps its position.
type FlatMap struct {
	keys   []string
	values map[string]string
}

// NewFlatMap returns an empty FlatMap.
func NewFlatMap() *FlatMap {
	return &FlatMap{values: map[string]string{}}
}

// Set stores version under name. The later call wins for duplicate names.
func (m *FlatMap) Set(name, version string) {
	if _, ok := m.values[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.values[name] = version
}

// Get returns the version stored under name and whether name is present.
// A present name may map to an empty version.
func (m *FlatMap) Get(name string) (string, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Has reports whether name is present.
func (m *FlatMap) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

// Keys returns the names in first-insertion order.
func (m *FlatMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of distinct names.
func (m *FlatMap) Len() int {
	return len(m.keys)
}
