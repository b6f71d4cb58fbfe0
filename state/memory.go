package state

import "maps"

// Memory maps classical addresses to arbitrary values. States own their
// memory; it is only ever replaced wholesale via Store, never mutated in
// place, so snapshots taken from a state remain stable.
type Memory map[Addr]any

// Value looks up a key.
func (m Memory) Value(key Addr) (any, bool) {
	v, ok := m[key]
	return v, ok
}

// With returns a copy of m with the given updates applied.
func (m Memory) With(updates Memory) Memory {
	out := make(Memory, len(m)+len(updates))
	maps.Copy(out, m)
	maps.Copy(out, updates)
	return out
}

// Keys returns the sorted keys of m.
func (m Memory) Keys() []Addr {
	keys := make([]Addr, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	SortAddrs(keys)
	return keys
}
