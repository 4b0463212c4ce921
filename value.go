package graphql

import (
	"bytes"
	"encoding/json"
)

// OrderedMap is the executor's output representation of a GraphQL object
// result. Go's map[string]interface{} does not preserve insertion order,
// but the output invariant requires field order to match the order
// fields were requested in the selection set, so the executor builds
// results with this type instead of a plain map.
type OrderedMap struct {
	keys   []string
	values map[string]interface{}
}

// NewOrderedMap returns an empty OrderedMap ready for Set.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]interface{})}
}

// Set assigns key to value, appending key to the iteration order the
// first time it is used and overwriting the value in place on repeat use.
func (m *OrderedMap) Set(key string, value interface{}) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value at key and whether it was present.
func (m *OrderedMap) Get(key string) (interface{}, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the response keys in the order they were first set.
func (m *OrderedMap) Keys() []string {
	return m.keys
}

// Len reports how many keys are set.
func (m *OrderedMap) Len() int {
	return len(m.keys)
}

var _ json.Marshaler = (*OrderedMap)(nil)

// MarshalJSON writes the map as a JSON object with keys in insertion
// order, since encoding/json's default map handling sorts keys
// alphabetically and would silently violate the ordering invariant.
func (m *OrderedMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valueJSON, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(valueJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
