package note

import (
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

// Mapping is an insertion-ordered string-keyed mapping of frontmatter
// fields. YAML maps lose document order when decoded into a Go map, so the
// mapping is built from the yaml.Node tree instead.
type Mapping struct {
	keys   []string
	values map[string]any
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]any)}
}

// ParseMapping parses raw YAML text into an ordered mapping. Empty input
// yields an empty mapping; a non-mapping top level is a *ParseError.
func ParseMapping(raw string) (*Mapping, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &root); err != nil {
		return nil, &ParseError{Err: err}
	}
	m := NewMapping()
	if root.Kind == 0 || len(root.Content) == 0 {
		return m, nil
	}
	top := root.Content[0]
	if top.Kind == yaml.ScalarNode && top.Tag == "!!null" {
		return m, nil
	}
	if top.Kind != yaml.MappingNode {
		return nil, &ParseError{Err: fmt.Errorf("top-level content must be a mapping (got %s)", top.Tag)}
	}
	for i := 0; i+1 < len(top.Content); i += 2 {
		keyNode, valueNode := top.Content[i], top.Content[i+1]
		var key string
		if err := keyNode.Decode(&key); err != nil {
			key = keyNode.Value
		}
		// Timestamp scalars stay strings so a rewrite does not expand
		// "published: 2024-01-15" into a full RFC 3339 timestamp.
		if valueNode.Kind == yaml.ScalarNode && valueNode.Tag == "!!timestamp" {
			m.Set(key, valueNode.Value)
			continue
		}
		var value any
		if err := valueNode.Decode(&value); err != nil {
			return nil, &ParseError{Err: err}
		}
		m.Set(key, value)
	}
	return m, nil
}

// Get returns the value for key.
func (m *Mapping) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Set stores value under key, preserving the position of an existing key
// and appending a new one.
func (m *Mapping) Set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key if present.
func (m *Mapping) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of fields.
func (m *Mapping) Len() int { return len(m.keys) }

// Equal reports whether both mappings hold the same keys in the same
// order with deeply equal values.
func (m *Mapping) Equal(other *Mapping) bool {
	if m == nil || other == nil {
		return m == other
	}
	if len(m.keys) != len(other.keys) {
		return false
	}
	for i, key := range m.keys {
		if other.keys[i] != key {
			return false
		}
		if !reflect.DeepEqual(m.values[key], other.values[key]) {
			return false
		}
	}
	return true
}

// MarshalYAML emits the fields as a YAML mapping in insertion order.
func (m *Mapping) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range m.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(m.values[key]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}
