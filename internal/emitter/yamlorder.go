package emitter

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// ValueToYAMLNode converts a Go value into a yaml.Node carrying the
// right scalar tag, falling back to a marshal/unmarshal round trip for
// values with no direct case (slices of scalars, nested maps).
func ValueToYAMLNode(value any) *yaml.Node {
	switch v := value.(type) {
	case bool:
		val := "false"
		if v {
			val = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: val}
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: v}
	case *yaml.Node:
		return v
	default:
		data, err := yaml.Marshal(value)
		if err != nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Value: ""}
		}
		var doc yaml.Node
		_ = yaml.Unmarshal(data, &doc)
		if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
			return doc.Content[0]
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Value: ""}
	}
}

// NewMappingNode builds a yaml.Node mapping from alternating key/value
// pairs, preserving that exact order on serialization. Every target
// emitter that writes a Clash-dialect proxy or group entry builds it
// through this helper instead of an unordered map, so "name, type,
// server, port" always lead the rendered line the way Clash configs
// conventionally read.
func NewMappingNode(pairs ...any) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i := 0; i+1 < len(pairs); i += 2 {
		key, _ := pairs[i].(string)
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			ValueToYAMLNode(pairs[i+1]),
		)
	}
	return node
}

// NewSequenceNode wraps items as a YAML sequence node.
func NewSequenceNode(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Content: items}
}

// rootMapping returns the document's top-level mapping node, creating
// an empty one if doc is a freshly zero-valued node (an empty or
// absent base_config_text).
func rootMapping(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.MappingNode})
		}
		return doc.Content[0]
	}
	if doc.Kind == 0 {
		doc.Kind = yaml.MappingNode
	}
	return doc
}

// SetMappingKey locates key in doc's top-level mapping and overwrites
// its value, or appends a new key/value pair if absent. This is the
// "locate/create the section; erase it" step every emitter's spine
// performs before splicing in its own proxies/groups/rules.
func SetMappingKey(doc *yaml.Node, key string, value *yaml.Node) {
	m := rootMapping(doc)
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, value)
}

// GetMappingKey returns the value node for key in doc's top-level
// mapping, or nil if absent.
func GetMappingKey(doc *yaml.Node, key string) *yaml.Node {
	m := rootMapping(doc)
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}
