// Package source retrieves digital object metadata from the backend search
// index and exposes it as read-only resources for manifest assembly.
package source

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Structural query keys. These drive the shape of the manifest.
const (
	KeyURI          = "$uri"
	KeyLabel        = "$label"
	KeyDate         = "$date"
	KeyLicenseURI   = "$license_uri"
	KeyDescription  = "$description"
	KeyPageURIs     = "$page_uris"
	KeyPageImageIDs = "$page_image_ids"
)

// Parameterized query keys. Each takes a single URI argument at runtime.
const (
	KeyPageDoc     = "$*page_doc"
	KeyPageLabel   = "$*page_label"
	KeyFilePageURI = "$*file_page_uri"
)

const (
	structuralPrefix = "$"
	paramPrefix      = "$*"
)

// URIArg is the variable name bound for parameterized queries.
const URIArg = "$uri"

// QuerySpec is an ordered mapping of query keys to expressions in the
// backend's query language.
//
// Keys starting with "$*" are parameterized, other keys starting with "$"
// are structural, and everything else is descriptive metadata. Order is
// significant: descriptive entries appear in the manifest metadata in spec
// order, which is why this is not a plain map.
type QuerySpec struct {
	keys  []string
	exprs map[string]string
}

// NewQuerySpec builds a spec from alternating key, expression pairs.
func NewQuerySpec(pairs ...[2]string) *QuerySpec {
	s := &QuerySpec{exprs: make(map[string]string, len(pairs))}
	for _, p := range pairs {
		s.Set(p[0], p[1])
	}
	return s
}

// Set adds or replaces the expression for key, preserving first-set order.
func (s *QuerySpec) Set(key, expr string) {
	if s.exprs == nil {
		s.exprs = make(map[string]string)
	}
	if _, ok := s.exprs[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.exprs[key] = expr
}

// Get returns the expression for key.
func (s *QuerySpec) Get(key string) (string, bool) {
	expr, ok := s.exprs[key]
	return expr, ok
}

// Keys returns every key in spec order.
func (s *QuerySpec) Keys() []string {
	return s.keys
}

// Descriptive returns the keys that become manifest metadata fields, in
// spec order.
func (s *QuerySpec) Descriptive() []string {
	var keys []string
	for _, k := range s.keys {
		if !strings.HasPrefix(k, structuralPrefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Len returns the number of entries.
func (s *QuerySpec) Len() int {
	return len(s.keys)
}

// IsParameterized reports whether key takes a runtime argument.
func IsParameterized(key string) bool {
	return strings.HasPrefix(key, paramPrefix)
}

// UnmarshalYAML decodes a YAML mapping into the spec, preserving document
// order.
func (s *QuerySpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("query spec must be a mapping, got %s", kindName(node.Kind))
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key, expr string
		if err := node.Content[i].Decode(&key); err != nil {
			return fmt.Errorf("decode query key: %w", err)
		}
		if err := node.Content[i+1].Decode(&expr); err != nil {
			return fmt.Errorf("decode query expression for %q: %w", key, err)
		}
		s.Set(key, expr)
	}
	return nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
