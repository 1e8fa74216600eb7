// Package bioc parses BioC XML corpus files into a loosely-typed nested
// tree. The tree deliberately preserves the source format's "one-or-many"
// ambiguity: a field holding a single child element is a bare map, the
// same field holding repeated elements is a slice. Helpers in this file
// coerce either shape into typed values so that ambiguity stays confined
// to one place.
package bioc

import (
	"strconv"
	"strings"
)

// Node is one element of the loose tree.
type Node = map[string]any

// List returns the value under key as an ordered sequence of child nodes,
// coercing a bare single element into a one-element slice.
func List(n Node, key string) []Node {
	v, ok := n[key]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case []any:
		out := make([]Node, 0, len(t))
		for _, e := range t {
			if m, ok := e.(Node); ok {
				out = append(out, m)
			}
		}
		return out
	case Node:
		return []Node{t}
	default:
		return nil
	}
}

// Child returns the single child node under key, or nil when absent.
// When the source supplied a list, the first element is returned.
func Child(n Node, key string) Node {
	if nodes := List(n, key); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

// Str returns the string value under key, or "" when absent or not a string.
func Str(n Node, key string) string {
	if v, ok := n[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Int returns the value under key as an integer, tolerating string and
// float encodings. Absent or unparseable values yield 0.
func Int(n Node, key string) int {
	v, ok := n[key]
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case int:
		return t
	case float64:
		return int(t)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}
