package models

import "strings"

// ComponentIdentifier names a table or service type, optionally scoped to a plugin
type ComponentIdentifier struct {
	Plugin string // plugin namespace, empty for the application itself
	Name   string // type name without the plugin prefix
}

// ParseIdentifier splits a dotted identifier like "Blog.Posts" on its first dot
func ParseIdentifier(id string) ComponentIdentifier {
	if i := strings.Index(id, "."); i >= 0 {
		return ComponentIdentifier{Plugin: id[:i], Name: id[i+1:]}
	}
	return ComponentIdentifier{Name: id}
}

// String renders the identifier in dot syntax
func (c ComponentIdentifier) String() string {
	if c.Plugin == "" {
		return c.Name
	}
	return c.Plugin + "." + c.Name
}

// Valid reports whether the identifier satisfies its invariants
func (c ComponentIdentifier) Valid() bool {
	if c.Name == "" {
		return false
	}
	return !strings.ContainsAny(c.Plugin, "./\\")
}

// IsPlugin returns true if the identifier carries a plugin prefix
func (c ComponentIdentifier) IsPlugin() bool {
	return c.Plugin != ""
}
