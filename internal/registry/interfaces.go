// Package registry holds the class index of a PHP project: controllers and
// components behind the dynamic class loader, tables and entities behind
// the live type registry.
package registry

import (
	"github.com/toyz/idehint/internal/errors"
	"github.com/toyz/idehint/internal/models"
)

// ErrNotFound matches every lookup miss of the registries
var ErrNotFound = errors.ErrLookupMiss

// DefaultAppNamespace is the root namespace of the application
const DefaultAppNamespace = "App"

// FrameworkNamespace is where framework classes live. They are never part
// of the index; chains end there.
const FrameworkNamespace = `Cake\`

// ControllerRecord is a controller class known to the index
type ControllerRecord struct {
	FQCN       string
	Plugin     string // owning plugin, empty for the application
	Extends    string // fully-qualified parent
	Model      models.ModelDeclaration
	Components []string // component identifiers declared by this class only
	Fault      string   // construction failure to simulate, from the manifest
}

// TableRecord is a table class known to the index
type TableRecord struct {
	Identifier  string // "Articles" or "Blog.Posts"
	FQCN        string
	EntityClass string // declared entity, fully-qualified or short; empty for the convention
}
