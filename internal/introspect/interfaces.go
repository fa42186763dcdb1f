package introspect

import "github.com/toyz/idehint/internal/models"

// ClassLoader locates controller classes. It is the dynamic class loading
// collaborator: given an optional plugin, a short class name and an
// optional routing prefix it returns a handle or reports not found.
type ClassLoader interface {
	Resolve(plugin, className, prefix string) (ClassHandle, bool)
}

// ClassHandle is a loadable controller type
type ClassHandle interface {
	// Name returns the fully-qualified class name
	Name() string
	// Instantiate constructs the controller with no arguments. It may fail
	// or panic; callers isolate both.
	Instantiate() (Controller, error)
}

// Controller is the capability a constructed controller exposes
type Controller interface {
	// ModelClass returns the value of the instance's model field
	ModelClass() ModelField
	// Components returns the loaded service bindings in load order
	Components() []models.ServiceBinding
}

// ModelField is the runtime value of a controller's model field
type ModelField struct {
	Value    string // table identifier, may carry a plugin prefix
	Disabled bool   // explicitly set to false
	Declared bool   // assigned by the class rather than derived from its name
}

// TableChecker answers whether a table identifier is known
type TableChecker interface {
	HasTable(id string) bool
}

// DiagnosticSink receives warning-level messages. It never affects control flow.
type DiagnosticSink interface {
	Warn(format string, args ...interface{})
}
