package models

// ControllerDescriptor describes one controller file under analysis.
// It is built once per file and never modified afterwards.
type ControllerDescriptor struct {
	ClassName     string // short class name, e.g. ArticlesController
	FilePath      string // path the descriptor was resolved from
	SourceText    string // raw file contents
	PluginName    string // configured plugin, empty for the app
	RoutingPrefix string // sub namespace from Controller/<Prefix>/, e.g. Admin
}

// WithSource returns a copy of the descriptor carrying source text
func (d ControllerDescriptor) WithSource(source string) ControllerDescriptor {
	d.SourceText = source
	return d
}

// HasPrefix returns true if the controller lives below a routing prefix folder
func (d ControllerDescriptor) HasPrefix() bool {
	return d.RoutingPrefix != ""
}

// ModelDeclaration is the last class-level assignment to a controller's
// model field. An empty Value with Declared set names no table.
type ModelDeclaration struct {
	Declared bool
	Value    string
	Disabled bool
}
