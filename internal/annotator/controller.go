package annotator

import (
	"github.com/toyz/idehint/internal/errors"
	"github.com/toyz/idehint/internal/models"
	"github.com/toyz/idehint/internal/naming"
	"github.com/toyz/idehint/internal/scanner"
)

// SourceReader reads controller source files
type SourceReader interface {
	ReadFile(path string) (string, error)
}

// DirectiveWriter places directives into a file's class doc block
type DirectiveWriter interface {
	Apply(path, original string, directives []models.Directive) (int, error)
}

// ModelIntrospector answers the dynamic questions about a controller class
type ModelIntrospector interface {
	PrimaryModel(desc models.ControllerDescriptor) models.PrimaryModel
	ProjectServices(desc models.ControllerDescriptor) []models.ServiceBinding
}

// Result is the outcome of annotating one file
type Result struct {
	Descriptor models.ControllerDescriptor
	Directives []models.Directive
	Applied    int  // directives the writer added, changed or removed
	Skipped    bool // the file is not a controller
	Rejected   []error
}

// ControllerAnnotator runs the inference engine for controller files
type ControllerAnnotator struct {
	plugin       string
	reader       SourceReader
	writer       DirectiveWriter
	introspector ModelIntrospector
	types        TypeResolver
}

// NewControllerAnnotator wires the engine. plugin is the configured plugin
// name, empty for the application itself. introspector and types may be
// nil; without types every table and entity resolves to its generic type.
func NewControllerAnnotator(plugin string, reader SourceReader, writer DirectiveWriter, introspector ModelIntrospector, types TypeResolver) *ControllerAnnotator {
	if types == nil {
		types = genericTypes{}
	}
	return &ControllerAnnotator{
		plugin:       plugin,
		reader:       reader,
		writer:       writer,
		introspector: introspector,
		types:        types,
	}
}

// Annotate infers the directives for path and hands them to the writer.
// Files whose name does not end in "Controller" are skipped untouched.
func (a *ControllerAnnotator) Annotate(path string) (Result, error) {
	desc, ok := naming.Resolve(path, a.plugin)
	if !ok {
		return Result{Skipped: true}, nil
	}

	source, err := a.reader.ReadFile(path)
	if err != nil {
		return Result{Descriptor: desc}, errors.WrapFileSystemError("read", path, err)
	}
	desc = desc.WithSource(source)

	directives, facts := a.infer(desc)
	result := Result{
		Descriptor: desc,
		Directives: directives,
		Rejected:   facts.Rejected,
	}

	applied, err := a.writer.Apply(path, source, result.Directives)
	if err != nil {
		return result, err
	}
	result.Applied = applied
	return result, nil
}

// Infer computes the directives for a descriptor that already carries its
// source text. It never touches the file system.
func (a *ControllerAnnotator) Infer(desc models.ControllerDescriptor) []models.Directive {
	directives, _ := a.infer(desc)
	return directives
}

func (a *ControllerAnnotator) infer(desc models.ControllerDescriptor) ([]models.Directive, scanner.Facts) {
	facts := scanner.Scan(desc.SourceText)

	dynamic := models.Unavailable()
	var services []models.ServiceBinding
	if a.introspector != nil {
		dynamic = a.introspector.PrimaryModel(desc)
		services = a.introspector.ProjectServices(desc)
	}

	directives := Synthesize(Inputs{
		Descriptor:   desc,
		PrimaryModel: ResolvePrimaryModel(dynamic, facts, desc.ClassName, a.plugin),
		UsedModels:   facts.LoadedModels,
		Services:     services,
		Pagination:   facts.Pagination,
	}, a.types)
	return directives, facts
}

// genericTypes resolves nothing
type genericTypes struct{}

func (genericTypes) TableType(model, primary string) string { return models.GenericTable }

func (genericTypes) Resolve(model, primary string) string { return models.GenericEntity }
