// Package introspect asks controller classes which primary model and which
// components they carry, isolating construction faults to the probed class.
package introspect

import (
	"strings"

	"github.com/toyz/idehint/internal/errors"
	"github.com/toyz/idehint/internal/models"
	"github.com/toyz/idehint/internal/naming"
)

// Default framework names
const (
	DefaultBaseController     = "AppController"
	DefaultFrameworkNamespace = `Cake\`
)

// Config controls plugin scoping and diagnostics
type Config struct {
	Plugin             string
	Verbose            bool
	BaseController     string // application base controller, AppController by default
	FrameworkNamespace string // namespace whose services are never reported
}

// Introspector probes controller classes through a ClassLoader
type Introspector struct {
	loader ClassLoader
	tables TableChecker
	sink   DiagnosticSink
	config Config
}

// New creates an introspector. tables and sink may be nil.
func New(loader ClassLoader, tables TableChecker, sink DiagnosticSink, config Config) *Introspector {
	if config.BaseController == "" {
		config.BaseController = DefaultBaseController
	}
	if config.FrameworkNamespace == "" {
		config.FrameworkNamespace = DefaultFrameworkNamespace
	}
	return &Introspector{
		loader: loader,
		tables: tables,
		sink:   sink,
		config: config,
	}
}

// PrimaryModel instantiates the controller and reads its model field.
// A class that cannot be found or constructed yields Unavailable.
func (i *Introspector) PrimaryModel(desc models.ControllerDescriptor) models.PrimaryModel {
	if i.loader == nil {
		return models.Unavailable()
	}

	handle, ok := i.loader.Resolve(i.config.Plugin, desc.ClassName, desc.RoutingPrefix)
	if !ok {
		return models.Unavailable()
	}

	var field ModelField
	err := probe(handle, func(c Controller) {
		field = c.ModelClass()
	})
	if err != nil {
		i.warn("   Could not look up model class for %s: %s", handle.Name(), causeMessage(err))
		return models.Unavailable()
	}

	if field.Disabled {
		return models.NoPrimaryModel()
	}
	if field.Value == "" {
		// An empty declaration names no table; an empty derived value
		// carries no answer at all.
		if field.Declared {
			return models.NoPrimaryModel()
		}
		return models.Unavailable()
	}

	value := field.Value
	if i.config.Plugin != "" && i.tables != nil {
		pluginModel := naming.WithPlugin(i.config.Plugin, value)
		if i.tables.HasTable(pluginModel) {
			value = pluginModel
		}
	}

	return models.FoundPrimaryModel(value)
}

// Services returns the components introduced by the controller itself:
// bindings also present on the base controller are subtracted. A class
// that cannot be found yields no bindings; a construction fault is
// returned as an error.
func (i *Introspector) Services(desc models.ControllerDescriptor) ([]models.ServiceBinding, error) {
	if desc.ClassName == i.config.BaseController {
		return i.loaded("", desc.ClassName, "")
	}

	bindings, err := i.loaded(i.config.Plugin, desc.ClassName, desc.RoutingPrefix)
	if err != nil || len(bindings) == 0 {
		return bindings, err
	}

	base, err := i.loaded("", i.config.BaseController, "")
	if err != nil {
		return nil, err
	}

	inherited := make(map[string]bool, len(base))
	for _, b := range base {
		inherited[b.Name] = true
	}

	var own []models.ServiceBinding
	for _, b := range bindings {
		if !inherited[b.Name] {
			own = append(own, b)
		}
	}
	return own, nil
}

// ProjectServices is Services without bindings from the framework namespace.
// Faults are reported through the sink when verbose and yield no bindings.
func (i *Introspector) ProjectServices(desc models.ControllerDescriptor) []models.ServiceBinding {
	bindings, err := i.Services(desc)
	if err != nil {
		i.warn("   Skipping component annotations: %s", causeMessage(err))
		return nil
	}

	var result []models.ServiceBinding
	for _, b := range bindings {
		if i.IsFrameworkType(b.ConcreteType) {
			continue
		}
		result = append(result, b)
	}
	return result
}

// IsFrameworkType reports whether a class belongs to the framework namespace
func (i *Introspector) IsFrameworkType(className string) bool {
	return strings.HasPrefix(strings.TrimLeft(className, `\`), i.config.FrameworkNamespace)
}

func (i *Introspector) loaded(plugin, className, prefix string) ([]models.ServiceBinding, error) {
	if i.loader == nil {
		return nil, nil
	}

	handle, ok := i.loader.Resolve(plugin, className, prefix)
	if !ok {
		return nil, nil
	}

	var bindings []models.ServiceBinding
	err := probe(handle, func(c Controller) {
		bindings = dedupeBindings(c.Components())
	})
	if err != nil {
		return nil, err
	}
	return bindings, nil
}

// probe constructs the class and hands the instance to read. Errors and
// panics from construction or from read are turned into an
// InstantiationFault for this class only.
func probe(handle ClassHandle, read func(Controller)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewInstantiationPanic(handle.Name(), r)
		}
	}()

	ctrl, err := handle.Instantiate()
	if err != nil {
		return errors.NewInstantiationFault(handle.Name(), err)
	}
	if ctrl == nil {
		return errors.NewInstantiationFault(handle.Name(), errors.New(errors.InstantiationFaultCode, "constructor returned no instance"))
	}

	read(ctrl)
	return nil
}

// dedupeBindings keeps the first binding per name
func dedupeBindings(bindings []models.ServiceBinding) []models.ServiceBinding {
	seen := make(map[string]bool, len(bindings))
	result := make([]models.ServiceBinding, 0, len(bindings))
	for _, b := range bindings {
		if b.Name == "" || seen[b.Name] {
			continue
		}
		seen[b.Name] = true
		result = append(result, b)
	}
	return result
}

func (i *Introspector) warn(format string, args ...interface{}) {
	if i.sink == nil || !i.config.Verbose {
		return
	}
	i.sink.Warn(format, args...)
}

// causeMessage returns the innermost message, matching what a user wrote
// in the failing constructor rather than our wrapping
func causeMessage(err error) string {
	if fault, ok := err.(*errors.BaseError); ok && fault.Cause != nil {
		return fault.Cause.Error()
	}
	return err.Error()
}
