package registry

import (
	"fmt"
	"strings"

	"github.com/toyz/idehint/internal/errors"
	"github.com/toyz/idehint/internal/introspect"
	"github.com/toyz/idehint/internal/models"
	"github.com/toyz/idehint/internal/naming"
	"github.com/toyz/idehint/internal/utils"
)

// maxChainDepth bounds the extends walk
const maxChainDepth = 32

// ClassRegistry implements introspect.ClassLoader over the indexed
// controller and component classes
type ClassRegistry struct {
	appNamespace string
	controllers  *utils.Registry[string, ControllerRecord]
	components   *utils.Registry[string, string]
}

// NewClassRegistry creates an empty class registry. An empty appNamespace
// uses DefaultAppNamespace.
func NewClassRegistry(appNamespace string) *ClassRegistry {
	if appNamespace == "" {
		appNamespace = DefaultAppNamespace
	}
	return &ClassRegistry{
		appNamespace: appNamespace,
		controllers:  utils.NewRegistry[string, ControllerRecord](),
		components:   utils.NewRegistry[string, string](),
	}
}

// RegisterController adds or replaces a controller record
func (r *ClassRegistry) RegisterController(record ControllerRecord) error {
	if err := utils.NotEmpty("controller class")(record.FQCN); err != nil {
		return err
	}
	record.FQCN = strings.TrimPrefix(record.FQCN, `\`)
	record.Extends = strings.TrimPrefix(record.Extends, `\`)
	r.controllers.Register(record.FQCN, record)
	return nil
}

// RegisterComponent maps a component identifier ("Upload", "Blog.Upload")
// onto its class
func (r *ClassRegistry) RegisterComponent(id, fqcn string) error {
	if !models.ParseIdentifier(id).Valid() {
		return fmt.Errorf("invalid component identifier '%s'", id)
	}
	r.components.Register(id, strings.TrimPrefix(fqcn, `\`))
	return nil
}

// Controller returns the record for a fully-qualified class name
func (r *ClassRegistry) Controller(fqcn string) (ControllerRecord, bool) {
	return r.controllers.Get(strings.TrimPrefix(fqcn, `\`))
}

// Controllers returns the indexed controller classes in lexical order
func (r *ClassRegistry) Controllers() []string {
	return utils.SortedKeys(r.controllers)
}

// ComponentCount returns the number of indexed components
func (r *ClassRegistry) ComponentCount() int {
	return r.components.Size()
}

// ControllerClassName builds the fully-qualified controller name the way
// the framework's class locator does: <root>\Controller[\<Prefix>]\<Class>
func (r *ClassRegistry) ControllerClassName(plugin, className, prefix string) string {
	root := r.appNamespace
	if plugin != "" {
		root = naming.PluginNamespace(plugin)
	}

	var sb strings.Builder
	sb.WriteString(root)
	sb.WriteString(`\Controller`)
	if prefix != "" {
		sb.WriteString(`\`)
		sb.WriteString(strings.ReplaceAll(strings.Trim(prefix, "/"), "/", `\`))
	}
	sb.WriteString(`\`)
	sb.WriteString(className)
	return sb.String()
}

// Resolve implements introspect.ClassLoader
func (r *ClassRegistry) Resolve(plugin, className, prefix string) (introspect.ClassHandle, bool) {
	fqcn := r.ControllerClassName(plugin, className, prefix)
	if _, ok := r.controllers.Get(fqcn); !ok {
		return nil, false
	}
	return &classHandle{registry: r, name: fqcn}, true
}

// ResolveComponent maps a component identifier onto a class. Plugin
// identifiers resolve inside their plugin; plain names try the
// application, then the plugin of the loading controller, then the
// framework.
func (r *ClassRegistry) ResolveComponent(id, ownerPlugin string) string {
	if fqcn, ok := r.components.Get(id); ok {
		return fqcn
	}

	c := models.ParseIdentifier(id)
	if c.IsPlugin() {
		return naming.PluginNamespace(c.Plugin) + `\Controller\Component\` + c.Name + "Component"
	}

	if ownerPlugin != "" {
		if fqcn, ok := r.components.Get(naming.WithPlugin(ownerPlugin, c.Name)); ok {
			return fqcn
		}
	}

	return FrameworkNamespace + `Controller\Component\` + c.Name + "Component"
}

// chain returns the class followed by its indexed ancestors. A parent
// outside the framework namespace that is not indexed is a construction
// failure, as is any recorded fault along the chain.
func (r *ClassRegistry) chain(fqcn string) ([]ControllerRecord, error) {
	var chain []ControllerRecord
	seen := make(map[string]bool)

	current := fqcn
	for current != "" && !strings.HasPrefix(current, FrameworkNamespace) {
		if seen[current] || len(chain) >= maxChainDepth {
			return nil, fmt.Errorf("class hierarchy of %s is cyclic", fqcn)
		}
		seen[current] = true

		record, ok := r.controllers.Get(current)
		if !ok {
			return nil, fmt.Errorf("Class '%s' not found", current)
		}
		if record.Fault != "" {
			return nil, fmt.Errorf("%s", record.Fault)
		}

		chain = append(chain, record)
		current = record.Extends
	}
	return chain, nil
}

type classHandle struct {
	registry *ClassRegistry
	name     string
}

func (h *classHandle) Name() string {
	return h.name
}

// Instantiate builds the controller state a constructed instance would
// carry: the nearest model declaration and the merged components
func (h *classHandle) Instantiate() (introspect.Controller, error) {
	chain, err := h.registry.chain(h.name)
	if err != nil {
		return nil, err
	}
	if len(chain) == 0 {
		return nil, errors.NewLookupMiss("controller", h.name)
	}

	ctrl := &indexedController{}

	declared := false
	for _, record := range chain {
		if record.Model.Declared {
			ctrl.model = introspect.ModelField{
				Value:    record.Model.Value,
				Disabled: record.Model.Disabled,
				Declared: true,
			}
			declared = true
			break
		}
	}
	if !declared {
		// The constructor falls back to the controller name
		short := h.name[strings.LastIndex(h.name, `\`)+1:]
		ctrl.model = introspect.ModelField{
			Value: naming.WithPlugin(chain[0].Plugin, naming.ModelNameFromClass(short)),
		}
	}

	seen := make(map[string]bool)
	for i := len(chain) - 1; i >= 0; i-- {
		record := chain[i]
		for _, id := range record.Components {
			_, name := naming.PluginSplit(id)
			if seen[name] {
				continue
			}
			seen[name] = true
			ctrl.components = append(ctrl.components, models.ServiceBinding{
				Name:         name,
				ConcreteType: h.registry.ResolveComponent(id, record.Plugin),
			})
		}
	}

	return ctrl, nil
}

type indexedController struct {
	model      introspect.ModelField
	components []models.ServiceBinding
}

func (c *indexedController) ModelClass() introspect.ModelField {
	return c.model
}

func (c *indexedController) Components() []models.ServiceBinding {
	return c.components
}
