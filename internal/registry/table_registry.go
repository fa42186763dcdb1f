package registry

import (
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/toyz/idehint/internal/errors"
	"github.com/toyz/idehint/internal/naming"
	"github.com/toyz/idehint/internal/utils"
)

// genericEntityClass is what a table without a matching entity class hydrates
const genericEntityClass = `Cake\ORM\Entity`

// TableRegistry implements entity.Registry and introspect.TableChecker
// over the indexed table and entity classes
type TableRegistry struct {
	appNamespace string
	tables       *utils.Registry[string, TableRecord]
	entities     *utils.Registry[string, bool]
}

// NewTableRegistry creates an empty table registry
func NewTableRegistry(appNamespace string) *TableRegistry {
	if appNamespace == "" {
		appNamespace = DefaultAppNamespace
	}
	return &TableRegistry{
		appNamespace: appNamespace,
		tables:       utils.NewRegistry[string, TableRecord](),
		entities:     utils.NewRegistry[string, bool](),
	}
}

// RegisterTable adds or replaces a table record
func (r *TableRegistry) RegisterTable(record TableRecord) error {
	if err := utils.NotEmpty("table identifier")(record.Identifier); err != nil {
		return err
	}
	if record.FQCN == "" {
		record.FQCN = r.conventionClass(record.Identifier, `\Model\Table\`, "Table")
	}
	record.FQCN = strings.TrimPrefix(record.FQCN, `\`)
	r.tables.Register(record.Identifier, record)
	return nil
}

// RegisterEntity records that an entity class exists
func (r *TableRegistry) RegisterEntity(fqcn string) {
	r.entities.Register(strings.TrimPrefix(fqcn, `\`), true)
}

// Table returns the record for an identifier
func (r *TableRegistry) Table(id string) (TableRecord, bool) {
	return r.tables.Get(id)
}

// HasTable reports whether a table identifier is indexed
func (r *TableRegistry) HasTable(id string) bool {
	return r.tables.Has(id)
}

// Tables returns the indexed table identifiers in lexical order
func (r *TableRegistry) Tables() []string {
	return utils.SortedKeys(r.tables)
}

// TableClass returns the table class for an identifier
func (r *TableRegistry) TableClass(id string) (string, error) {
	record, ok := r.tables.Get(id)
	if !ok {
		return "", errors.NewLookupMiss("table", id)
	}
	return record.FQCN, nil
}

// EntityClass returns the entity class a table hydrates: the declared
// class, else the singular convention class when it exists, else the
// generic entity
func (r *TableRegistry) EntityClass(id string) (string, error) {
	record, ok := r.tables.Get(id)
	if !ok {
		return "", errors.NewLookupMiss("table", id)
	}

	if record.EntityClass != "" {
		return r.declaredEntity(id, record.EntityClass), nil
	}

	_, name := naming.PluginSplit(id)
	convention := r.conventionClass(id, `\Model\Entity\`, "")
	convention = convention[:len(convention)-len(name)] + inflection.Singular(name)
	if r.entities.Has(convention) {
		return convention, nil
	}
	return genericEntityClass, nil
}

// declaredEntity expands "Post" and "Blog.Post" entity declarations
func (r *TableRegistry) declaredEntity(tableID, declared string) string {
	if strings.Contains(declared, `\`) {
		return strings.TrimPrefix(declared, `\`)
	}

	plugin, name := naming.PluginSplit(declared)
	if plugin == "" {
		plugin, _ = naming.PluginSplit(tableID)
	}
	return r.root(plugin) + `\Model\Entity\` + name
}

// conventionClass builds <root><segment><Name><suffix> for an identifier
func (r *TableRegistry) conventionClass(id, segment, suffix string) string {
	plugin, name := naming.PluginSplit(id)
	return r.root(plugin) + segment + name + suffix
}

func (r *TableRegistry) root(plugin string) string {
	if plugin == "" {
		return r.appNamespace
	}
	return naming.PluginNamespace(plugin)
}
