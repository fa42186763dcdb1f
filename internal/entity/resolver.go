// Package entity resolves table identifiers to their table and entity
// classes through the live type registry, never failing.
package entity

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/toyz/idehint/internal/models"
	"github.com/toyz/idehint/internal/naming"
)

// DefaultCacheSize bounds the per-run lookup cache
const DefaultCacheSize = 512

// Registry is the live type registry
type Registry interface {
	// TableClass returns the fully-qualified table class for an identifier
	TableClass(id string) (string, error)
	// EntityClass returns the fully-qualified entity class for an identifier
	EntityClass(id string) (string, error)
}

// Resolver wraps a Registry with plugin defaulting, fallbacks and caching.
// The registry is read-only for the lifetime of a run, so lookups are
// cached across files.
type Resolver struct {
	registry Registry
	plugin   string
	entities *lru.Cache[string, string]
	tables   *lru.Cache[string, string]
}

// NewResolver creates a resolver. A non-positive cacheSize uses DefaultCacheSize.
func NewResolver(registry Registry, plugin string, cacheSize int) (*Resolver, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	entities, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create entity cache: %w", err)
	}
	tables, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create table cache: %w", err)
	}

	return &Resolver{
		registry: registry,
		plugin:   plugin,
		entities: entities,
		tables:   tables,
	}, nil
}

// Qualify prefixes the configured plugin onto associations of the primary
// model: model names inside a plugin default to that plugin's tables.
func (r *Resolver) Qualify(model, primary string) string {
	if r.plugin != "" && model != primary && !naming.HasPlugin(model) {
		return naming.WithPlugin(r.plugin, model)
	}
	return model
}

// Resolve returns the entity type for model as an absolute class name.
// Lookup failures of any kind fall back to the generic entity.
func (r *Resolver) Resolve(model, primary string) string {
	id := r.Qualify(model, primary)
	if id == "" {
		return models.GenericEntity
	}

	if cached, ok := r.entities.Get(id); ok {
		return cached
	}

	className, err := lookup(r.registry, id, Registry.EntityClass)
	typeExpr := models.GenericEntity
	if err == nil && className != "" {
		typeExpr = models.AbsoluteType(className)
	}

	r.entities.Add(id, typeExpr)
	return typeExpr
}

// TableType returns the table type for model as an absolute class name,
// falling back to the generic table. model is qualified like Resolve so a
// property and the paginate union agree on the table they name.
func (r *Resolver) TableType(model, primary string) string {
	id := r.Qualify(model, primary)
	if id == "" {
		return models.GenericTable
	}

	if cached, ok := r.tables.Get(id); ok {
		return cached
	}

	className, err := lookup(r.registry, id, Registry.TableClass)
	typeExpr := models.GenericTable
	if err == nil && className != "" {
		typeExpr = models.AbsoluteType(className)
	}

	r.tables.Add(id, typeExpr)
	return typeExpr
}

// lookup calls fn and converts a panic inside the registry into an error
func lookup(registry Registry, id string, fn func(Registry, string) (string, error)) (className string, err error) {
	if registry == nil {
		return "", fmt.Errorf("no registry configured")
	}

	defer func() {
		if r := recover(); r != nil {
			className = ""
			err = fmt.Errorf("registry lookup for %s panicked: %v", id, r)
		}
	}()

	return fn(registry, id)
}
