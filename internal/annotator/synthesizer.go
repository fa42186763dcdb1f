package annotator

import (
	"strings"

	"github.com/toyz/idehint/internal/models"
	"github.com/toyz/idehint/internal/naming"
	"github.com/toyz/idehint/internal/scanner"
)

// TypeResolver maps table identifiers onto table and entity types
type TypeResolver interface {
	TableType(model, primary string) string
	Resolve(model, primary string) string
}

// Inputs are the inference facts for one controller
type Inputs struct {
	Descriptor   models.ControllerDescriptor
	PrimaryModel string // "" when the controller has none
	UsedModels   []string
	Services     []models.ServiceBinding // already filtered
	Pagination   scanner.Pagination
}

// Synthesize turns inference facts into directives. Model properties come
// first (primary, then used models in first-seen order), then services,
// then the paginate method. The result carries no duplicates and depends
// only on its inputs.
func Synthesize(in Inputs, types TypeResolver) []models.Directive {
	list := newDirectiveList()

	for _, model := range ModelIdentifiers(in.PrimaryModel, in.UsedModels) {
		list.add(models.Property(types.TableType(model, in.PrimaryModel), memberName(model)))
	}

	for _, svc := range in.Services {
		if svc.Name == "" || svc.ConcreteType == "" {
			continue
		}
		list.add(models.Property(models.AbsoluteType(svc.ConcreteType), svc.Name))
	}

	if union := PaginationUnion(in.PrimaryModel, in.Pagination, types); union != "" {
		list.add(models.Method(union, models.PaginateSignature))
	}

	return list.items
}

// ModelIdentifiers returns the primary model followed by the used models,
// deduplicated by identifier
func ModelIdentifiers(primary string, used []string) []string {
	var ids []string
	seen := make(map[string]bool)

	appendID := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}

	appendID(primary)
	for _, id := range used {
		appendID(id)
	}
	return ids
}

// PaginationUnion builds the paginate return type, or "" when the
// controller never paginates
func PaginationUnion(primary string, p scanner.Pagination, types TypeResolver) string {
	if !p.Any() {
		return ""
	}

	var targets []string
	if p.BareCall {
		targets = append(targets, primary)
	}
	targets = append(targets, p.ExplicitTargets...)

	var parts []string
	seen := make(map[string]bool)
	for _, target := range targets {
		hint := models.AbsoluteType(types.Resolve(target, primary)) + "[]"
		if seen[hint] {
			continue
		}
		seen[hint] = true
		parts = append(parts, hint)
	}

	parts = append(parts, models.ResultSetInterface)
	return strings.Join(parts, "|")
}

// memberName derives the property name from a table identifier:
// "Blog.Posts" becomes "Posts"
func memberName(id string) string {
	_, name := naming.PluginSplit(id)
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

type directiveList struct {
	items []models.Directive
	seen  map[string]bool
}

func newDirectiveList() *directiveList {
	return &directiveList{seen: make(map[string]bool)}
}

func (l *directiveList) add(d models.Directive) {
	if l.seen[d.Identity()] {
		return
	}
	l.seen[d.Identity()] = true
	l.items = append(l.items, d)
}
