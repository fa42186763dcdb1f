package models

import "strings"

// DirectiveKind tags the AnnotationDirective variant
type DirectiveKind int

const (
	PropertyDirective DirectiveKind = iota
	MethodDirective
)

// Tag returns the doc block tag for the kind
func (k DirectiveKind) Tag() string {
	if k == MethodDirective {
		return "@method"
	}
	return "@property"
}

// Framework type names used as fallbacks and union members
const (
	GenericEntity      = `\Cake\ORM\Entity`
	GenericTable       = `\Cake\ORM\Table`
	ResultSetInterface = `\Cake\Datasource\ResultSetInterface`
	PaginateSignature  = `paginate($object = null, array $settings = [])`
)

// Directive is one type hint to place in a class doc block
type Directive struct {
	Kind     DirectiveKind
	TypeExpr string // e.g. \App\Model\Table\ArticlesTable or A[]|B
	Member   string // $Name for properties, full signature for methods
}

// Property builds a property directive, normalizing the member to $name
func Property(typeExpr, name string) Directive {
	if !strings.HasPrefix(name, "$") {
		name = "$" + name
	}
	return Directive{Kind: PropertyDirective, TypeExpr: typeExpr, Member: name}
}

// Method builds a method directive
func Method(returnType, signature string) Directive {
	return Directive{Kind: MethodDirective, TypeExpr: returnType, Member: signature}
}

// MemberName returns the property name or the method name without arguments
func (d Directive) MemberName() string {
	if d.Kind == MethodDirective {
		if i := strings.Index(d.Member, "("); i >= 0 {
			return strings.TrimSpace(d.Member[:i])
		}
		return d.Member
	}
	return strings.TrimPrefix(d.Member, "$")
}

// Key identifies the slot a directive occupies in a doc block: tag plus member
func (d Directive) Key() string {
	return d.Kind.Tag() + " " + d.MemberName()
}

// Identity is the dedup key: tag, type and member
func (d Directive) Identity() string {
	return d.Kind.Tag() + " " + d.TypeExpr + " " + d.Member
}

// String renders the directive as a doc block line body
func (d Directive) String() string {
	return d.Kind.Tag() + " " + d.TypeExpr + " " + d.Member
}

// AbsoluteType prefixes a class name with a single leading backslash
func AbsoluteType(className string) string {
	return `\` + strings.TrimLeft(className, `\`)
}
