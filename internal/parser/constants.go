package parser

// ClassKind classifies a PHP class by where it lives in the namespace tree
type ClassKind int

const (
	KindOther ClassKind = iota
	KindController
	KindComponent
	KindTable
	KindEntity
)

// String returns the kind name used in diagnostics and manifests
func (k ClassKind) String() string {
	switch k {
	case KindController:
		return "controller"
	case KindComponent:
		return "component"
	case KindTable:
		return "table"
	case KindEntity:
		return "entity"
	default:
		return "other"
	}
}

// Namespace segments that identify a class kind
const (
	ControllerSegment = `\Controller`
	ComponentSegment  = `\Controller\Component`
	TableSegment      = `\Model\Table`
	EntitySegment     = `\Model\Entity`
)
