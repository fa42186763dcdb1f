package models

// ServiceBinding is one component attached to a controller instance
type ServiceBinding struct {
	Name         string // binding name, e.g. Auth
	ConcreteType string // fully-qualified class without leading backslash
}

// PrimaryModelState is the outcome of a dynamic primary model lookup
type PrimaryModelState int

const (
	// PrimaryModelUnavailable means the lookup could not run at all
	PrimaryModelUnavailable PrimaryModelState = iota
	// PrimaryModelNone means the class definitely has no primary model
	PrimaryModelNone
	// PrimaryModelFound means the class declares a primary model
	PrimaryModelFound
)

// PrimaryModel is a tri-state lookup result. Unavailable and None are
// deliberately different: only a definite answer overrides textual facts.
type PrimaryModel struct {
	State PrimaryModelState
	Value string
}

// Unavailable is the result of a lookup that could not run
func Unavailable() PrimaryModel { return PrimaryModel{State: PrimaryModelUnavailable} }

// NoPrimaryModel is the result for a class that disables its primary model
func NoPrimaryModel() PrimaryModel { return PrimaryModel{State: PrimaryModelNone} }

// FoundPrimaryModel is the result for a class declaring a primary model
func FoundPrimaryModel(value string) PrimaryModel {
	return PrimaryModel{State: PrimaryModelFound, Value: value}
}

// Definite returns true if the lookup produced an authoritative answer
func (p PrimaryModel) Definite() bool {
	return p.State != PrimaryModelUnavailable
}
