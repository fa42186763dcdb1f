package annotator

import (
	"github.com/toyz/idehint/internal/models"
	"github.com/toyz/idehint/internal/naming"
	"github.com/toyz/idehint/internal/scanner"
)

// ResolvePrimaryModel applies the fallback chain for the primary model and
// returns "" when the controller has none. Order:
//
//  1. dynamic lookup, when it gave a definite answer (found or none)
//  2. textual modelClass declaration
//  3. textual modelClass = false
//  4. naming convention, plugin-prefixed when a plugin is configured
//
// An unavailable dynamic lookup falls through to the textual steps, so a
// controller that disables its model in a way the text patterns miss and
// that cannot be instantiated still gets the convention model.
func ResolvePrimaryModel(dynamic models.PrimaryModel, facts scanner.Facts, className, plugin string) string {
	switch dynamic.State {
	case models.PrimaryModelFound:
		return dynamic.Value
	case models.PrimaryModelNone:
		return ""
	}

	if facts.HasExplicitModel() {
		return facts.ExplicitModel
	}

	if facts.ModelDisabled {
		return ""
	}

	return naming.WithPlugin(plugin, naming.ModelNameFromClass(className))
}
