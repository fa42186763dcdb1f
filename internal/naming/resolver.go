// Package naming maps controller file paths and class names onto the
// identifiers the rest of the inference engine works with.
package naming

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/toyz/idehint/internal/models"
)

// ControllerSuffix is the case-sensitive suffix an analyzable class name must carry
const ControllerSuffix = "Controller"

// Resolve builds a descriptor for path. The boolean is false when the file
// name does not end in "Controller"; that is a filter, not an error.
func Resolve(path, plugin string) (models.ControllerDescriptor, bool) {
	className := ClassNameFromPath(path)
	if !strings.HasSuffix(className, ControllerSuffix) {
		return models.ControllerDescriptor{}, false
	}

	return models.ControllerDescriptor{
		ClassName:     className,
		FilePath:      path,
		PluginName:    plugin,
		RoutingPrefix: RoutingPrefix(path, className),
	}, true
}

// ClassNameFromPath returns the base file name without its extension
func ClassNameFromPath(path string) string {
	base := filepath.Base(filepath.ToSlash(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// RoutingPrefix extracts <sub> from ".../Controller/<sub>/<ClassName>.php"
func RoutingPrefix(path, className string) string {
	pattern := regexp.MustCompile(`/Controller/(\w+)/` + regexp.QuoteMeta(className) + `\.php`)
	m := pattern.FindStringSubmatch(filepath.ToSlash(path))
	if m == nil {
		return ""
	}
	return m[1]
}

// ModelNameFromClass strips the controller suffix. A class named exactly
// "Controller" yields the empty string: no primary model.
func ModelNameFromClass(className string) string {
	return strings.TrimSuffix(className, ControllerSuffix)
}

// WithPlugin prefixes name with "plugin." when a plugin is given
func WithPlugin(plugin, name string) string {
	if plugin == "" || name == "" {
		return name
	}
	return plugin + "." + name
}

// PluginSplit splits "Blog.Posts" into ("Blog", "Posts")
func PluginSplit(id string) (plugin, name string) {
	c := models.ParseIdentifier(id)
	return c.Plugin, c.Name
}

// HasPlugin returns true if the identifier already carries a plugin dot prefix
func HasPlugin(id string) bool {
	return strings.Contains(id, ".")
}

// PluginNamespace converts a plugin name into its root namespace:
// "Vendor/Blog" becomes "Vendor\Blog"
func PluginNamespace(plugin string) string {
	return strings.ReplaceAll(plugin, "/", `\`)
}
