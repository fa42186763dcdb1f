package project

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/toyz/idehint/internal/errors"
)

// Manifest declares classes the source index cannot see or gets wrong:
// controllers built at runtime, vendor plugins, or constructors known to
// fail in a tooling environment
type Manifest struct {
	AppNamespace string               `yaml:"app_namespace"`
	Controllers  []ControllerManifest `yaml:"controllers"`
	Components   map[string]string    `yaml:"components"`
	Tables       []TableManifest      `yaml:"tables"`
	Entities     []string             `yaml:"entities"`
}

// ControllerManifest overrides or adds one controller
type ControllerManifest struct {
	Class      string      `yaml:"class"`
	Plugin     string      `yaml:"plugin"`
	Extends    string      `yaml:"extends"`
	Model      *ModelValue `yaml:"model"`
	Components []string    `yaml:"components"`
	Fault      string      `yaml:"fault"`
}

// TableManifest overrides or adds one table
type TableManifest struct {
	ID     string `yaml:"id"`
	Class  string `yaml:"class"`
	Entity string `yaml:"entity"`
}

// ModelValue is a modelClass value: a table identifier or false
type ModelValue struct {
	Value    string
	Disabled bool
}

// UnmarshalYAML accepts a string or the boolean false
func (m *ModelValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: model must be a table name or false", node.Line)
	}

	if node.ShortTag() == "!!bool" {
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		if b {
			return fmt.Errorf("line %d: model may only be false", node.Line)
		}
		m.Disabled = true
		return nil
	}

	m.Value = node.Value
	return nil
}

// LoadManifest reads a YAML manifest
func LoadManifest(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}
	return ParseManifest(path, content)
}

// ParseManifest decodes manifest content. path is used for error reporting.
func ParseManifest(path string, content []byte) (*Manifest, error) {
	var manifest Manifest
	if err := yaml.Unmarshal(content, &manifest); err != nil {
		return nil, errors.WrapManifestError(path, err)
	}

	for i, c := range manifest.Controllers {
		if c.Class == "" {
			return nil, errors.WrapManifestError(path, fmt.Errorf("controllers[%d]: class is required", i))
		}
	}
	for i, t := range manifest.Tables {
		if t.ID == "" {
			return nil, errors.WrapManifestError(path, fmt.Errorf("tables[%d]: id is required", i))
		}
	}

	return &manifest, nil
}
