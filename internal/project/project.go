// Package project builds the class index of a CakePHP application from its
// source tree and an optional manifest.
package project

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/idehint/internal/errors"
	"github.com/toyz/idehint/internal/models"
	"github.com/toyz/idehint/internal/naming"
	"github.com/toyz/idehint/internal/parser"
	"github.com/toyz/idehint/internal/registry"
	"github.com/toyz/idehint/internal/utils"
)

// Options configures index loading
type Options struct {
	AppNamespace string // root namespace of src/, App by default
	ManifestPath string // optional YAML manifest
}

// Stats counts what the index holds
type Stats struct {
	Files       int
	Controllers int
	Components  int
	Tables      int
	Entities    int
	Skipped     int // PHP files without a class declaration
}

// Index is the loaded class index
type Index struct {
	Root    string
	Classes *registry.ClassRegistry
	Tables  *registry.TableRegistry
	Stats   Stats
}

// Loader walks a project tree and fills the registries
type Loader struct {
	files  *utils.FileProcessor
	parser *parser.Parser
}

// NewLoader creates a loader sharing reader with the rest of the run
func NewLoader(reader *utils.FileReader) *Loader {
	if reader == nil {
		reader = utils.NewFileReader()
	}
	return &Loader{
		files:  utils.NewFileProcessor(),
		parser: parser.NewParser(reader),
	}
}

// Load indexes root with a fresh loader
func Load(root string, options Options) (*Index, error) {
	return NewLoader(nil).Load(root, options)
}

// Load indexes src/ and every plugins/<Name>/src/ below root, then applies
// the manifest
func (l *Loader) Load(root string, options Options) (*Index, error) {
	var manifest *Manifest
	if options.ManifestPath != "" {
		m, err := LoadManifest(options.ManifestPath)
		if err != nil {
			return nil, err
		}
		manifest = m
	}

	appNamespace := options.AppNamespace
	if appNamespace == "" && manifest != nil {
		appNamespace = manifest.AppNamespace
	}
	if appNamespace == "" {
		appNamespace = registry.DefaultAppNamespace
	}

	index := &Index{
		Root:    root,
		Classes: registry.NewClassRegistry(appNamespace),
		Tables:  registry.NewTableRegistry(appNamespace),
	}

	sources, err := l.sourceRoots(root)
	if err != nil {
		return nil, err
	}

	for _, src := range sources {
		if err := l.indexTree(index, src.dir, src.plugin); err != nil {
			return nil, err
		}
	}

	if manifest != nil {
		if err := index.apply(manifest); err != nil {
			return nil, errors.WrapManifestError(options.ManifestPath, err)
		}
	}

	index.Stats.Controllers = len(index.Classes.Controllers())
	index.Stats.Components = index.Classes.ComponentCount()
	index.Stats.Tables = len(index.Tables.Tables())
	return index, nil
}

type sourceRoot struct {
	dir    string
	plugin string
}

func (l *Loader) sourceRoots(root string) ([]sourceRoot, error) {
	var roots []sourceRoot

	app := filepath.Join(root, "src")
	if isDir(app) {
		roots = append(roots, sourceRoot{dir: app})
	}

	pluginsDir := filepath.Join(root, "plugins")
	entries, err := os.ReadDir(pluginsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return roots, nil
		}
		return nil, errors.WrapFileSystemError("read", pluginsDir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		src := filepath.Join(pluginsDir, entry.Name(), "src")
		if isDir(src) {
			roots = append(roots, sourceRoot{dir: src, plugin: entry.Name()})
		}
	}
	return roots, nil
}

func (l *Loader) indexTree(index *Index, dir, plugin string) error {
	files, err := l.files.WalkFiles(dir, utils.FileWalkOptions{
		FileFilter:      utils.PHPFileFilter(),
		DirectoryFilter: utils.DefaultDirectoryFilter(),
		SkipErrors:      true,
	})
	if err != nil {
		return errors.WrapFileSystemError("walk", dir, err)
	}

	for _, path := range files {
		index.Stats.Files++

		facts, err := l.parser.ParseFile(path)
		if err != nil {
			if errors.CodeOf(err) == errors.SkipCode {
				index.Stats.Skipped++
				continue
			}
			return err
		}

		if err := index.register(facts, plugin); err != nil {
			return errors.Wrap(errors.FileSystemErrorCode, "failed to index class", err).
				WithLocation(errors.SourceLocation{File: facts.FileName, Line: facts.Line})
		}
	}
	return nil
}

func (idx *Index) register(facts *parser.ClassFacts, plugin string) error {
	switch facts.Kind {
	case parser.KindController:
		return idx.Classes.RegisterController(registry.ControllerRecord{
			FQCN:    facts.FQCN(),
			Plugin:  plugin,
			Extends: facts.Extends,
			Model:      facts.ModelClass,
			Components: facts.Components,
		})
	case parser.KindComponent:
		name := strings.TrimSuffix(facts.ClassName, "Component")
		return idx.Classes.RegisterComponent(naming.WithPlugin(plugin, name), facts.FQCN())
	case parser.KindTable:
		name := strings.TrimSuffix(facts.ClassName, "Table")
		return idx.Tables.RegisterTable(registry.TableRecord{
			Identifier:  naming.WithPlugin(plugin, name),
			FQCN:        facts.FQCN(),
			EntityClass: facts.EntityClass,
		})
	case parser.KindEntity:
		idx.Tables.RegisterEntity(facts.FQCN())
		idx.Stats.Entities++
	}
	return nil
}

// apply overlays manifest declarations. Fields left empty in the manifest
// keep the indexed value.
func (idx *Index) apply(m *Manifest) error {
	for _, c := range m.Controllers {
		record, _ := idx.Classes.Controller(c.Class)
		record.FQCN = c.Class
		if c.Plugin != "" {
			record.Plugin = c.Plugin
		}
		if c.Extends != "" {
			record.Extends = c.Extends
		}
		if c.Model != nil {
			record.Model = models.ModelDeclaration{Declared: true, Value: c.Model.Value, Disabled: c.Model.Disabled}
		}
		if c.Components != nil {
			record.Components = c.Components
		}
		if c.Fault != "" {
			record.Fault = c.Fault
		}
		if err := idx.Classes.RegisterController(record); err != nil {
			return err
		}
	}

	for _, id := range utils.SortedMapKeys(m.Components) {
		if err := idx.Classes.RegisterComponent(id, m.Components[id]); err != nil {
			return err
		}
	}

	for _, t := range m.Tables {
		record, _ := idx.Tables.Table(t.ID)
		record.Identifier = t.ID
		if t.Class != "" {
			record.FQCN = t.Class
		}
		if t.Entity != "" {
			record.EntityClass = t.Entity
		}
		if err := idx.Tables.RegisterTable(record); err != nil {
			return err
		}
	}

	for _, entity := range m.Entities {
		idx.Tables.RegisterEntity(entity)
		idx.Stats.Entities++
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
