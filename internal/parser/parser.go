// Package parser extracts class facts from PHP source files with anchored
// regular expressions. It reads only what the class index needs: the class
// identity, its parent and the declarations that drive model and component
// loading.
package parser

import (
	"regexp"
	"strings"

	"github.com/toyz/idehint/internal/errors"
	"github.com/toyz/idehint/internal/models"
	"github.com/toyz/idehint/internal/utils"
)

var (
	namespacePattern     = regexp.MustCompile(`(?m)^\s*namespace\s+([A-Za-z0-9_\\]+)\s*;`)
	usePattern           = regexp.MustCompile(`(?m)^\s*use\s+\\?([A-Za-z0-9_\\]+)(?:\s+as\s+(\w+))?\s*;`)
	classPattern         = regexp.MustCompile(`(?m)^\s*(?:(?:abstract|final)\s+)*class\s+(\w+)(?:\s+extends\s+(\\?[A-Za-z0-9_\\]+))?`)
	modelClassPattern    = regexp.MustCompile(`(?i)(?:(?:public|protected|var)\s+\$|\$this->)modelClass\s*=\s*(?:'([^']*)'|"([^"]*)"|(false)\b)`)
	componentsPattern    = regexp.MustCompile(`(?s)(?:public|protected|var)\s+\$components\s*=\s*(?:\[|array\()(.*?)(?:\]|\))\s*;`)
	loadComponentPattern = regexp.MustCompile(`\$this->loadComponent\(\s*['"]([A-Za-z0-9_./]+)['"]`)
	entityClassPattern   = regexp.MustCompile(`(?:(?:public|protected)\s+\$_entityClass\s*=\s*['"]([^'"]+)['"]|->setEntityClass\(\s*(?:['"]([^'"]+)['"]|\\?([A-Za-z0-9_\\]+)::class))`)
)

// ClassFacts is what the parser learns from one PHP file
type ClassFacts struct {
	FileName    string
	Line        int // line of the class declaration
	Namespace   string
	ClassName   string
	Extends     string            // fully-qualified parent, empty when none
	Uses        map[string]string // alias to fully-qualified class
	Kind        ClassKind
	ModelClass  models.ModelDeclaration
	Components  []string // component identifiers in load order
	EntityClass string   // tables only, fully-qualified when declared
}

// FQCN returns the fully-qualified class name without a leading backslash
func (c *ClassFacts) FQCN() string {
	if c.Namespace == "" {
		return c.ClassName
	}
	return c.Namespace + `\` + c.ClassName
}

// Parser reads PHP files through a cached file reader
type Parser struct {
	reader *utils.FileReader
}

// NewParser creates a new PHP class parser
func NewParser(reader *utils.FileReader) *Parser {
	if reader == nil {
		reader = utils.NewFileReader()
	}
	return &Parser{reader: reader}
}

// ParseFile reads and parses one file
func (p *Parser) ParseFile(path string) (*ClassFacts, error) {
	source, err := p.reader.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}
	return p.ParseSource(path, source)
}

// ParseSource parses source code from a string. Files without a class
// declaration return an ErrSkip-compatible error.
func (p *Parser) ParseSource(fileName, source string) (*ClassFacts, error) {
	loc := classPattern.FindStringSubmatchIndex(source)
	if loc == nil {
		return nil, errors.New(errors.SkipCode, "no class declaration").
			WithLocation(errors.SourceLocation{File: fileName})
	}

	header := source[:loc[0]]
	facts := &ClassFacts{
		FileName:  fileName,
		Line:      strings.Count(source[:loc[2]], "\n") + 1,
		ClassName: source[loc[2]:loc[3]],
		Uses:      parseUses(header),
	}

	if m := namespacePattern.FindStringSubmatch(header); m != nil {
		facts.Namespace = m[1]
	}
	if loc[4] >= 0 {
		facts.Extends = facts.Resolve(source[loc[4]:loc[5]])
	}

	body := source[loc[1]:]
	facts.Kind = kindOf(facts.Namespace, facts.ClassName)
	facts.ModelClass = parseModelClass(body)
	facts.Components = parseComponents(body)
	facts.EntityClass = parseEntityClass(facts, body)

	return facts, nil
}

// Resolve expands a class reference using the file's imports and namespace
func (c *ClassFacts) Resolve(name string) string {
	if strings.HasPrefix(name, `\`) {
		return strings.TrimPrefix(name, `\`)
	}

	head, rest, qualified := strings.Cut(name, `\`)
	if full, ok := c.Uses[head]; ok {
		if qualified {
			return full + `\` + rest
		}
		return full
	}

	if c.Namespace == "" {
		return name
	}
	return c.Namespace + `\` + name
}

func parseUses(header string) map[string]string {
	uses := make(map[string]string)
	for _, m := range usePattern.FindAllStringSubmatch(header, -1) {
		full := m[1]
		alias := m[2]
		if alias == "" {
			alias = full[strings.LastIndex(full, `\`)+1:]
		}
		uses[alias] = full
	}
	return uses
}

func kindOf(namespace, className string) ClassKind {
	ns := `\` + namespace
	switch {
	case strings.HasSuffix(ns, ComponentSegment) || strings.Contains(ns, ComponentSegment+`\`):
		if strings.HasSuffix(className, "Component") {
			return KindComponent
		}
	case strings.HasSuffix(ns, TableSegment):
		if strings.HasSuffix(className, "Table") {
			return KindTable
		}
	case strings.HasSuffix(ns, EntitySegment):
		return KindEntity
	case strings.HasSuffix(ns, ControllerSegment) || strings.Contains(ns, ControllerSegment+`\`):
		if strings.HasSuffix(className, "Controller") {
			return KindController
		}
	}
	return KindOther
}

// parseModelClass keeps the last assignment: a constructor or initialize
// body runs after the property default
func parseModelClass(body string) models.ModelDeclaration {
	matches := modelClassPattern.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return models.ModelDeclaration{}
	}

	m := matches[len(matches)-1]
	if m[3] != "" {
		return models.ModelDeclaration{Declared: true, Disabled: true}
	}
	value := m[1]
	if value == "" {
		value = m[2]
	}
	return models.ModelDeclaration{Declared: true, Value: value}
}

// parseComponents returns the keys of the $components property followed by
// loadComponent calls, first occurrence wins
func parseComponents(body string) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	if m := componentsPattern.FindStringSubmatch(body); m != nil {
		for _, element := range splitTopLevel(m[1]) {
			add(arrayKey(element))
		}
	}
	for _, m := range loadComponentPattern.FindAllStringSubmatch(body, -1) {
		add(m[1])
	}
	return names
}

func parseEntityClass(facts *ClassFacts, body string) string {
	if facts.Kind != KindTable {
		return ""
	}
	m := entityClassPattern.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	switch {
	case m[1] != "":
		return entityName(facts, m[1])
	case m[2] != "":
		return entityName(facts, m[2])
	default:
		return facts.Resolve(m[3])
	}
}

// entityName resolves a string entity declaration. Plugin syntax
// "Blog.Post" and short names are left to the table registry.
func entityName(facts *ClassFacts, value string) string {
	if strings.Contains(value, `\`) {
		return strings.TrimPrefix(value, `\`)
	}
	return value
}

// splitTopLevel splits a PHP array body on commas outside nested brackets
// and string literals
func splitTopLevel(body string) []string {
	var parts []string
	var quote byte
	depth, start := 0, 0

	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '[' || c == '(':
			depth++
		case c == ']' || c == ')':
			depth--
		case c == ',' && depth == 0:
			parts = append(parts, body[start:i])
			start = i + 1
		}
	}
	parts = append(parts, body[start:])

	var result []string
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			result = append(result, strings.TrimSpace(part))
		}
	}
	return result
}

// arrayKey returns the string key of "'Name' => [...]" or the string value
// of "'Name'"
func arrayKey(element string) string {
	key := element
	if i := strings.Index(element, "=>"); i >= 0 {
		key = element[:i]
	}
	key = strings.TrimSpace(key)
	if len(key) < 2 {
		return ""
	}
	if (key[0] == '\'' || key[0] == '"') && key[len(key)-1] == key[0] {
		return key[1 : len(key)-1]
	}
	return ""
}
