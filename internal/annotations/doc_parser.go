// Package annotations reads and rewrites the class doc block of a PHP file.
package annotations

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/idehint/internal/models"
)

// tagLine is the grammar of a single doc block tag line, e.g.
//
//	@property \App\Model\Table\ArticlesTable $Articles
//	@method \App\Model\Entity\Article[]|\Cake\Datasource\ResultSetInterface paginate($object = null, array $settings = [])
type tagLine struct {
	Tag    string     `parser:"@Tag"`
	Types  []string   `parser:"( @Type ( '|' @Type )* )?"`
	Member *tagMember `parser:"@@?"`
	Rest   []string   `parser:"@( Tag | Type | Variable | Pipe | Paren | Other )*"`
}

type tagMember struct {
	Variable string   `parser:"  @Variable"`
	Method   string   `parser:"| @Type '('"`
	Args     []string `parser:"  @( Type | Variable | Pipe | Other )* ')'"`
}

// Annotation is a parsed tag line
type Annotation struct {
	Tag      string // @property, @method, @var, ...
	TypeExpr string // alternatives joined by |
	Member   string // property name without $, or method name
	Raw      string // line content without the leading " * "
}

// Key identifies the slot the annotation occupies, comparable to models.Directive.Key
func (a Annotation) Key() string {
	return a.Tag + " " + a.Member
}

// SameType reports whether the annotation's type equals typeExpr, ignoring
// leading backslashes on each alternative
func (a Annotation) SameType(typeExpr string) bool {
	return normalizeType(a.TypeExpr) == normalizeType(typeExpr)
}

// DocParser parses doc block tag lines using participle
type DocParser struct {
	parser *participle.Parser[tagLine]
}

// NewDocParser creates a new doc block line parser
func NewDocParser() *DocParser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Tag", Pattern: `@[a-zA-Z][a-zA-Z0-9-]*`},
		{Name: "Variable", Pattern: `\$[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Type", Pattern: `\\?[a-zA-Z_][a-zA-Z0-9_\\]*(\[\])*`},
		{Name: "Pipe", Pattern: `\|`},
		{Name: "Paren", Pattern: `[()]`},
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Other", Pattern: `[^\s]`},
	})

	parser := participle.MustBuild[tagLine](
		participle.Lexer(lex),
		participle.Elide("Whitespace"),
		participle.UseLookahead(3),
	)

	return &DocParser{parser: parser}
}

// ParseLine parses the content of one doc block line. The boolean is false
// for lines that are not tag lines.
func (p *DocParser) ParseLine(line string) (Annotation, bool) {
	content := stripCommentPrefix(line)
	if !strings.HasPrefix(content, "@") {
		return Annotation{}, false
	}

	parsed, err := p.parser.ParseString("", content)
	if err != nil {
		return Annotation{}, false
	}

	a := Annotation{
		Tag:      parsed.Tag,
		TypeExpr: strings.Join(parsed.Types, "|"),
		Raw:      content,
	}
	if parsed.Member != nil {
		if parsed.Member.Variable != "" {
			a.Member = strings.TrimPrefix(parsed.Member.Variable, "$")
		} else {
			a.Member = parsed.Member.Method
		}
	}
	return a, true
}

// Matches reports whether the annotation occupies the same slot as d
func (a Annotation) Matches(d models.Directive) bool {
	return a.Key() == d.Key()
}

// stripCommentPrefix removes leading whitespace, the "*" gutter and a
// trailing "*/" from a doc block line
func stripCommentPrefix(line string) string {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(s, "/**")
	s = strings.TrimSuffix(s, "*/")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "*")
	return strings.TrimSpace(s)
}

func normalizeType(typeExpr string) string {
	parts := strings.Split(typeExpr, "|")
	for i, p := range parts {
		parts[i] = strings.TrimLeft(strings.TrimSpace(p), `\`)
	}
	return strings.Join(parts, "|")
}
