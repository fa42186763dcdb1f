package annotations

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/toyz/idehint/internal/errors"
	"github.com/toyz/idehint/internal/models"
)

var classPattern = regexp.MustCompile(`(?m)^([ \t]*)(?:(?:abstract|final)\s+)*class\s+(\w+)`)

// FileWriter persists rewritten content
type FileWriter interface {
	WriteFile(path, content string) error
}

// WriterOptions selects the writer mode
type WriterOptions struct {
	Remove bool // strip matching directives instead of adding them
	DryRun bool // compute the count but never write
}

// Writer applies directives to the class doc block of a file
type Writer struct {
	parser  *DocParser
	files   FileWriter
	options WriterOptions
}

// NewWriter creates a writer. files may be nil for dry runs.
func NewWriter(files FileWriter, options WriterOptions) *Writer {
	return &Writer{
		parser:  NewDocParser(),
		files:   files,
		options: options,
	}
}

// Apply rewrites the doc block of path and returns how many directives were
// added, changed or removed. Directives already present with the same type
// are no-ops. The file is only written when its content changes.
func (w *Writer) Apply(path, original string, directives []models.Directive) (int, error) {
	if len(directives) == 0 {
		return 0, nil
	}

	updated, count, err := w.Rewrite(original, directives)
	if err != nil {
		return 0, errors.WrapWriterError(path, err)
	}

	if count == 0 || updated == original || w.options.DryRun {
		return count, nil
	}

	if w.files == nil {
		return 0, errors.WrapWriterError(path, fmt.Errorf("no file writer configured"))
	}
	if err := w.files.WriteFile(path, updated); err != nil {
		return 0, errors.WrapFileSystemError("write", path, err)
	}
	return count, nil
}

// Rewrite returns the updated source and the number of changed directives
func (w *Writer) Rewrite(source string, directives []models.Directive) (string, int, error) {
	block, err := w.locate(source)
	if err != nil {
		return source, 0, err
	}

	var count int
	if w.options.Remove {
		count = block.remove(w.parser, directives)
	} else {
		count = block.add(w.parser, directives)
	}

	if count == 0 {
		return source, 0, nil
	}

	end := block.end
	if !hasContent(block.lines) {
		// An emptied block takes the whitespace before the class line with it
		end = block.classAt
	}
	return source[:block.start] + block.render() + source[end:], count, nil
}

// Existing returns the tag lines currently present in the class doc block
func (w *Writer) Existing(source string) ([]Annotation, error) {
	block, err := w.locate(source)
	if err != nil {
		return nil, err
	}

	var result []Annotation
	for _, line := range block.lines {
		if a, ok := w.parser.ParseLine(line); ok {
			result = append(result, a)
		}
	}
	return result, nil
}

// docBlock is the class doc block, or an empty placeholder right before
// the class keyword when the class has none
type docBlock struct {
	start, end int      // byte range replaced by render()
	classAt    int      // offset of the class keyword
	indent     string   // indentation of the class line
	newline    string   // line ending used by the file
	lines      []string // content lines between /** and */
	created    bool     // no doc block existed
}

func (w *Writer) locate(source string) (*docBlock, error) {
	loc := classPattern.FindStringSubmatchIndex(source)
	if loc == nil {
		return nil, fmt.Errorf("no class declaration found")
	}

	classStart := loc[0]
	indent := source[loc[2]:loc[3]]
	newline := "\n"
	if strings.Contains(source, "\r\n") {
		newline = "\r\n"
	}

	before := strings.TrimRight(source[:classStart], " \t\r\n")
	if strings.HasSuffix(before, "*/") {
		open := strings.LastIndex(before, "/**")
		if open >= 0 && !strings.Contains(before[open:len(before)-2], "*/") {
			body := before[open+3 : len(before)-2]
			return &docBlock{
				start:   open,
				end:     len(before),
				classAt: classStart + len(indent),
				indent:  indent,
				newline: newline,
				lines:   splitBody(body),
			}, nil
		}
	}

	// Insert a new block at the start of the class line's indentation
	return &docBlock{
		start:   classStart + len(indent),
		end:     classStart + len(indent),
		classAt: classStart + len(indent),
		indent:  indent,
		newline: newline,
		created: true,
	}, nil
}

// splitBody returns the content lines of a doc block body, dropping the
// empty first and last line of the multi-line form
func splitBody(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	lines := strings.Split(body, "\n")

	if len(lines) == 1 {
		content := strings.TrimSpace(lines[0])
		if content == "" {
			return nil
		}
		return []string{content}
	}

	if strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func (b *docBlock) add(parser *DocParser, directives []models.Directive) int {
	count := 0
	for _, d := range directives {
		idx, same := b.find(parser, d)
		switch {
		case idx >= 0 && same:
			continue
		case idx >= 0:
			b.lines[idx] = b.indent + " * " + d.String()
		default:
			b.lines = append(b.lines, b.indent+" * "+d.String())
		}
		count++
	}
	return count
}

func (b *docBlock) remove(parser *DocParser, directives []models.Directive) int {
	if b.created {
		return 0
	}

	remove := make(map[string]bool, len(directives))
	for _, d := range directives {
		remove[d.Key()] = true
	}

	count := 0
	kept := b.lines[:0]
	for _, line := range b.lines {
		if a, ok := parser.ParseLine(line); ok && remove[a.Key()] {
			count++
			continue
		}
		kept = append(kept, line)
	}
	b.lines = kept
	return count
}

// find returns the index of the line occupying d's slot and whether it
// already carries d's type
func (b *docBlock) find(parser *DocParser, d models.Directive) (int, bool) {
	for i, line := range b.lines {
		a, ok := parser.ParseLine(line)
		if !ok || !a.Matches(d) {
			continue
		}
		return i, a.SameType(d.TypeExpr)
	}
	return -1, false
}

func (b *docBlock) render() string {
	if !hasContent(b.lines) {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("/**")
	sb.WriteString(b.newline)
	for _, line := range b.lines {
		sb.WriteString(strings.TrimRight(line, " \t\r"))
		sb.WriteString(b.newline)
	}
	sb.WriteString(b.indent)
	sb.WriteString(" */")
	if b.created {
		sb.WriteString(b.newline)
		sb.WriteString(b.indent)
	}
	return sb.String()
}

func hasContent(lines []string) bool {
	for _, line := range lines {
		if stripCommentPrefix(line) != "" {
			return true
		}
	}
	return false
}
