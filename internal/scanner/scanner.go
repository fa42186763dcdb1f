// Package scanner extracts structural facts from controller source text.
//
// Extraction is textual: every extractor is a regular expression anchored
// to the literal call or declaration syntax it looks for, so surrounding
// code noise is tolerated and unrelated constructs do not match. The
// extractors are independent of each other and of annotation synthesis.
package scanner

import (
	"regexp"
	"strings"

	"github.com/toyz/idehint/internal/errors"
)

// Extractor is one named pattern over source text
type Extractor struct {
	Name    string
	Pattern *regexp.Regexp
}

var (
	// ExplicitModel matches `public $modelClass = 'Foo.Bar'`
	ExplicitModel = Extractor{"explicit-model", regexp.MustCompile(`(?i)\bpublic \$modelClass = '([a-z./]+)'`)}
	// DisabledModel matches `public $modelClass = false;`
	DisabledModel = Extractor{"disabled-model", regexp.MustCompile(`(?i)\bpublic \$modelClass = false;`)}
	// LoadModel matches `$this->loadModel('Foo.Bar'`
	LoadModel = Extractor{"load-model", regexp.MustCompile(`(?i)\$this->loadModel\('([a-z.]+)'`)}
	// BarePaginate matches `$this->paginate()`
	BarePaginate = Extractor{"bare-paginate", regexp.MustCompile(`(?i)\$this->paginate\(\)`)}
	// TargetedPaginate matches `$this->paginate($this->Comments)`
	TargetedPaginate = Extractor{"targeted-paginate", regexp.MustCompile(`(?i)\$this->paginate\(\$this->([a-z]+)\)`)}
)

// Matches returns true if the extractor finds its pattern in source
func (e Extractor) Matches(source string) bool {
	return e.Pattern.MatchString(source)
}

// First returns the first usable capture. A hit whose capture is empty or
// malformed is reported as no match.
func (e Extractor) First(source string) (string, bool) {
	for _, m := range e.Pattern.FindAllStringSubmatch(source, -1) {
		if v, ok := capture(m); ok {
			return v, true
		}
	}
	return "", false
}

// All returns every usable capture, deduplicated in first-seen order
func (e Extractor) All(source string) []string {
	var values []string
	seen := make(map[string]bool)
	for _, m := range e.Pattern.FindAllStringSubmatch(source, -1) {
		v, ok := capture(m)
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}

// Rejected returns a malformed pattern error for every hit whose capture
// First and All drop
func (e Extractor) Rejected(source string) []error {
	var rejected []error
	for _, m := range e.Pattern.FindAllStringSubmatch(source, -1) {
		if len(m) < 2 {
			continue
		}
		if _, ok := capture(m); !ok {
			rejected = append(rejected, errors.NewMalformedPattern(e.Name, m[0]))
		}
	}
	return rejected
}

// capture validates group 1 of a match: non-empty, no empty dot segments
func capture(m []string) (string, bool) {
	if len(m) < 2 {
		return "", false
	}
	v := m[1]
	if v == "" || strings.HasPrefix(v, ".") || strings.HasSuffix(v, ".") || strings.Contains(v, "..") {
		return "", false
	}
	return v, true
}

// Pagination holds the pagination facts of a controller
type Pagination struct {
	BareCall        bool     // $this->paginate() seen: paginate the primary model
	ExplicitTargets []string // properties passed as $this->paginate($this->X)
}

// Any returns true if any pagination call was found
func (p Pagination) Any() bool {
	return p.BareCall || len(p.ExplicitTargets) > 0
}

// Facts is everything the scanner learns from one source text
type Facts struct {
	ExplicitModel string // empty when no declaration was found
	ModelDisabled bool
	LoadedModels  []string
	Pagination    Pagination
	Rejected      []error // hits dropped for an unusable capture
}

// HasExplicitModel returns true if a string modelClass declaration was found
func (f Facts) HasExplicitModel() bool {
	return f.ExplicitModel != ""
}

// Scan runs every extractor over source
func Scan(source string) Facts {
	explicit, _ := ExplicitModel.First(source)

	var rejected []error
	for _, e := range []Extractor{ExplicitModel, LoadModel, TargetedPaginate} {
		rejected = append(rejected, e.Rejected(source)...)
	}

	return Facts{
		ExplicitModel: explicit,
		ModelDisabled: DisabledModel.Matches(source),
		LoadedModels:  LoadModel.All(source),
		Pagination: Pagination{
			BareCall:        BarePaginate.Matches(source),
			ExplicitTargets: TargetedPaginate.All(source),
		},
		Rejected: rejected,
	}
}
