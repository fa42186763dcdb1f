// Package cli runs the controller annotator over a batch of files and
// reports the outcome.
package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/toyz/idehint/internal/annotations"
	"github.com/toyz/idehint/internal/annotator"
	"github.com/toyz/idehint/internal/config"
	"github.com/toyz/idehint/internal/entity"
	"github.com/toyz/idehint/internal/errors"
	"github.com/toyz/idehint/internal/introspect"
	"github.com/toyz/idehint/internal/project"
	"github.com/toyz/idehint/internal/utils"
)

// Summary describes one batch run
type Summary struct {
	FilesScanned     int
	FilesAnnotated   int // files whose doc block changed
	FilesSkipped     int // not named like a controller
	FilesFailed      int
	AnnotationsTotal int
	IndexStats       project.Stats
	Duration         time.Duration
	ChangedFiles     []string
}

// Stat keys in display order
const (
	StatScanned     = "Files scanned"
	StatAnnotated   = "Files annotated"
	StatAnnotations = "Annotations"
	StatSkipped     = "Skipped"
	StatFailed      = "Failed"
	StatIndexed     = "Classes indexed"
	StatDuration    = "Duration"
)

// Stats returns the summary lines for DiagnosticSystem.Summary. Index
// statistics and timing are only included when verbose.
func (s Summary) Stats(verbose bool) ([]string, map[string]interface{}) {
	keys := []string{StatScanned, StatAnnotated, StatAnnotations, StatSkipped, StatFailed}
	stats := map[string]interface{}{
		StatScanned:     s.FilesScanned,
		StatAnnotated:   s.FilesAnnotated,
		StatAnnotations: s.AnnotationsTotal,
		StatSkipped:     s.FilesSkipped,
		StatFailed:      s.FilesFailed,
	}
	if verbose {
		keys = append(keys, StatIndexed, StatDuration)
		stats[StatIndexed] = fmt.Sprintf("%d controllers, %d components, %d tables, %d entities",
			s.IndexStats.Controllers, s.IndexStats.Components, s.IndexStats.Tables, s.IndexStats.Entities)
		stats[StatDuration] = s.Duration.Round(time.Millisecond)
	}
	return keys, stats
}

// Runner coordinates index loading, file collection and annotation
type Runner struct {
	config      *config.Config
	diagnostics *utils.DiagnosticSystem
	reader      *utils.FileReader
	scanner     *ControllerScanner
	summary     Summary
}

// NewRunner creates a runner. diagnostics may be nil for silent runs.
func NewRunner(cfg *config.Config, diagnostics *utils.DiagnosticSystem) *Runner {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticSilent)
	}
	reader := utils.NewFileReader()
	return &Runner{
		config:      cfg,
		diagnostics: diagnostics,
		reader:      reader,
		scanner:     NewControllerScanner(),
	}
}

// Summary returns the summary of the last run
func (r *Runner) Summary() Summary {
	return r.summary
}

// Run annotates the controllers below paths, or the configured controller
// directory when paths is empty. The returned error is a *errors.BaseError
// when the batch could not start and a *errors.MultipleErrors when some
// files failed; the remaining files are processed either way.
func (r *Runner) Run(paths []string) error {
	start := time.Now()
	r.summary = Summary{}
	defer func() { r.summary.Duration = time.Since(start) }()

	if len(paths) == 0 {
		paths = []string{r.config.ControllerPath()}
	}

	r.diagnostics.Verbose("Indexing project classes in %s", r.config.AppRoot)
	index, err := project.NewLoader(r.reader).Load(r.config.AppRoot, project.Options{
		AppNamespace: r.config.AppNamespace,
		ManifestPath: r.config.ManifestPath(),
	})
	if err != nil {
		return err
	}
	r.summary.IndexStats = index.Stats
	r.diagnostics.Debug("Indexed %d controllers, %d components, %d tables",
		index.Stats.Controllers, index.Stats.Components, index.Stats.Tables)

	files, err := r.scanner.Scan(paths)
	if err != nil {
		return err
	}
	r.summary.FilesScanned = len(files)

	engine, err := r.newAnnotator(index)
	if err != nil {
		return err
	}

	verb := "added"
	if r.config.Remove {
		verb = "removed"
	}

	failures := errors.NewMultipleErrors()
	for _, file := range files {
		if err := r.annotate(engine, file, verb); err != nil {
			failures.Add(err)
		}
	}

	return failures.ErrorOrNil()
}

// annotate runs one file through the engine. Messages raised while the
// file is processed are indented below its path.
func (r *Runner) annotate(engine *annotator.ControllerAnnotator, file, verb string) error {
	r.diagnostics.Verbose("%s", r.displayPath(file))
	r.diagnostics.Indent()
	result, err := engine.Annotate(file)
	for _, rejected := range result.Rejected {
		r.diagnostics.Debug("%v", rejected)
	}
	r.diagnostics.Unindent()

	if err != nil {
		r.summary.FilesFailed++
		r.diagnostics.Error("%s: %v", r.displayPath(file), err)
		return err
	}

	if result.Skipped {
		r.summary.FilesSkipped++
		return nil
	}

	if result.Applied > 0 {
		r.summary.FilesAnnotated++
		r.summary.AnnotationsTotal += result.Applied
		r.summary.ChangedFiles = append(r.summary.ChangedFiles, file)
		if !r.diagnostics.IsVerbose() {
			r.diagnostics.Line("%s", r.displayPath(file))
		}
		r.diagnostics.FileResult(result.Applied, verb)
	}
	return nil
}

func (r *Runner) newAnnotator(index *project.Index) (*annotator.ControllerAnnotator, error) {
	resolver, err := entity.NewResolver(index.Tables, r.config.Plugin, r.config.CacheSize)
	if err != nil {
		return nil, errors.Wrap(errors.ConfigurationErrorCode, "failed to create entity resolver", err)
	}

	intro := introspect.New(index.Classes, index.Tables, r.diagnostics, r.config.IntrospectConfig())
	writer := annotations.NewWriter(r.reader, annotations.WriterOptions{
		Remove: r.config.Remove,
		DryRun: r.config.DryRun,
	})

	return annotator.NewControllerAnnotator(r.config.Plugin, r.reader, writer, intro, resolver), nil
}

// displayPath shortens path relative to the application root when possible
func (r *Runner) displayPath(path string) string {
	root, err := filepath.Abs(r.config.AppRoot)
	if err != nil {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || filepath.IsAbs(rel) || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
		return path
	}
	return rel
}
