package main

import (
	stderrors "errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toyz/idehint/internal/cli"
	"github.com/toyz/idehint/internal/config"
	"github.com/toyz/idehint/internal/errors"
	"github.com/toyz/idehint/internal/utils"
)

type controllersOptions struct {
	*rootOptions
	remove bool
	dryRun bool
}

func newControllersCmd(root *rootOptions) *cobra.Command {
	opts := &controllersOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "controllers [paths...]",
		Short: "Annotate controller classes with model, component and paginate hints",
		Long: `Annotate controller classes with @property hints for their table models and
components and an @method hint for paginate().

Without paths the application's src/Controller directory is processed, or
plugins/<Plugin>/src/Controller when --plugin is given. Paths may be files or
directories; a trailing "/..." is accepted.

Examples:
  idehint controllers
  idehint controllers --plugin Blog
  idehint controllers --dry-run -v src/Controller/Admin
  idehint controllers --remove src/Controller/ArticlesController.php`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runControllers(cmd, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.remove, "remove", false, "Remove the generated annotations instead of adding them")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Report what would change without writing files")
	return cmd
}

func runControllers(cmd *cobra.Command, opts *controllersOptions, args []string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		newReporter(false, out, errOut).ReportError(err)
		return &exitError{code: exitSetupFailed, err: err}
	}

	diagnostics := newDiagnostics(cfg.DiagnosticLevel(), out, errOut)
	reporter := newReporter(cfg.Verbose, out, errOut)

	diagnostics.Section("idehint controllers")
	if cfg.Verbose {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Application root: %s", cfg.AppRoot)
		if cfg.Plugin != "" {
			diagnostics.List("Plugin: %s", cfg.Plugin)
		}
		if len(args) > 0 {
			diagnostics.List("Paths: %s", strings.Join(args, ", "))
		} else {
			diagnostics.List("Paths: %s", cfg.ControllerPath())
		}
		if cfg.Manifest != "" {
			diagnostics.List("Manifest: %s", cfg.ManifestPath())
		}
		if cfg.Remove {
			diagnostics.List("Mode: remove")
		}
		if cfg.DryRun {
			diagnostics.List("Dry run: enabled")
		}
		diagnostics.Line("")
	}

	runner := cli.NewRunner(cfg, diagnostics)
	err = runner.Run(args)

	var failures *errors.MultipleErrors
	if err != nil && !stderrors.As(err, &failures) {
		reporter.ReportError(err)
		return &exitError{code: exitSetupFailed, err: err}
	}

	keys, stats := runner.Summary().Stats(cfg.Verbose)
	title := "Annotation run complete"
	if cfg.DryRun {
		title += " (dry run, no files written)"
	}
	diagnostics.Summary(title, keys, stats)

	if failures != nil {
		reporter.ReportError(failures)
		return &exitError{code: exitFileFailed, err: failures}
	}
	return nil
}

// loadConfig reads the configuration and applies the flags that were set
func loadConfig(cmd *cobra.Command, opts *controllersOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile, opts.appRoot)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("app-root") {
		cfg.AppRoot = opts.appRoot
	}
	if flags.Changed("plugin") {
		cfg.Plugin = opts.plugin
	}
	if flags.Changed("manifest") {
		cfg.Manifest = opts.manifest
	}
	if flags.Changed("verbose") {
		cfg.Verbose = opts.verbose
	}
	if flags.Changed("quiet") {
		cfg.Quiet = opts.quiet
	}
	if flags.Changed("remove") {
		cfg.Remove = opts.remove
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = opts.dryRun
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newDiagnostics uses the colored terminal system when writing to the
// process streams
func newDiagnostics(level utils.DiagnosticLevel, out, errOut io.Writer) *utils.DiagnosticSystem {
	if out == os.Stdout && errOut == os.Stderr {
		return utils.NewDiagnosticSystem(level)
	}
	return utils.NewDiagnosticSystemWithWriters(level, out, errOut)
}

func newReporter(verbose bool, out, errOut io.Writer) *cli.DiagnosticReporter {
	if out == os.Stdout && errOut == os.Stderr {
		return cli.NewDiagnosticReporter(verbose)
	}
	return cli.NewDiagnosticReporterWithWriters(verbose, out, errOut)
}
