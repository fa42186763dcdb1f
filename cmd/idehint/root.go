package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes
const (
	exitOK          = 0
	exitSetupFailed = 1 // configuration, index or path errors; nothing was processed
	exitFileFailed  = 2 // the batch ran but at least one file failed
)

// Version is set at build time
var Version = "dev"

// exitError carries an exit code out of a cobra RunE
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// rootOptions are the flags shared by every subcommand
type rootOptions struct {
	configFile string
	appRoot    string
	plugin     string
	manifest   string
	verbose    bool
	quiet      bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "idehint",
		Short: "idehint - IDE type hints for CakePHP controllers",
		Long: `idehint infers the table models, components and pagination results a
CakePHP controller works with and writes them into the controller's class
doc block as @property and @method annotations.

Settings are read from .idehint.yml in the application root, IDEHINT_*
environment variables and a .env file. Flags override all of them.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("idehint version {{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Config file (default: <app-root>/.idehint.yml)")
	flags.StringVar(&opts.appRoot, "app-root", ".", "Application root containing src/ and plugins/")
	flags.StringVarP(&opts.plugin, "plugin", "p", "", "Annotate the controllers of this plugin")
	flags.StringVar(&opts.manifest, "manifest", "", "YAML manifest declaring classes the source scan cannot see")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Show each file and introspection warnings")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Only show errors")

	cmd.AddCommand(newControllersCmd(opts))
	return cmd
}

// execute runs the command line and maps the outcome onto an exit code
func execute(args []string) int {
	return executeWith(args, os.Stdout, os.Stderr)
}

func executeWith(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return exitOK
	}

	var exit *exitError
	if stderrors.As(err, &exit) {
		return exit.code
	}

	// flag and argument errors from cobra itself
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitSetupFailed
}
