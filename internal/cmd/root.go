package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	oerrors "github.com/opmodel/repo-summary/internal/errors"
	"github.com/opmodel/repo-summary/internal/output"
	"github.com/opmodel/repo-summary/internal/version"
)

const usageLine = "Usage: repo-summary REPO [BRANCH]"

// errArity marks usage errors caused by a wrong number of arguments.
var errArity = errors.New("wrong number of arguments")

// NewRootCmd creates the repo-summary command. Reports, the usage line and
// error messages go to stdout; logs go to stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "repo-summary REPO [BRANCH]",
		Short: "Show the contents of a Flatpak repository summary",
		Long: `repo-summary decodes the summary file of an OSTree/Flatpak repository.

Without BRANCH it prints the repository title, default branch, the number of
branches and the installed and download size of every branch. With BRANCH it
prints only that branch, followed by its metadata.`,
		Version:       version.Get().String(),
		Args:          validateArgs(flags),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, flags, args)
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return oerrors.NewUsageError(err.Error())
	})

	flags.register(rootCmd)

	return rootCmd
}

// validateArgs runs before any file is touched.
func validateArgs(flags *rootFlags) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < 1 || len(args) > 2 {
			return &oerrors.DetailError{
				Type:    "invalid usage",
				Message: fmt.Sprintf("accepts 1 or 2 arguments, received %d", len(args)),
				Cause:   fmt.Errorf("%w: %w", oerrors.ErrUsage, errArity),
			}
		}
		if flags.refs && flags.dump {
			return oerrors.NewUsageError("--refs and --dump cannot be combined")
		}
		return nil
	}
}

// Run executes repo-summary with args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}

	rootCmd := NewRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, oerrors.ErrUsage) {
		if !errors.Is(err, errArity) {
			fmt.Fprintf(stdout, "Error: %s\n", err)
		}
		fmt.Fprintln(stdout, usageLine)
		return ExitCodeFromError(err)
	}

	fmt.Fprintf(stdout, "Error: %s\n", err)

	var detail *oerrors.DetailError
	if errors.As(err, &detail) {
		output.Debug("command failed", "type", detail.Type, "detail", detail.Detail())
	}

	return ExitCodeFromError(err)
}
