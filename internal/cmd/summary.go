package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opmodel/repo-summary/internal/config"
	oerrors "github.com/opmodel/repo-summary/internal/errors"
	"github.com/opmodel/repo-summary/internal/output"
	"github.com/opmodel/repo-summary/internal/summary"
)

// initializeGlobals sets up logging and resolves the presentation settings.
func initializeGlobals(cmd *cobra.Command, flags *rootFlags) (*config.Settings, error) {
	logCfg := output.LogConfig{
		Verbose: flags.verbose,
		Writer:  cmd.ErrOrStderr(),
	}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(flags.timestamps)
	}
	output.SetupLogging(logCfg)

	configPath, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{FlagValue: flags.config})
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	loader := config.NewLoader()
	fileCfg, err := loader.Load(configPath.Value)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	envCfg, err := loader.LoadFromEnvOnly()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	settings, values, err := config.ResolveSettings(flags.settingsFlags(cmd), envCfg, fileCfg)
	config.LogResolvedValues(append([]config.ResolvedValue{configPath}, values...))
	if err != nil {
		return nil, oerrors.NewUsageError(err.Error())
	}

	// Reconfigure now that the config file may have set log.timestamps.
	logCfg.Timestamps = output.BoolPtr(settings.Timestamps)
	output.SetupLogging(logCfg)

	return settings, nil
}

func runSummary(cmd *cobra.Command, flags *rootFlags, args []string) error {
	settings, err := initializeGlobals(cmd, flags)
	if err != nil {
		return err
	}

	opts := summary.Options{}
	if len(args) == 2 {
		opts.Branch = &args[1]
	}

	path := summary.Path(args[0])
	data, err := os.ReadFile(path)
	if err != nil {
		return oerrors.NewIOError(path, err)
	}
	output.Debug("summary file read", "path", path, "bytes", len(data))

	doc, err := summary.Parse(data)
	if err != nil {
		return formatFailure(path, err)
	}
	if n, err := doc.NumRefs(); err == nil {
		output.Debug("summary parsed", "refs", n)
	}

	out := cmd.OutOrStdout()
	renderer := &output.Renderer{
		Out:       out,
		Format:    settings.Output,
		Units:     settings.SizeUnits,
		Color:     settings.Color.Enabled(out),
		Canonical: flags.canonical,
	}

	switch {
	case flags.dump:
		if err := renderer.Dump(doc.Root()); err != nil {
			return formatFailure(path, err)
		}
		return nil

	case flags.refs:
		refs, err := summary.ListRefs(doc, opts)
		if err != nil {
			return formatFailure(path, err)
		}
		output.Debug("refs listed", "entries", len(refs))
		return renderer.Refs(refs, opts.Branch != nil)

	default:
		report, err := summary.Summarize(doc, opts)
		if err != nil {
			return formatFailure(path, err)
		}
		output.Debug("report built", "entries", len(report.Refs), "cache", report.HasCache)
		return renderer.Report(report)
	}
}

// formatFailure reports a summary that could not be decoded.
func formatFailure(path string, err error) error {
	return NewExitError(oerrors.NewFormatError(path, err), ExitFormatError)
}
