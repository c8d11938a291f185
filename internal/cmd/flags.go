package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/opmodel/repo-summary/internal/config"
	"github.com/opmodel/repo-summary/internal/output"
)

// rootFlags holds the raw command-line values.
type rootFlags struct {
	config     string
	output     string
	sizeUnits  string
	color      string
	canonical  bool
	refs       bool
	dump       bool
	verbose    bool
	timestamps bool
}

func (f *rootFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.config, "config", "", "Path to config file (env: "+config.EnvConfig+")")
	fs.StringVarP(&f.output, "output", "o", string(output.FormatText),
		"Output format: "+strings.Join(output.ValidFormats(), ", ")+" (env: "+config.EnvOutput+")")
	fs.StringVar(&f.sizeUnits, "size-units", string(output.UnitsSI),
		"Byte size units: si or iec (env: "+config.EnvSizeUnits+")")
	fs.StringVar(&f.color, "color", string(output.ColorAuto),
		"Colorize output: auto, always, never (env: "+config.EnvColor+")")
	fs.BoolVar(&f.canonical, "canonical", false, "Emit RFC 8785 canonical JSON (with -o json)")
	fs.BoolVar(&f.refs, "refs", false, "List the commit refs instead of the cached sizes")
	fs.BoolVar(&f.dump, "dump", false, "Print the whole summary in GVariant text form")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Enable verbose output")
	fs.BoolVar(&f.timestamps, "timestamps", true, "Show timestamps in log output")
}

// settingsFlags reports which presentation flags were given explicitly.
func (f *rootFlags) settingsFlags(cmd *cobra.Command) config.Flags {
	changed := cmd.Flags().Changed
	return config.Flags{
		Output:        f.output,
		OutputSet:     changed("output"),
		SizeUnits:     f.sizeUnits,
		SizeUnitsSet:  changed("size-units"),
		Color:         f.color,
		ColorSet:      changed("color"),
		Timestamps:    f.timestamps,
		TimestampsSet: changed("timestamps"),
	}
}
