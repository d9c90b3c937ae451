// Package importer provides the import command, which pushes the user
// filament presets of a PrusaSlicer config bundle to Spoolman.
package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/petrlinhart/spoolman-to-prusaslicer/internal/appcontext"
	"github.com/petrlinhart/spoolman-to-prusaslicer/internal/cmd/output"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/bundle"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/logging"
)

// Flags holds import flags.
type Flags struct {
	File   string
	DryRun bool
}

// NewCommand creates the import command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "import [bundle]",
		GroupID: "management",
		Short:   "Import filament presets from a PrusaSlicer config bundle",
		Args:    cobra.MaximumNArgs(1),
		Long: `Import reads the [filament:...] sections of a PrusaSlicer config bundle
and creates or updates one Spoolman filament per preset, creating missing
vendors on the way. Filaments are matched by name, ignoring case.

Presets generated by this tool (SM_ or spoolman_ prefixes) and presets
without filament_vendor or filament_type are skipped.`,
		Example: `  spoolsync import                              # Import the configured bundle
  spoolsync import ~/PrusaSlicer_config_bundle.ini
  spoolsync import --dry-run -o wide`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.File = args[0]
			}
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&flags.File, "file", "f", "", "config bundle to read (overrides bundle_file)")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "show what would be imported without writing to Spoolman")

	return cmd
}

// Execute parses the bundle, runs the import and writes the report to w.
func Execute(ctx context.Context, app appcontext.Interface, flags *Flags, w io.Writer) error {
	ctx = logging.WithLogger(ctx, app.Logger())
	ctx = logging.WithRunID(ctx, uuid.NewString())

	path := flags.File
	if path == "" {
		path = app.BundleFile()
	}
	b, err := bundle.ParseFile(path)
	if err != nil {
		return err
	}

	client, err := app.Spoolman()
	if err != nil {
		return err
	}

	result, err := bundle.NewImporter(client, b, bundle.WithDryRun(flags.DryRun)).Run(ctx)
	if err != nil {
		return err
	}

	format := output.DetectFormat(app.OutputFormat())
	report := output.NewImportReport(result)
	if err := output.Write(w, format, report); err != nil {
		return err
	}
	if format == output.FormatTable || format == output.FormatWide {
		if _, err := fmt.Fprintln(w, report.Summary); err != nil {
			return err
		}
	}
	return result.Err()
}
