// Package tables provides the tables command, which prints the material
// tables used for inferred print settings.
package tables

import (
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petrlinhart/spoolman-to-prusaslicer/internal/appcontext"
	"github.com/petrlinhart/spoolman-to-prusaslicer/internal/cmd/output"
)

// NewCommand creates the tables command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "tables [material...]",
		GroupID: "management",
		Short:   "Show the material tables used for inferred settings",
		Long: `Tables prints the first layer temperature offset, maximum volumetric
speed, cooling and solubility resolved for each material. The built-in
tables are overlaid with tables_file when one is configured.

Materials given as arguments are resolved even when they have no table
entry, showing the fallback values.`,
		Example: `  spoolsync tables
  spoolsync tables petg tpu -o yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Execute(app, args, cmd.OutOrStdout())
		},
	}
}

// Execute resolves the requested materials, or every known material, and
// writes them to w.
func Execute(app appcontext.Interface, materials []string, w io.Writer) error {
	engine, err := app.Engine()
	if err != nil {
		return err
	}
	t := engine.Tables()

	names := make([]string, 0, len(materials))
	for _, m := range materials {
		names = append(names, strings.ToUpper(strings.TrimSpace(m)))
	}
	if len(names) == 0 {
		names = append(t.Materials(), t.Soluble()...)
		slices.Sort(names)
		names = slices.Compact(names)
	}

	resolved := make(output.Materials, 0, len(names))
	for _, name := range names {
		resolved = append(resolved, t.Material(name))
	}
	return output.Write(w, output.DetectFormat(app.OutputFormat()), resolved)
}
