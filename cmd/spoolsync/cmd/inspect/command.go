// Package inspect provides the inspect command, which prints the settings
// stored in a filament profile.
package inspect

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/petrlinhart/spoolman-to-prusaslicer/internal/appcontext"
	"github.com/petrlinhart/spoolman-to-prusaslicer/internal/cmd/output"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/errors"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/profile"
)

// NewCommand creates the inspect command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "inspect <profile>",
		GroupID: "management",
		Short:   "Show the settings of a filament profile",
		Long: `Inspect parses a PrusaSlicer filament profile and prints its settings in
file order. A bare file name is looked up in the output directory.`,
		Example: `  spoolsync inspect SM_Prusament_PLA_Galaxy_Black_ID42.ini
  spoolsync inspect ./filament/SM_Prusament_PLA_Galaxy_Black_ID42.ini -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Execute(app, args[0], cmd.OutOrStdout())
		},
	}
}

// Execute reads the profile at path and writes its fields to w.
func Execute(app appcontext.Interface, path string, w io.Writer) error {
	if filepath.Base(path) == path {
		if _, err := os.Stat(path); os.IsNotExist(err) && app.OutputDir() != "" {
			path = filepath.Join(app.OutputDir(), path)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapIO("read", path, err)
	}
	fields, err := profile.Inspect(raw)
	if err != nil {
		return err
	}
	return output.Write(w, output.DetectFormat(app.OutputFormat()), output.Fields(fields))
}
