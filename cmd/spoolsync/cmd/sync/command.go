// Package sync provides the sync and plan commands.
package sync

import (
	"github.com/spf13/cobra"

	"github.com/petrlinhart/spoolman-to-prusaslicer/internal/appcontext"
)

// Flags holds the flags shared by sync and plan.
type Flags struct {
	DryRun         bool
	StrictDeletion bool
	OutputDir      string
}

// NewCommand creates the sync command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "core",
		Short:   "Write PrusaSlicer filament profiles for active spools",
		Args:    cobra.NoArgs,
		Long: `Sync fetches every spool from Spoolman and keeps one PrusaSlicer filament
profile per active spool in the output directory.

Only files named SM_*.ini are managed. Profiles are created for new spools,
rewritten when their content changes, and deleted when their spool is
archived or removed. A profile whose spool failed to render this run is
kept unless --strict-deletion is set.

Per-item failures are reported and the command exits non-zero after
printing the summary.`,
		Example: `  spoolsync sync                                # Sync to the configured directory
  spoolsync sync --dry-run                      # Show what would change
  spoolsync sync -d ./filament -o json          # Sync elsewhere, JSON report`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	addFlags(cmd, flags)
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "compute and print changes without writing")

	return cmd
}

// NewPlanCommand creates the plan command: a sync that never writes.
func NewPlanCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "plan",
		GroupID: "core",
		Short:   "Show the changes a sync would make",
		Args:    cobra.NoArgs,
		Example: `  spoolsync plan
  spoolsync plan -o wide`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags.DryRun = true
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	addFlags(cmd, flags)

	return cmd
}

func addFlags(cmd *cobra.Command, flags *Flags) {
	cmd.Flags().StringVarP(&flags.OutputDir, "output-dir", "d", "", "profile directory (overrides output_dir)")
	cmd.Flags().BoolVar(&flags.StrictDeletion, "strict-deletion", false, "delete profiles of spools that failed to render")
}
