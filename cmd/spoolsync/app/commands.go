package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/petrlinhart/spoolman-to-prusaslicer/cmd/spoolsync/cmd/importer"
	"github.com/petrlinhart/spoolman-to-prusaslicer/cmd/spoolsync/cmd/inspect"
	"github.com/petrlinhart/spoolman-to-prusaslicer/cmd/spoolsync/cmd/sync"
	"github.com/petrlinhart/spoolman-to-prusaslicer/cmd/spoolsync/cmd/tables"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/constants"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(sync.NewCommand(a))
	rootCmd.AddCommand(sync.NewPlanCommand(a))

	// Management commands
	rootCmd.AddCommand(importer.NewCommand(a))
	rootCmd.AddCommand(tables.NewCommand(a))
	rootCmd.AddCommand(inspect.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.NewVersionCommand())
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s version %s\n", constants.AppName, a.version)
			fmt.Fprintf(w, "commit: %s\n", a.commit)
			fmt.Fprintf(w, "built: %s\n", a.date)
			fmt.Fprintf(w, "built by: %s\n", a.builtBy)
			fmt.Fprintf(w, "go version: %s\n", runtime.Version())
			fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
