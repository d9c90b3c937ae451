// Package appcontext provides the shared application context interface
// used by all commands. Commands depend on this interface rather than the
// concrete App so they can be tested with a Mock.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/infer"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/spoolman"
)

// Interface defines the application context interface that commands need.
// The App struct from cmd/spoolsync/app implements it.
type Interface interface {
	// Spoolman returns the inventory client, creating it lazily from the
	// configured URL, timeout and token.
	Spoolman() (*spoolman.Client, error)

	// Engine returns the inference engine built from the built-in material
	// tables overlaid with the configured tables file, if any.
	Engine() (*infer.Engine, error)

	// OutputDir is the PrusaSlicer filament profile directory.
	OutputDir() string

	// StrictDeletion reports whether profiles of spools that failed to
	// render are deleted instead of kept.
	StrictDeletion() bool

	// BundleFile is the default config bundle for the import command.
	BundleFile() string

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
