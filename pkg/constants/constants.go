// Package constants provides shared constants used throughout the spoolsync codebase.
// This includes timeouts, file permissions, and the naming rules for managed
// profile files that must stay consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout bounds every request to the Spoolman API
	DefaultHTTPTimeout = 10 * time.Second

	// ShutdownTimeout is how long main waits for cleanup after a failed command
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Managed profile naming
const (
	// ProfilePrefix marks filament profiles owned by spoolsync. Files without it are never touched.
	ProfilePrefix = "SM_"

	// ProfileExtension is the extension of PrusaSlicer filament profiles
	ProfileExtension = ".ini"

	// DefaultVendor is used when a filament carries no vendor
	DefaultVendor = "SM"

	// BaseProfileVendor is the vendor whose system profiles generated files inherit from
	BaseProfileVendor = "Prusament"
)

// Spoolman defaults
const (
	// DefaultSpoolmanURL is the API base used when none is configured
	DefaultSpoolmanURL = "http://localhost:7912/api/v1"

	// DefaultBundleFile is the config bundle read by the import command
	DefaultBundleFile = "PrusaSlicer_config_bundle.ini"
)

// Application metadata
const (
	// AppName is the application name
	AppName = "spoolsync"

	// ConfigFileName is the base name of the optional config file in $HOME or the working directory
	ConfigFileName = ".spoolsync"
)
