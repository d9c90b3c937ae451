package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/infer"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/spoolman"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
type Mock struct {
	SpoolmanFunc       func() (*spoolman.Client, error)
	EngineFunc         func() (*infer.Engine, error)
	OutputDirFunc      func() string
	StrictDeletionFunc func() bool
	BundleFileFunc     func() string
	LoggerFunc         func() *zerolog.Logger
	OutputFormatFunc   func() string
	VersionFunc        func() string
	CommitFunc         func() string
	DateFunc           func() string
	BuiltByFunc        func() string
}

// Spoolman returns a client using the mock function or nil.
func (m *Mock) Spoolman() (*spoolman.Client, error) {
	if m.SpoolmanFunc != nil {
		return m.SpoolmanFunc()
	}
	return nil, nil
}

// Engine returns the mock engine or one built from the default tables.
func (m *Mock) Engine() (*infer.Engine, error) {
	if m.EngineFunc != nil {
		return m.EngineFunc()
	}
	return infer.New(infer.DefaultTables()), nil
}

// OutputDir returns the mock output directory or an empty string.
func (m *Mock) OutputDir() string {
	if m.OutputDirFunc != nil {
		return m.OutputDirFunc()
	}
	return ""
}

// StrictDeletion returns the mock setting or false.
func (m *Mock) StrictDeletion() bool {
	if m.StrictDeletionFunc != nil {
		return m.StrictDeletionFunc()
	}
	return false
}

// BundleFile returns the mock bundle path or an empty string.
func (m *Mock) BundleFile() string {
	if m.BundleFileFunc != nil {
		return m.BundleFileFunc()
	}
	return ""
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the mock format or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns a version string using the mock function or "test".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "test"
}

// Commit returns a commit hash using the mock function or "test".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "test"
}

// Date returns a build date using the mock function or "test".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "test"
}

// BuiltBy returns a build system identifier using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

var _ Interface = (*Mock)(nil)
