// Package app provides the application context and dependency management
// for the spoolsync CLI. It centralizes configuration, logging and the
// lazily created Spoolman client and inference engine.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/petrlinhart/spoolman-to-prusaslicer/internal/appcontext"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/errors"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/infer"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/spoolman"
)

// App represents the spoolsync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Lazy-initialized, guarded by mu
	mu     sync.Mutex
	client *spoolman.Client
	engine *infer.Engine
}

var _ appcontext.Interface = (*App)(nil)

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment and the default config
// file locations unless WithConfig is given.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.config == nil {
		config, err := LoadConfig("")
		if err != nil {
			return nil, errors.WrapResource("load", "config", "", err)
		}
		app.config = config
	}

	if app.logger == nil {
		logger := NewLogger(app.config)
		app.logger = &logger
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the --format value, empty for auto-detection.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// OutputDir returns the profile directory.
func (a *App) OutputDir() string {
	return a.config.OutputDir
}

// StrictDeletion reports whether strict deletion is configured.
func (a *App) StrictDeletion() bool {
	return a.config.StrictDeletion
}

// BundleFile returns the configured config bundle path.
func (a *App) BundleFile() string {
	return a.config.BundleFile
}

// Spoolman returns the Spoolman client, creating it on first use.
func (a *App) Spoolman() (*spoolman.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	opts := []spoolman.Option{spoolman.WithTimeout(a.config.HTTPTimeout)}
	if a.config.APIToken != "" {
		opts = append(opts, spoolman.WithToken(a.config.APIToken, a.config.APITokenHeader))
	}
	client, err := spoolman.NewClient(a.config.SpoolmanURL, opts...)
	if err != nil {
		return nil, err
	}

	a.client = client
	return client, nil
}

// Engine returns the inference engine, loading the tables file on first use.
func (a *App) Engine() (*infer.Engine, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.engine != nil {
		return a.engine, nil
	}

	tables := infer.DefaultTables()
	if a.config.TablesFile != "" {
		loaded, err := infer.LoadTables(a.config.TablesFile)
		if err != nil {
			return nil, err
		}
		tables = loaded
		a.logger.Debug().Str("file", a.config.TablesFile).Msg("Loaded material tables")
	}

	a.engine = infer.New(tables)
	return a.engine, nil
}

// Shutdown releases application resources. It is safe to call more than once.
func (a *App) Shutdown(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.client = nil
	a.engine = nil
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewConfigError("app", "config cannot be nil", nil)
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithEngine sets the inference engine (useful for testing).
func WithEngine(engine *infer.Engine) Option {
	return func(a *App) error {
		a.engine = engine
		return nil
	}
}
