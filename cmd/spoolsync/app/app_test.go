package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/errors"
)

func testConfig(t *testing.T, url string) *Config {
	t.Helper()
	return &Config{
		SpoolmanURL: url,
		HTTPTimeout: 2 * time.Second,
		OutputDir:   t.TempDir(),
		LogOutput:   "discard",
	}
}

func newTestApp(t *testing.T, config *Config) *App {
	t.Helper()
	logger := zerolog.Nop()
	app, err := New("1.0.0", "abc123", "2026-01-01", "test", WithConfig(config), WithLogger(&logger))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return app
}

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	app := newTestApp(t, testConfig(t, "http://localhost:7912/api/v1"))

	if app.Version() != "1.0.0" {
		t.Errorf("Version() = %s, want 1.0.0", app.Version())
	}
	if app.Commit() != "abc123" {
		t.Errorf("Commit() = %s, want abc123", app.Commit())
	}
	if app.Date() != "2026-01-01" {
		t.Errorf("Date() = %s, want 2026-01-01", app.Date())
	}
	if app.BuiltBy() != "test" {
		t.Errorf("BuiltBy() = %s, want test", app.BuiltBy())
	}
	if app.Logger() == nil {
		t.Error("Logger() returned nil")
	}
	if app.Config() == nil {
		t.Error("Config() returned nil")
	}
}

// TestApp_NilConfig verifies WithConfig rejects nil.
func TestApp_NilConfig(t *testing.T) {
	_, err := New("1.0.0", "", "", "", WithConfig(nil))
	var cfgErr *errors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("New(WithConfig(nil)) error = %v, want ConfigError", err)
	}
}

// TestApp_Spoolman_Singleton verifies that Spoolman() returns the same client,
// also under concurrent access.
func TestApp_Spoolman_Singleton(t *testing.T) {
	app := newTestApp(t, testConfig(t, "http://localhost:7912/api/v1/"))

	const goroutines = 50
	var wg sync.WaitGroup
	clients := make([]any, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			c, err := app.Spoolman()
			if err != nil {
				t.Errorf("Spoolman() failed: %v", err)
				return
			}
			clients[idx] = c
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		if clients[i] != clients[0] {
			t.Fatal("Spoolman() returned different instances")
		}
	}

	c, _ := app.Spoolman()
	if c.BaseURL() != "http://localhost:7912/api/v1" {
		t.Errorf("BaseURL() = %s", c.BaseURL())
	}
}

// TestApp_Spoolman_InvalidURL verifies configuration errors surface.
func TestApp_Spoolman_InvalidURL(t *testing.T) {
	app := newTestApp(t, testConfig(t, "not a url"))
	if _, err := app.Spoolman(); err == nil {
		t.Error("Spoolman() with an invalid URL succeeded")
	}
}

// TestApp_Engine verifies the tables file is applied.
func TestApp_Engine(t *testing.T) {
	config := testConfig(t, "http://localhost:7912/api/v1")
	config.TablesFile = filepath.Join(t.TempDir(), "tables.yaml")
	if err := os.WriteFile(config.TablesFile, []byte("materials:\n  PLA:\n    max_volumetric_speed: 21\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	app := newTestApp(t, config)

	engine, err := app.Engine()
	if err != nil {
		t.Fatalf("Engine() failed: %v", err)
	}
	if got := engine.Tables().MaxVolumetricSpeed("PLA"); got != 21 {
		t.Errorf("MaxVolumetricSpeed(PLA) = %v, want 21", got)
	}

	again, _ := app.Engine()
	if again != engine {
		t.Error("Engine() returned a different instance")
	}
}

// TestApp_Engine_BadTables verifies a broken tables file is reported.
func TestApp_Engine_BadTables(t *testing.T) {
	config := testConfig(t, "http://localhost:7912/api/v1")
	config.TablesFile = filepath.Join(t.TempDir(), "missing.yaml")
	app := newTestApp(t, config)

	if _, err := app.Engine(); err == nil {
		t.Error("Engine() with a missing tables file succeeded")
	}
}

// TestApp_Shutdown verifies shutdown is idempotent.
func TestApp_Shutdown(t *testing.T) {
	app := newTestApp(t, testConfig(t, "http://localhost:7912/api/v1"))
	if _, err := app.Spoolman(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if err := app.Shutdown(context.Background()); err != nil {
			t.Errorf("Shutdown() #%d failed: %v", i+1, err)
		}
	}
}
