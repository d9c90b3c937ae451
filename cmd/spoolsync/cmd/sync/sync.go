package sync

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/petrlinhart/spoolman-to-prusaslicer/internal/appcontext"
	"github.com/petrlinhart/spoolman-to-prusaslicer/internal/cmd/output"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/errors"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/logging"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/reconciler"
)

// Execute runs one reconciliation and writes the report to w. The returned
// error is the run's aggregated item failures, if any, after the report has
// been written.
func Execute(ctx context.Context, app appcontext.Interface, flags *Flags, w io.Writer) error {
	ctx = logging.WithLogger(ctx, app.Logger())
	ctx = logging.WithRunID(ctx, uuid.NewString())

	client, err := app.Spoolman()
	if err != nil {
		return err
	}
	engine, err := app.Engine()
	if err != nil {
		return err
	}

	dir := flags.OutputDir
	if dir == "" {
		dir = app.OutputDir()
	}

	rec, err := reconciler.New(client, dir,
		reconciler.WithEngine(engine),
		reconciler.WithStrictDeletion(flags.StrictDeletion || app.StrictDeletion()),
	)
	if err != nil {
		return err
	}

	run := rec.Run
	if flags.DryRun {
		run = rec.Plan
	}
	result, err := run(ctx)
	if err != nil {
		return explain(err)
	}

	if err := printReport(w, output.DetectFormat(app.OutputFormat()), output.NewSyncReport(result)); err != nil {
		return err
	}
	return result.Err()
}

func printReport(w io.Writer, format output.Format, report output.SyncReport) error {
	if err := output.Write(w, format, report); err != nil {
		return err
	}
	if format == output.FormatTable || format == output.FormatWide {
		_, err := fmt.Fprintln(w, report.Summary)
		return err
	}
	return nil
}

// explain adds the configuration hint for fetch failures a user can fix.
func explain(err error) error {
	switch {
	case errors.IsUnauthorized(err):
		return fmt.Errorf("%w (set api_token, and api_token_header if the proxy expects another header)", err)
	case errors.IsTimeout(err):
		return fmt.Errorf("%w (raise http_timeout for a slow server)", err)
	case errors.IsCanceled(err):
		return fmt.Errorf("sync interrupted: %w", err)
	}
	return err
}
