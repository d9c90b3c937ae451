// Package reconciler keeps a directory of PrusaSlicer filament profiles in
// step with the active spools in Spoolman. A run builds the desired set of
// profiles, observes the directory, diffs the two into a plan and applies it.
package reconciler

import (
	"context"
	"time"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/errors"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/logging"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/spoolman"
)

// Inventory supplies the spools to sync.
type Inventory interface {
	Spools(ctx context.Context) ([]spoolman.Spool, error)
}

// Reconciler syncs one output directory.
type Reconciler interface {
	// Plan fetches the inventory and computes changes without applying them.
	Plan(ctx context.Context) (*Result, error)
	// Run fetches the inventory and applies the changes. The returned error
	// is non-nil only when the run could not start; per-item failures are
	// reported through Result.Err.
	Run(ctx context.Context) (*Result, error)
}

type reconciler struct {
	inventory Inventory
	dir       string
	opts      *options
}

// New creates a Reconciler writing profiles to dir.
func New(inventory Inventory, dir string, opts ...Option) (Reconciler, error) {
	if inventory == nil {
		return nil, &errors.ValidationError{Field: "inventory", Message: "cannot be nil"}
	}
	if dir == "" {
		return nil, &errors.ValidationError{Field: "output_dir", Message: "cannot be empty"}
	}

	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{inventory: inventory, dir: dir, opts: o}, nil
}

// Plan implements Reconciler.
func (r *reconciler) Plan(ctx context.Context) (*Result, error) {
	return r.run(ctx, true)
}

// Run implements Reconciler.
func (r *reconciler) Run(ctx context.Context) (*Result, error) {
	return r.run(ctx, r.opts.dryRun)
}

func (r *reconciler) run(ctx context.Context, dryRun bool) (*Result, error) {
	ctx = logging.WithOperation(ctx, "sync")
	logger := logging.FromContext(ctx)

	result := &Result{
		RunID:     logging.RunID(ctx),
		Dir:       r.dir,
		DryRun:    dryRun,
		StartTime: time.Now(),
	}

	// Nothing is touched until the inventory has been fetched.
	spools, err := r.inventory.Spools(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug().Int("spools", len(spools)).Msg("Fetched inventory")

	desired := BuildDesired(spools, r.opts.engine)
	for _, w := range desired.Warnings {
		logger.Warn().Msg(w)
	}
	for _, f := range desired.Failures {
		logging.FromContext(logging.WithSpool(ctx, f.SpoolID)).Error().Err(f.Err).Msg("Failed to render profile")
	}

	observed, err := observe(r.dir, !dryRun)
	if err != nil {
		return nil, err
	}

	var diffOpts []DiffOption
	if r.opts.strict {
		diffOpts = append(diffOpts, StrictDeletion())
	}
	plan := Diff(desired, observed, diffOpts...)

	result.Plan = plan
	result.Failures = desired.Failures
	result.Warnings = desired.Warnings
	result.Outcomes = Apply(ctx, plan, r.dir, ApplyOptions{DryRun: dryRun, Now: r.opts.now})
	result.Duration = time.Since(result.StartTime)

	lines := result.Lines()
	for _, line := range lines[:len(lines)-1] {
		logger.Debug().Msg(line)
	}
	logger.Info().Dur("duration", result.Duration).Msg(result.Summary())
	return result, nil
}
