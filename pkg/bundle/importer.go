package bundle

import (
	"context"
	"fmt"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/errors"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/logging"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/normalize"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/spoolman"
)

// Service is the part of the Spoolman API the importer uses.
type Service interface {
	Vendors(ctx context.Context) ([]spoolman.Vendor, error)
	Filaments(ctx context.Context) ([]spoolman.Filament, error)
	CreateVendor(ctx context.Context, name string) (*spoolman.Vendor, error)
	CreateFilament(ctx context.Context, payload spoolman.FilamentPayload) (*spoolman.Filament, error)
	UpdateFilament(ctx context.Context, id int, payload spoolman.FilamentPayload) (*spoolman.Filament, error)
}

// Action is what the importer did with one preset.
type Action string

const (
	// ActionCreated means a new filament was created.
	ActionCreated Action = "created"
	// ActionUpdated means an existing filament with the same name was patched.
	ActionUpdated Action = "updated"
	// ActionFailed means the preset could not be imported.
	ActionFailed Action = "failed"
)

// Outcome is the result of importing one preset.
type Outcome struct {
	Preset        string `json:"preset" yaml:"preset"`
	Vendor        string `json:"vendor" yaml:"vendor"`
	Action        Action `json:"action" yaml:"action"`
	VendorCreated bool   `json:"vendor_created,omitempty" yaml:"vendor_created,omitempty"`
	Err           error  `json:"-" yaml:"-"`
}

// Result summarizes an import run.
type Result struct {
	DryRun   bool
	Outcomes []Outcome
	Skipped  []Skip
	Warnings []string
}

// Importer pushes bundle presets to Spoolman.
type Importer struct {
	service Service
	bundle  *Bundle
	dryRun  bool
}

// ImportOption configures an Importer.
type ImportOption func(*Importer)

// WithDryRun reports what would be imported without writing to Spoolman.
func WithDryRun(enabled bool) ImportOption {
	return func(i *Importer) { i.dryRun = enabled }
}

// NewImporter creates an importer for the presets in b.
func NewImporter(service Service, b *Bundle, opts ...ImportOption) *Importer {
	if b == nil {
		b = &Bundle{}
	}
	i := &Importer{service: service, bundle: b}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run loads existing vendors and filaments, then creates missing vendors
// and creates or updates one filament per preset. Failing to load existing
// data aborts the run; a failure on one preset does not.
func (i *Importer) Run(ctx context.Context) (*Result, error) {
	ctx = logging.WithOperation(ctx, "import")
	logger := logging.FromContext(ctx)

	vendors, err := i.service.Vendors(ctx)
	if err != nil {
		return nil, errors.WrapResource("fetch", "vendor", "", err)
	}
	filaments, err := i.service.Filaments(ctx)
	if err != nil {
		return nil, errors.WrapResource("fetch", "filament", "", err)
	}

	vendorIDs := make(map[string]int, len(vendors))
	for _, v := range vendors {
		vendorIDs[spoolman.NormalizeKey(v.Name)] = v.ID
	}
	filamentIDs := make(map[string]int, len(filaments))
	for _, f := range filaments {
		filamentIDs[spoolman.NormalizeKey(f.Name)] = f.ID
	}

	result := &Result{DryRun: i.dryRun, Skipped: i.bundle.Skipped}
	for _, s := range i.bundle.Skipped {
		logger.Warn().Str("section", s.Section).Str("reason", s.Reason).Msg("Skipping preset")
	}

	for _, preset := range i.bundle.Presets {
		for _, w := range preset.Warnings {
			logger.Warn().Msg(w)
			result.Warnings = append(result.Warnings, w)
		}

		outcome := i.importPreset(ctx, preset, vendorIDs, filamentIDs)
		if outcome.Err != nil {
			logger.Error().Err(outcome.Err).Str("preset", preset.Name).Msg("Failed to import preset")
		} else {
			logger.Debug().Str("preset", preset.Name).Str("action", string(outcome.Action)).Msg("Imported preset")
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	logger.Info().Msg(result.Summary())
	return result, nil
}

func (i *Importer) importPreset(ctx context.Context, p Preset, vendorIDs, filamentIDs map[string]int) Outcome {
	outcome := Outcome{Preset: p.Name, Vendor: p.Vendor}

	vkey := spoolman.NormalizeKey(p.Vendor)
	vendorID, ok := vendorIDs[vkey]
	if !ok {
		outcome.VendorCreated = true
		if !i.dryRun {
			created, err := i.service.CreateVendor(ctx, p.Vendor)
			if err != nil {
				outcome.Action, outcome.Err = ActionFailed, err
				return outcome
			}
			vendorID = created.ID
		}
		vendorIDs[vkey] = vendorID
	}

	payload := p.Payload(vendorID)
	fkey := spoolman.NormalizeKey(p.Name)

	if id, exists := filamentIDs[fkey]; exists {
		outcome.Action = ActionUpdated
		if i.dryRun {
			return outcome
		}
		_, err := i.service.UpdateFilament(ctx, id, payload)
		if err == nil {
			return outcome
		}
		if !errors.IsNotFound(err) {
			outcome.Action, outcome.Err = ActionFailed, err
			return outcome
		}
		// Removed since the filament list was loaded.
		logging.FromContext(ctx).Warn().Int("filament_id", id).Str("preset", p.Name).
			Msg("Filament no longer exists, creating it again")
		delete(filamentIDs, fkey)
	}

	// Spoolman requires diameter and density on create.
	if payload.Diameter == nil {
		d := normalize.DefaultDiameter
		payload.Diameter = &d
	}
	if payload.Density == nil {
		d := normalize.DefaultDensity
		payload.Density = &d
	}

	outcome.Action = ActionCreated
	if !i.dryRun {
		created, err := i.service.CreateFilament(ctx, payload)
		if err != nil {
			outcome.Action, outcome.Err = ActionFailed, err
			return outcome
		}
		filamentIDs[fkey] = created.ID
	} else {
		filamentIDs[fkey] = 0
	}
	return outcome
}

// Counts returns how many presets were created, updated or failed.
func (r *Result) Counts() (created, updated, failed int) {
	for _, o := range r.Outcomes {
		switch o.Action {
		case ActionCreated:
			created++
		case ActionUpdated:
			updated++
		case ActionFailed:
			failed++
		}
	}
	return created, updated, failed
}

// Lines returns one line per preset followed by a completion line.
func (r *Result) Lines() []string {
	lines := make([]string, 0, len(r.Outcomes)+len(r.Skipped)+1)
	for _, s := range r.Skipped {
		lines = append(lines, fmt.Sprintf("Skipped: %s (%s)", s.Section, s.Reason))
	}
	for _, o := range r.Outcomes {
		switch {
		case o.Err != nil:
			lines = append(lines, fmt.Sprintf("Failed: %s: %v", o.Preset, o.Err))
		default:
			verb := map[Action]string{ActionCreated: "Created", ActionUpdated: "Updated"}[o.Action]
			if r.DryRun {
				verb = map[Action]string{ActionCreated: "Would create", ActionUpdated: "Would update"}[o.Action]
			}
			line := verb + ": " + o.Preset
			if o.VendorCreated {
				line += " (new vendor " + o.Vendor + ")"
			}
			lines = append(lines, line)
		}
	}
	return append(lines, r.Summary())
}

// Summary returns the completion line.
func (r *Result) Summary() string {
	created, updated, failed := r.Counts()
	prefix := "Import complete"
	if r.DryRun {
		prefix = "Dry run complete"
	}
	return fmt.Sprintf("%s: %d created, %d updated, %d skipped, %d failed",
		prefix, created, updated, len(r.Skipped), failed)
}

// Err returns a *errors.SyncError listing failed presets, or nil.
func (r *Result) Err() error {
	var (
		items []string
		errs  []error
	)
	for _, o := range r.Outcomes {
		if o.Err != nil {
			items = append(items, o.Preset)
			errs = append(errs, o.Err)
		}
	}
	if len(items) == 0 {
		return nil
	}
	return errors.NewSyncError("import", items, errs)
}
