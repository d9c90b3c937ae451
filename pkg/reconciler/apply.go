package reconciler

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/constants"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/errors"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/logging"
)

// ApplyOptions controls Apply.
type ApplyOptions struct {
	DryRun bool
	// Now stamps the generated header; defaults to time.Now.
	Now func() time.Time
}

// Outcome is the result of applying one change.
type Outcome struct {
	Change
	Err error `json:"-" yaml:"-"`
}

// Apply carries out the plan in dir. Every item is attempted; a failed
// write or delete is recorded on its Outcome and the remaining items still
// run. In dry-run mode nothing is written.
func Apply(ctx context.Context, plan Plan, dir string, opts ApplyOptions) []Outcome {
	logger := logging.FromContext(ctx)
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	outcomes := make([]Outcome, 0, len(plan.Changes))
	for _, change := range plan.Changes {
		outcome := Outcome{Change: change}

		if opts.DryRun || !change.Mutates() {
			outcomes = append(outcomes, outcome)
			continue
		}
		if err := ctx.Err(); err != nil {
			outcome.Err = errors.WrapResource(string(change.Type), "profile", change.Filename, errors.WrapContext(err))
			outcomes = append(outcomes, outcome)
			continue
		}

		path := filepath.Join(dir, change.Filename)
		switch change.Type {
		case ChangeCreate, ChangeUpdate:
			outcome.Err = writeFileAtomic(path, change.Document.Bytes(now()))
		case ChangeDelete:
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				outcome.Err = errors.WrapIO("delete", path, err)
			}
		}

		if outcome.Err != nil {
			logger.Error().Err(outcome.Err).
				Str("file", change.Filename).
				Str("change", string(change.Type)).
				Msg("Failed to apply change")
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// writeFileAtomic replaces path with data via a temporary file in the same
// directory, so readers never see a partially written profile.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".spoolsync-*.tmp")
	if err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.WrapIO("write", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.WrapIO("write", tmpName, err)
	}
	if err := os.Chmod(tmpName, constants.FilePermissions); err != nil {
		cleanup()
		return errors.WrapIO("write", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return errors.WrapIO("rename", path, err)
	}
	return nil
}
