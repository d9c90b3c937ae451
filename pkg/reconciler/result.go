package reconciler

import (
	"fmt"
	"time"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/errors"
)

// Result is the outcome of one sync run.
type Result struct {
	RunID    string
	Dir      string
	DryRun   bool
	Plan     Plan
	Outcomes []Outcome
	// Failures are spools that could not be rendered.
	Failures []Failure
	Warnings []string

	StartTime time.Time
	Duration  time.Duration
}

// Stats counts outcomes by kind.
type Stats struct {
	Created   int `json:"created" yaml:"created"`
	Updated   int `json:"updated" yaml:"updated"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`
	Deleted   int `json:"deleted" yaml:"deleted"`
	Kept      int `json:"kept" yaml:"kept"`
	Failed    int `json:"failed" yaml:"failed"`
}

// Stats counts successful outcomes per change type; failed writes, failed
// deletes and render failures all count as Failed.
func (r *Result) Stats() Stats {
	var s Stats
	for _, o := range r.Outcomes {
		if o.Err != nil {
			s.Failed++
			continue
		}
		switch o.Type {
		case ChangeCreate:
			s.Created++
		case ChangeUpdate:
			s.Updated++
		case ChangeUnchanged:
			s.Unchanged++
		case ChangeDelete:
			s.Deleted++
		case ChangeKeep:
			s.Kept++
		}
	}
	s.Failed += len(r.Failures)
	return s
}

// Writes returns the number of files written or removed.
func (r *Result) Writes() int {
	if r.DryRun {
		return 0
	}
	s := r.Stats()
	return s.Created + s.Updated + s.Deleted
}

var lineVerbs = map[ChangeType][2]string{
	ChangeCreate:    {"Created", "Would create"},
	ChangeUpdate:    {"Updated", "Would update"},
	ChangeUnchanged: {"Unchanged", "Unchanged"},
	ChangeDelete:    {"Deleted", "Would delete"},
	ChangeKeep:      {"Kept", "Would keep"},
}

// Lines returns one summary line per item followed by a completion line.
func (r *Result) Lines() []string {
	lines := make([]string, 0, len(r.Outcomes)+len(r.Failures)+1)

	for _, o := range r.Outcomes {
		if o.Err != nil {
			lines = append(lines, fmt.Sprintf("Failed to %s %s: %v", o.Type, o.Filename, o.Err))
			continue
		}
		verb := lineVerbs[o.Type][0]
		if r.DryRun {
			verb = lineVerbs[o.Type][1]
		}
		line := verb + ": " + o.Filename
		if o.Reason != "" && (o.Type == ChangeDelete || o.Type == ChangeKeep) {
			line += " (" + o.Reason + ")"
		}
		lines = append(lines, line)
	}
	for _, f := range r.Failures {
		lines = append(lines, "Failed to render "+f.Error())
	}

	lines = append(lines, r.Summary())
	return lines
}

// Summary returns the completion line.
func (r *Result) Summary() string {
	s := r.Stats()
	prefix := "Sync complete"
	if r.DryRun {
		prefix = "Dry run complete"
	}
	return fmt.Sprintf("%s: %d created, %d updated, %d unchanged, %d deleted, %d kept, %d failed",
		prefix, s.Created, s.Updated, s.Unchanged, s.Deleted, s.Kept, s.Failed)
}

// Err returns a *errors.SyncError listing every failed item, or nil.
func (r *Result) Err() error {
	var (
		items []string
		errs  []error
	)
	for _, f := range r.Failures {
		items = append(items, fmt.Sprintf("spool %d", f.SpoolID))
		errs = append(errs, f)
	}
	for _, o := range r.Outcomes {
		if o.Err != nil {
			items = append(items, o.Filename)
			errs = append(errs, o.Err)
		}
	}
	if len(items) == 0 {
		return nil
	}
	return errors.NewSyncError("sync", items, errs)
}
