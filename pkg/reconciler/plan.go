package reconciler

import (
	"fmt"
	"strings"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/profile"
)

// ChangeType is what happens to one profile file.
type ChangeType string

const (
	// ChangeCreate writes a profile that does not exist yet.
	ChangeCreate ChangeType = "create"
	// ChangeUpdate overwrites a profile whose content differs.
	ChangeUpdate ChangeType = "update"
	// ChangeUnchanged leaves a profile whose content already matches.
	ChangeUnchanged ChangeType = "unchanged"
	// ChangeDelete removes a profile no longer backed by an active spool.
	ChangeDelete ChangeType = "delete"
	// ChangeKeep leaves an unreferenced profile whose spool failed to render.
	ChangeKeep ChangeType = "keep"
)

// Change is one planned action.
type Change struct {
	Type     ChangeType       `json:"type" yaml:"type"`
	Filename string           `json:"filename" yaml:"filename"`
	SpoolID  int              `json:"spool_id,omitempty" yaml:"spool_id,omitempty"`
	Reason   string           `json:"reason,omitempty" yaml:"reason,omitempty"`
	Document profile.Document `json:"-" yaml:"-"`
}

// Mutates reports whether applying the change touches the filesystem.
func (c Change) Mutates() bool {
	return c.Type == ChangeCreate || c.Type == ChangeUpdate || c.Type == ChangeDelete
}

// Plan is the ordered list of changes for one run: desired profiles in
// spool id order, then unreferenced files in name order.
type Plan struct {
	Changes []Change `json:"changes" yaml:"changes"`
}

// Count returns the number of changes of the given type.
func (p Plan) Count(t ChangeType) int {
	n := 0
	for _, c := range p.Changes {
		if c.Type == t {
			n++
		}
	}
	return n
}

// HasChanges reports whether applying the plan would touch the filesystem.
func (p Plan) HasChanges() bool {
	for _, c := range p.Changes {
		if c.Mutates() {
			return true
		}
	}
	return false
}

// String returns a one-line summary of the plan.
func (p Plan) String() string {
	parts := make([]string, 0, 5)
	for _, t := range []ChangeType{ChangeCreate, ChangeUpdate, ChangeUnchanged, ChangeDelete, ChangeKeep} {
		parts = append(parts, fmt.Sprintf("%d %s", p.Count(t), t))
	}
	return strings.Join(parts, ", ")
}

// DiffOption adjusts how Diff treats unreferenced files.
type DiffOption func(*diffOptions)

type diffOptions struct {
	strict bool
}

// StrictDeletion deletes every unreferenced managed file, including files
// of spools that failed to render in this run.
func StrictDeletion() DiffOption {
	return func(o *diffOptions) { o.strict = true }
}

// Diff compares the desired profiles with the files on disk. It has no
// side effects.
func Diff(desired Desired, observed Observed, opts ...DiffOption) Plan {
	o := &diffOptions{}
	for _, opt := range opts {
		opt(o)
	}

	plan := Plan{Changes: make([]Change, 0, len(desired.Documents)+len(observed.Files))}
	used := make(map[string]bool, len(desired.Documents))

	for _, doc := range desired.Documents {
		used[doc.Filename] = true
		change := Change{Filename: doc.Filename, SpoolID: doc.SpoolID, Document: doc}

		existing, ok := observed.Files[doc.Filename]
		switch {
		case !ok:
			change.Type = ChangeCreate
		case existing.Err != nil:
			change.Type = ChangeUpdate
			change.Reason = "existing file unreadable"
		case existing.Hash != doc.Hash:
			change.Type = ChangeUpdate
		default:
			change.Type = ChangeUnchanged
		}
		plan.Changes = append(plan.Changes, change)
	}

	for _, name := range observed.Names() {
		if used[name] {
			continue
		}
		change := Change{Type: ChangeDelete, Filename: name}
		if id, ok := profile.SpoolIDFromFilename(name); ok {
			change.SpoolID = id
			switch {
			case desired.Archived[id]:
				change.Reason = "spool archived"
			case desired.Failed(id) && !o.strict:
				change.Type = ChangeKeep
				change.Reason = "spool failed to render"
			case desired.Failed(id):
				change.Reason = "spool failed to render, strict deletion"
			case desired.Attempted[id]:
				change.Reason = "profile renamed"
			default:
				change.Reason = "spool not in inventory"
			}
		}
		plan.Changes = append(plan.Changes, change)
	}

	return plan
}
