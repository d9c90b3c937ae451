package reconciler

import (
	"fmt"
	"strconv"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/errors"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/infer"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/normalize"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/profile"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/spoolman"
)

// Failure is a spool whose profile could not be rendered.
type Failure struct {
	SpoolID int   `json:"spool_id" yaml:"spool_id"`
	Err     error `json:"-" yaml:"-"`
}

// Error implements the error interface.
func (f Failure) Error() string {
	return fmt.Sprintf("spool %d: %v", f.SpoolID, f.Err)
}

// Unwrap returns the underlying error.
func (f Failure) Unwrap() error {
	return f.Err
}

// Desired is the set of profiles the active inventory calls for.
type Desired struct {
	// Documents are ordered by spool id.
	Documents []profile.Document
	Failures  []Failure
	// Attempted holds every active spool id, rendered or not.
	Attempted map[int]bool
	// Archived holds ids of spools the inventory reports as archived.
	Archived map[int]bool
	Warnings []string
}

// Failed reports whether the spool was active but could not be rendered.
func (d Desired) Failed(spoolID int) bool {
	for _, f := range d.Failures {
		if f.SpoolID == spoolID {
			return true
		}
	}
	return false
}

// BuildDesired renders a document for every active spool. A spool that
// fails to render is recorded as a Failure and does not stop the others.
func BuildDesired(spools []spoolman.Spool, engine *infer.Engine) Desired {
	d := Desired{
		Attempted: make(map[int]bool),
		Archived:  make(map[int]bool),
	}

	for _, s := range spools {
		if s.Archived {
			d.Archived[s.ID] = true
		}
	}

	for _, s := range spoolman.Active(spools) {
		d.Attempted[s.ID] = true
		for _, w := range s.Warnings() {
			d.Warnings = append(d.Warnings, fmt.Sprintf("spool %d: %s", s.ID, w))
		}

		doc, err := renderSpool(s, engine)
		if err != nil {
			d.Failures = append(d.Failures, Failure{SpoolID: s.ID, Err: err})
			continue
		}
		d.Documents = append(d.Documents, doc)
	}

	return d
}

// RenderSpool runs one spool through normalization, inference and rendering.
func RenderSpool(s spoolman.Spool, engine *infer.Engine) (profile.Document, error) {
	return renderSpool(s, engine)
}

func renderSpool(s spoolman.Spool, engine *infer.Engine) (doc profile.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewResourceError("render", "profile", strconv.Itoa(s.ID), fmt.Errorf("panic: %v", r))
		}
	}()

	if s.ID <= 0 {
		return profile.Document{}, errors.NewValidationError("id", s.ID, "spool has no id")
	}

	attrs := normalize.Normalize(s)
	doc = profile.Render(attrs, engine.Color(attrs), engine.Settings(attrs))
	return doc, nil
}
