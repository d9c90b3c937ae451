package reconciler

import (
	"time"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/errors"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/infer"
)

type options struct {
	engine *infer.Engine
	strict bool
	dryRun bool
	now    func() time.Time
}

func defaultOptions() *options {
	return &options{
		engine: infer.New(infer.DefaultTables()),
		now:    time.Now,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithEngine sets the inference engine used to render profiles.
func WithEngine(engine *infer.Engine) Option {
	return func(o *options) error {
		if engine == nil {
			return &errors.ValidationError{Field: "engine", Message: "cannot be nil"}
		}
		o.engine = engine
		return nil
	}
}

// WithStrictDeletion deletes unreferenced profiles even when their spool
// failed to render in the same run.
func WithStrictDeletion(enabled bool) Option {
	return func(o *options) error {
		o.strict = enabled
		return nil
	}
}

// WithDryRun computes the plan without touching the filesystem beyond
// creating the output directory.
func WithDryRun(enabled bool) Option {
	return func(o *options) error {
		o.dryRun = enabled
		return nil
	}
}

// WithClock sets the time source for the generated header.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return &errors.ValidationError{Field: "clock", Message: "cannot be nil"}
		}
		o.now = now
		return nil
	}
}
