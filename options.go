package oscalreports

import (
	"time"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/reconciler"
)

// options holds the configuration shared by every run of a Client.
type options struct {
	keepRemoved bool
	concurrency int
	clock       func() time.Time
	newID       func() string
	provenance  bool
	extra       []reconciler.Option
}

func defaults() *options {
	return &options{
		provenance: true,
	}
}

// Option is a function that configures a Client.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// reconcilerOptions translates client options into engine options.
func (o *options) reconcilerOptions() []reconciler.Option {
	opts := []reconciler.Option{
		reconciler.WithKeepRemoved(o.keepRemoved),
		reconciler.WithConcurrency(o.concurrency),
		reconciler.WithProvenance(o.provenance),
	}
	if o.clock != nil {
		opts = append(opts, reconciler.WithClock(o.clock))
	}
	if o.newID != nil {
		opts = append(opts, reconciler.WithIDGenerator(o.newID))
	}
	return append(opts, o.extra...)
}

// WithKeepRemoved retains requirements whose control left the catalog.
func WithKeepRemoved(keep bool) Option {
	return func(o *options) error {
		o.keepRemoved = keep
		return nil
	}
}

// WithConcurrency bounds the goroutines used per run. Zero selects GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *options) error {
		o.concurrency = n
		return nil
	}
}

// WithClock sets the time source for last-modified and provenance stamps.
func WithClock(clock func() time.Time) Option {
	return func(o *options) error {
		o.clock = clock
		return nil
	}
}

// WithIDGenerator sets the generator for new requirement and document UUIDs.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) error {
		o.newID = newID
		return nil
	}
}

// WithProvenance configures whether field provenance is recorded.
func WithProvenance(enabled bool) Option {
	return func(o *options) error {
		o.provenance = enabled
		return nil
	}
}

// WithReconcilerOptions passes engine options through unchanged, e.g. a
// custom ownership table or differ.
func WithReconcilerOptions(opts ...reconciler.Option) Option {
	return func(o *options) error {
		o.extra = append(o.extra, opts...)
		return nil
	}
}
