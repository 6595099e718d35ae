package reconciler

import (
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/authority"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/differ"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
)

// Options configures a reconciler.
type options struct {
	keepRemoved bool
	concurrency int
	clock       func() time.Time
	newID       func() string
	tracking    bool
	authorities authority.Authority
	differ      differ.Differ
}

func defaultOptions() *options {
	return &options{
		concurrency: runtime.GOMAXPROCS(0),
		clock:       func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
		tracking:    true,
		authorities: authority.New(),
		differ:      differ.New(),
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithKeepRemoved retains requirements whose control left the catalog.
// They are appended verbatim after the catalog-ordered requirements.
func WithKeepRemoved(keep bool) Option {
	return func(o *options) error {
		o.keepRemoved = keep
		return nil
	}
}

// WithConcurrency bounds the goroutines used to classify and merge controls.
// Zero selects GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return &errors.ValidationError{
				Field:   "concurrency",
				Value:   n,
				Message: "must not be negative",
			}
		}
		if n == 0 {
			n = runtime.GOMAXPROCS(0)
		}
		o.concurrency = n
		return nil
	}
}

// WithClock sets the time source used for last-modified and provenance stamps.
func WithClock(clock func() time.Time) Option {
	return func(o *options) error {
		if clock == nil {
			return &errors.ValidationError{
				Field:   "clock",
				Message: "cannot be nil",
			}
		}
		o.clock = clock
		return nil
	}
}

// WithIDGenerator sets the generator for new requirement and document UUIDs.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) error {
		if newID == nil {
			return &errors.ValidationError{
				Field:   "id_generator",
				Message: "cannot be nil",
			}
		}
		o.newID = newID
		return nil
	}
}

// WithProvenance enables field-level tracking.
func WithProvenance(enabled bool) Option {
	return func(o *options) error {
		o.tracking = enabled
		return nil
	}
}

// WithAuthorities sets the field ownership table.
func WithAuthorities(authorities authority.Authority) Option {
	return func(o *options) error {
		if authorities == nil {
			return &errors.ValidationError{
				Field:   "authorities",
				Message: "cannot be nil",
			}
		}
		o.authorities = authorities
		return nil
	}
}

// WithDiffer sets the change classifier.
func WithDiffer(d differ.Differ) Option {
	return func(o *options) error {
		if d == nil {
			return &errors.ValidationError{
				Field:   "differ",
				Message: "cannot be nil",
			}
		}
		o.differ = d
		return nil
	}
}
