// Package handlers provides HTTP request handlers for the review API.
package handlers

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	oscalreports "github.com/keekar2022/OSCAL-Reports-sub003"
	"github.com/keekar2022/OSCAL-Reports-sub003/cmd/application"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/reconciler"
)

// Options configures the handlers.
type Options struct {
	MaxBodyBytes int64
	StartTime    time.Time
}

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	app     application.Application
	logger  *zerolog.Logger
	options Options
	stats   counters
}

// counters are updated by client hooks and handlers concurrently.
type counters struct {
	runs      atomic.Int64
	failures  atomic.Int64
	controls  atomic.Int64
	newC      atomic.Int64
	changed   atomic.Int64
	removed   atomic.Int64
	lastRunAt atomic.Int64 // unix nanoseconds
}

// Stats is a snapshot of the run counters.
type Stats struct {
	Runs     int64     `json:"runs"`
	Failures int64     `json:"failures"`
	Controls int64     `json:"controls"`
	New      int64     `json:"new"`
	Changed  int64     `json:"changed"`
	Removed  int64     `json:"removed"`
	LastRun  time.Time `json:"last_run,omitzero"`
	Uptime   string    `json:"uptime"`
}

// New creates a new Handlers instance and connects run counters to the
// application's default client.
func New(app application.Application, logger *zerolog.Logger, opts Options) (*Handlers, error) {
	if opts.StartTime.IsZero() {
		opts.StartTime = time.Now()
	}
	h := &Handlers{app: app, logger: logger, options: opts}

	c, err := app.Client()
	if err != nil {
		return nil, err
	}
	h.connectHooks(c)
	return h, nil
}

// Stats returns a snapshot of the run counters.
func (h *Handlers) Stats() Stats {
	s := Stats{
		Runs:     h.stats.runs.Load(),
		Failures: h.stats.failures.Load(),
		Controls: h.stats.controls.Load(),
		New:      h.stats.newC.Load(),
		Changed:  h.stats.changed.Load(),
		Removed:  h.stats.removed.Load(),
		Uptime:   time.Since(h.options.StartTime).Round(time.Second).String(),
	}
	if ns := h.stats.lastRunAt.Load(); ns != 0 {
		s.LastRun = time.Unix(0, ns).UTC()
	}
	return s
}

// client returns the default client, or a new one when the request
// overrides keep-removed.
func (h *Handlers) client(keepRemoved *bool) (oscalreports.Client, error) {
	if keepRemoved == nil {
		return h.app.Client()
	}
	c, err := h.app.Client(oscalreports.WithKeepRemoved(*keepRemoved))
	if err != nil {
		return nil, err
	}
	h.connectHooks(c)
	return c, nil
}

// connectHooks registers client hooks that feed the run counters.
func (h *Handlers) connectHooks(c oscalreports.Client) {
	c.OnControlNew(func(e reconciler.Entry) {
		h.stats.newC.Add(1)
		h.logger.Debug().Str("control_id", e.ControlID).Msg("Control added")
	})
	c.OnControlChanged(func(e reconciler.Entry) {
		h.stats.changed.Add(1)
		h.logger.Debug().Str("control_id", e.ControlID).Int("changes", len(e.Changes)).Msg("Control changed")
	})
	c.OnControlRemoved(func(e reconciler.Entry) {
		h.stats.removed.Add(1)
		h.logger.Debug().Str("control_id", e.ControlID).Bool("kept", e.Merged != nil).Msg("Control removed")
	})
}
