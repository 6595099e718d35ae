// Package oscalreports provides the main entry point for reconciling OSCAL
// system security plans against fresh releases of their control catalog.
//
// A Client wraps the reconciliation engine with:
// - Functional options shared by every run
// - Event hooks fired per new, changed and removed control
// - Copy-on-read access to the most recent report
// - Helpers that write a report's merged plan and provenance to disk
//
// Example usage:
//
//	client, err := oscalreports.New(oscalreports.WithKeepRemoved(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client.OnControlChanged(func(e reconciler.Entry) {
//	    log.Printf("review %s: %s", e.ControlID, differ.Summarize(e.Changes))
//	})
//
//	cat, _ := catalogs.LoadFile("NIST_SP-800-53_rev5_catalog.json")
//	prior, _ := ssp.LoadFile("ssp.json")
//
//	report, err := client.Reconcile(ctx, cat, prior)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.Summary())
package oscalreports

import (
	"context"
	"sync"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/catalogs"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/logging"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/reconciler"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/ssp"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Reconciler merges catalogs into prior plans.
type Reconciler interface {
	// Reconcile merges cat into prior (nil for a fresh start) and fires hooks.
	Reconcile(ctx context.Context, cat *catalogs.Catalog, prior *ssp.Document) (*reconciler.Report, error)

	// Flatten returns the catalog's controls in declaration order.
	Flatten(cat *catalogs.Catalog) ([]catalogs.Control, []errors.Warning)

	// LastReport returns the report of the most recent successful run.
	LastReport() (*reconciler.Report, bool)
}

// Client manages reconciliation runs with shared options and event hooks.
type Client interface {
	// Reconciler runs merges
	Reconciler

	// Persistence writes reports to disk
	Persistence

	// Hooks provides access to event callback registration
	Hooks
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options
	engine  reconciler.Reconciler

	mu   sync.RWMutex
	last *reconciler.Report

	hooks *hooks
}

// New creates a new Client instance with the given options.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	engine, err := reconciler.New(o.reconcilerOptions()...)
	if err != nil {
		return nil, errors.WrapResource("create", "reconciler", "", err)
	}

	return &client{
		options: o,
		engine:  engine,
		hooks:   newHooks(),
	}, nil
}

// Reconcile implements Reconciler.
func (c *client) Reconcile(ctx context.Context, cat *catalogs.Catalog, prior *ssp.Document) (*reconciler.Report, error) {
	ctx = logging.WithOperation(ctx, "reconcile")

	report, err := c.engine.Reconcile(ctx, cat, prior)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.last = report
	c.mu.Unlock()

	c.hooks.trigger(report)
	return report, nil
}

// Flatten implements Reconciler.
func (c *client) Flatten(cat *catalogs.Catalog) ([]catalogs.Control, []errors.Warning) {
	return catalogs.Flatten(cat)
}

// LastReport implements Reconciler.
func (c *client) LastReport() (*reconciler.Report, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last, c.last != nil
}

// Reconcile runs a one-off merge without hooks.
func Reconcile(ctx context.Context, cat *catalogs.Catalog, prior *ssp.Document, opts ...Option) (*reconciler.Report, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return c.Reconcile(ctx, cat, prior)
}

// Flatten returns the catalog's controls in declaration order, for callers
// that need the catalog shape without a prior plan.
func Flatten(cat *catalogs.Catalog) ([]catalogs.Control, []errors.Warning) {
	return catalogs.Flatten(cat)
}
