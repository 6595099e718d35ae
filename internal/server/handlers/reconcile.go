package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/keekar2022/OSCAL-Reports-sub003/internal/server/response"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/catalogs"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/logging"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/reconciler"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/ssp"
)

// ReconcileRequest is the body of POST /api/v1/reconcile.
//
// Catalog and Document hold OSCAL JSON exactly as stored on disk, i.e.
// wrapped in their "catalog" and "system-security-plan" root keys.
type ReconcileRequest struct {
	Catalog     json.RawMessage `json:"catalog"`
	Document    json.RawMessage `json:"document,omitempty"`
	KeepRemoved *bool           `json:"keep_removed,omitempty"`
}

// ReconcileResponse is the report plus its digest.
type ReconcileResponse struct {
	*reconciler.Report
	Digest string `json:"digest"`
}

// FlattenResponse is the body returned by POST /api/v1/flatten.
type FlattenResponse struct {
	Controls []catalogs.Control `json:"controls"`
	Warnings []errors.Warning   `json:"warnings,omitempty"`
}

// HandleReconcile handles POST /api/v1/reconcile.
func (h *Handlers) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	var req ReconcileRequest
	if err := h.decode(w, r, &req); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	cat, err := parseCatalog(req.Catalog)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	prior, err := parseDocument(req.Document)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	c, err := h.client(req.KeepRemoved)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	h.stats.runs.Add(1)
	h.stats.lastRunAt.Store(time.Now().UnixNano())

	report, err := c.Reconcile(r.Context(), cat, prior)
	if err != nil {
		h.stats.failures.Add(1)
		logging.FromContext(r.Context()).Warn().Err(err).Msg("Reconciliation failed")
		response.ErrorFromType(w, err)
		return
	}
	h.stats.controls.Add(int64(report.Counts.Total))

	digest, err := report.Digest()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, ReconcileResponse{Report: report, Digest: digest})
}

// HandleFlatten handles POST /api/v1/flatten. The body is {"catalog": ...}.
// The optional "control" query parameter narrows the result to one control id;
// an id the catalog lacks is a 404.
func (h *Handlers) HandleFlatten(w http.ResponseWriter, r *http.Request) {
	var req ReconcileRequest
	if err := h.decode(w, r, &req); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	cat, err := parseCatalog(req.Catalog)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	controls, warnings := catalogs.Flatten(cat)
	if id := r.URL.Query().Get("control"); id != "" {
		ctrl, err := catalogs.Lookup(controls, id)
		if err != nil {
			response.ErrorFromType(w, err)
			return
		}
		controls = []catalogs.Control{*ctrl}
	}
	if controls == nil {
		controls = []catalogs.Control{}
	}
	response.OK(w, FlattenResponse{Controls: controls, Warnings: warnings})
}

// HandleValidate handles POST /api/v1/validate. The body is {"document": ...}
// and the result is returned with status 200 whether or not the plan is valid.
func (h *Handlers) HandleValidate(w http.ResponseWriter, r *http.Request) {
	var req ReconcileRequest
	if err := h.decode(w, r, &req); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	doc, err := parseDocument(req.Document)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	if doc == nil {
		response.BadRequest(w, "document is required", "")
		return
	}

	response.OK(w, reconciler.ValidateDocument(doc))
}

// decode reads a size-limited JSON body into v.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, h.options.MaxBodyBytes)
	defer func() { _ = body.Close() }()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.WrapParse("json", "request body", err)
	}
	return nil
}

func parseCatalog(raw json.RawMessage) (*catalogs.Catalog, error) {
	if isEmpty(raw) {
		return nil, &errors.ValidationError{Field: "catalog", Message: "is required"}
	}
	return catalogs.Parse(raw, catalogs.FormatJSON, "request.catalog")
}

func parseDocument(raw json.RawMessage) (*ssp.Document, error) {
	if isEmpty(raw) {
		return nil, nil
	}
	return ssp.Parse(raw, catalogs.FormatJSON, "request.document")
}

func isEmpty(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
