package controllers

import (
	"net/http"

	"github.com/rzbill/soid/internal/ledger"
	"github.com/rzbill/soid/internal/runtime"
)

// LedgerController exposes read access to the ledger.
type LedgerController struct {
	rt *runtime.Runtime
}

// NewLedgerController creates a new ledger controller.
func NewLedgerController(rt *runtime.Runtime) *LedgerController {
	return &LedgerController{rt: rt}
}

// RegisterRoutes registers ledger routes with the given mux.
func (c *LedgerController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/ledger", c.handleList)
	mux.HandleFunc("GET /v1/ledger/{id}", c.handleGet)
}

// handleList scans the ledger. from/to accept RFC3339 or integer µs.
func (c *LedgerController) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := parseTimestamp(q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from: "+err.Error())
		return
	}
	to, err := parseTimestamp(q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to: "+err.Error())
		return
	}
	filter := q.Get("filter")
	if err := ledger.ValidateFilter(filter); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := parseLimit(q.Get("limit"))
	if ceiling := c.rt.Config().MaxBatch; limit == 0 || limit > ceiling {
		limit = ceiling
	}

	entries, err := c.rt.Ledger().Scan(r.Context(), ledger.Query{
		From:    from,
		To:      to,
		Tag:     q.Get("tag"),
		Filter:  filter,
		Limit:   limit,
		Reverse: parseBool(q.Get("reverse")),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := ledgerListResp{Entries: make([]entryJSON, len(entries))}
	for i, e := range entries {
		resp.Entries[i] = toEntryJSON(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (c *LedgerController) handleGet(w http.ResponseWriter, r *http.Request) {
	v, ok := pathID(w, r)
	if !ok {
		return
	}
	e, err := c.rt.Ledger().Get(r.Context(), v)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryJSON(e))
}
