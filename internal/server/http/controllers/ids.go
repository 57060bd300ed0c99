package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rzbill/soid/internal/ledger"
	"github.com/rzbill/soid/internal/runtime"
	"github.com/rzbill/soid/pkg/id"
	logpkg "github.com/rzbill/soid/pkg/log"
)

// IDsController generates, decodes and converts identifiers.
type IDsController struct {
	rt     *runtime.Runtime
	logger logpkg.Logger
}

// NewIDsController creates a new ids controller.
func NewIDsController(rt *runtime.Runtime, logger logpkg.Logger) *IDsController {
	return &IDsController{rt: rt, logger: logger}
}

// RegisterRoutes registers id routes with the given mux.
func (c *IDsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/ids", c.handleIssue)
	mux.HandleFunc("GET /v1/ids/{id}", c.handleDecode)
	mux.HandleFunc("GET /v1/ids/{id}/convert", c.handleConvert)
}

// handleIssue generates ids; with "record" set they are also written to the
// ledger. Returns 201 when recorded, 200 otherwise.
func (c *IDsController) handleIssue(w http.ResponseWriter, r *http.Request) {
	var req issueReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.Count == 0 {
		req.Count = 1
	}

	var ids []id.ID
	if req.Record {
		entries, err := c.rt.Issue(r.Context(), req.Tag, req.Note, req.Count)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		for _, e := range entries {
			ids = append(ids, e.ID)
		}
	} else {
		var err error
		if ids, err = c.rt.Generate(req.Tag, req.Count); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	resp := issueResp{IDs: make([]runtime.View, len(ids)), Recorded: req.Record}
	for i, v := range ids {
		resp.IDs[i] = runtime.Describe(v)
	}
	status := http.StatusOK
	if req.Record {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

// handleDecode parses any textual form and returns every form plus the
// decoded parts.
func (c *IDsController) handleDecode(w http.ResponseWriter, r *http.Request) {
	v, ok := pathID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, runtime.Describe(v))
}

// handleConvert returns a single form. "bytes" is served as
// application/octet-stream.
func (c *IDsController) handleConvert(w http.ResponseWriter, r *http.Request) {
	v, ok := pathID(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	to := q.Get("to")
	out, err := runtime.Render(v, to, parseBool(q.Get("padded")))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if to == "bytes" {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte(out))
		return
	}
	writeJSON(w, http.StatusOK, convertResp{Form: to, Value: out})
}

// writeServiceError maps domain errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, id.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrExists):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
