package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	cfgpkg "github.com/rzbill/soid/internal/config"
	"github.com/rzbill/soid/internal/runtime"
	"github.com/rzbill/soid/pkg/id"
	logpkg "github.com/rzbill/soid/pkg/log"
)

func newTestServer(t *testing.T) (*Server, *runtime.Runtime) {
	t.Helper()
	cfg := cfgpkg.Default()
	cfg.Ledger.DataDir = t.TempDir()
	cfg.Ledger.Fsync = "never"
	cfg.MaxBatch = 20
	rt, err := runtime.Open(runtime.Options{Config: cfg})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	logger, _ := logpkg.ApplyConfig(&logpkg.Config{Level: "error", Format: "text", Output: "null"})
	return New(rt, logger), rt
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

type viewJSON struct {
	String       string     `json:"string"`
	Hex          string     `json:"hex"`
	Base62       string     `json:"base62"`
	Base36       string     `json:"base36"`
	Base62Padded string     `json:"base62Padded"`
	Base36Padded string     `json:"base36Padded"`
	Decoded      id.Decoded `json:"decoded"`
}

func TestHealthHandler(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, http.MethodGet, "/v1/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestIssueWithoutRecord(t *testing.T) {
	s, rt := newTestServer(t)
	w := do(t, s, http.MethodPost, "/v1/ids", `{"tag":"usr","count":3}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		IDs      []viewJSON `json:"ids"`
		Recorded bool       `json:"recorded"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.IDs, 3)
	require.False(t, resp.Recorded)
	for _, v := range resp.IDs {
		require.Equal(t, "usr", v.Decoded.Tag)
		require.Len(t, v.Hex, id.HexLen)
		require.Len(t, v.Base62Padded, id.Base62MaxLen)
	}
	n, err := rt.Ledger().Count(t.Context())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestIssueRecordThenLedger(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, http.MethodPost, "/v1/ids", `{"tag":"ord","note":"checkout","count":2,"record":true}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var issued struct {
		IDs []viewJSON `json:"ids"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &issued))
	require.Len(t, issued.IDs, 2)

	w = do(t, s, http.MethodGet, "/v1/ledger/"+issued.IDs[0].Base62, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var entry struct {
		ID   string `json:"id"`
		Tag  string `json:"tag"`
		Note string `json:"note"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	require.Equal(t, issued.IDs[0].String, entry.ID)
	require.Equal(t, "ord", entry.Tag)
	require.Equal(t, "checkout", entry.Note)

	w = do(t, s, http.MethodGet, "/v1/ledger?reverse=true&limit=1&tag=ord", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list struct {
		Entries []struct {
			ID string `json:"id"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Entries, 1)
	latest := id.MustParse(issued.IDs[0].String)
	if other := id.MustParse(issued.IDs[1].String); other.Compare(latest) > 0 {
		latest = other
	}
	require.Equal(t, latest.String(), list.Entries[0].ID)

	w = do(t, s, http.MethodGet, "/v1/ledger?filter="+url.QueryEscape(`note == "checkout"`), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Entries, 2)
}

func TestIssueRejectsBadCount(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, http.MethodPost, "/v1/ids", `{"count":21}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, s, http.MethodPost, "/v1/ids", `{"count":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, s, http.MethodPost, "/v1/ids", `{"tag":"a\u0000b"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDecodeAnyForm(t *testing.T) {
	s, _ := newTestServer(t)
	v := id.MustGenerate("inv")
	for _, form := range []string{v.String(), v.Hex(), v.Base62(), v.Base62Padded()} {
		w := do(t, s, http.MethodGet, "/v1/ids/"+form, "")
		require.Equal(t, http.StatusOK, w.Code, form)
		var got viewJSON
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Equal(t, v.Hex(), got.Hex)
		require.Equal(t, "inv", got.Decoded.Tag)
	}
	w := do(t, s, http.MethodGet, "/v1/ids/"+v.Base36()+"?base=36", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodGet, "/v1/ids/not-an-id!", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConvert(t *testing.T) {
	s, _ := newTestServer(t)
	v := id.MustGenerate("usr")

	w := do(t, s, http.MethodGet, "/v1/ids/"+v.String()+"/convert?to=base36&padded=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"form":"base36","value":"`+v.Base36Padded()+`"}`, w.Body.String())

	w = do(t, s, http.MethodGet, "/v1/ids/"+v.String()+"/convert?to=bytes", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	require.Equal(t, v.Bytes(), w.Body.Bytes())

	w = do(t, s, http.MethodGet, "/v1/ids/"+v.String()+"/convert?to=base64", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLedgerErrors(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, http.MethodGet, "/v1/ledger/"+id.MustGenerate("x").Hex(), "")
	require.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, s, http.MethodGet, "/v1/ledger?filter="+url.QueryEscape("tag +"), "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, s, http.MethodGet, "/v1/ledger?from=yesterday", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, s, http.MethodDelete, "/v1/ledger", "")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
