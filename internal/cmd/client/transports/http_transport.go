package transports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rzbill/soid/pkg/id"
)

// HTTPTransport talks to the JSON gateway.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

// NewHTTPTransport returns a transport for baseURL (e.g. http://127.0.0.1:8080).
func NewHTTPTransport(baseURL string) *HTTPTransport {
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *HTTPTransport) Issue(ctx context.Context, req IssueRequest) ([]id.ID, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var resp struct {
		IDs []struct {
			String string `json:"string"`
		} `json:"ids"`
	}
	if err := t.do(ctx, http.MethodPost, "/v1/ids", bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}
	out := make([]id.ID, 0, len(resp.IDs))
	for _, v := range resp.IDs {
		parsed, err := id.FromString(v.String)
		if err != nil {
			return nil, err
		}
		out = append(out, parsed)
	}
	return out, nil
}

func (t *HTTPTransport) List(ctx context.Context, req ListRequest) ([]Entry, error) {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("from", req.From)
	set("to", req.To)
	set("tag", req.Tag)
	set("filter", req.Filter)
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Reverse {
		q.Set("reverse", "true")
	}
	path := "/v1/ledger"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp struct {
		Entries []Entry `json:"entries"`
	}
	if err := t.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

func (t *HTTPTransport) Get(ctx context.Context, key id.ID) (Entry, error) {
	var e Entry
	err := t.do(ctx, http.MethodGet, "/v1/ledger/"+key.Hex(), nil, &e)
	return e, err
}

func (t *HTTPTransport) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return &StatusError{Code: resp.StatusCode, Message: e.Error}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// StatusError is a non-2xx answer from the server.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string { return fmt.Sprintf("server: %d: %s", e.Code, e.Message) }
