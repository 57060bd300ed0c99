package transports

import (
	"context"
	"time"

	"github.com/rzbill/soid/pkg/id"
)

// Entry is a ledger entry as returned by the server.
type Entry struct {
	ID        id.ID      `json:"id"`
	Tag       string     `json:"tag"`
	Note      string     `json:"note,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	Decoded   id.Decoded `json:"decoded"`
}

// ListRequest mirrors the ledger scan parameters.
type ListRequest struct {
	From    string
	To      string
	Tag     string
	Filter  string
	Limit   int
	Reverse bool
}

// IssueRequest asks the server to generate and record ids.
type IssueRequest struct {
	Tag    string `json:"tag"`
	Note   string `json:"note"`
	Count  int    `json:"count"`
	Record bool   `json:"record"`
}

// LedgerTransport abstracts how the CLI reaches a soid server.
type LedgerTransport interface {
	Issue(ctx context.Context, req IssueRequest) ([]id.ID, error)
	List(ctx context.Context, req ListRequest) ([]Entry, error)
	Get(ctx context.Context, key id.ID) (Entry, error)
}
