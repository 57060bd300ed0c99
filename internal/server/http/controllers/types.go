package controllers

import (
	"time"

	"github.com/rzbill/soid/internal/ledger"
	"github.com/rzbill/soid/internal/runtime"
	"github.com/rzbill/soid/pkg/id"
)

// issueReq asks for count ids under tag; record also writes them to the ledger.
type issueReq struct {
	Tag    string `json:"tag"`
	Note   string `json:"note"`
	Count  int    `json:"count"`
	Record bool   `json:"record"`
}

type issueResp struct {
	IDs      []runtime.View `json:"ids"`
	Recorded bool           `json:"recorded"`
}

type convertResp struct {
	Form  string `json:"form"`
	Value string `json:"value"`
}

// entryJSON is a ledger entry with its decoded id.
type entryJSON struct {
	ID        id.ID      `json:"id"`
	Tag       string     `json:"tag"`
	Note      string     `json:"note,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	Decoded   id.Decoded `json:"decoded"`
}

type ledgerListResp struct {
	Entries []entryJSON `json:"entries"`
}

func toEntryJSON(e ledger.Entry) entryJSON {
	return entryJSON{ID: e.ID, Tag: e.Tag, Note: e.Note, CreatedAt: e.CreatedAt, Decoded: e.ID.Decode()}
}
