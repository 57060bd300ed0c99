package client

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	cfgpkg "github.com/rzbill/soid/internal/config"
	"github.com/rzbill/soid/internal/runtime"
	httpserver "github.com/rzbill/soid/internal/server/http"
	"github.com/rzbill/soid/pkg/id"
	logpkg "github.com/rzbill/soid/pkg/log"
)

func run(t *testing.T, cfg cfgpkg.Config, baseURL string, args ...string) (string, error) {
	t.Helper()
	root := NewRoot(
		func() (cfgpkg.Config, error) { return cfg, nil },
		func() string { return baseURL },
	)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestGenUsesConfigDefaults(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.DefaultTag = "cfg"
	cfg.Output.Format = "hex"

	out, err := run(t, cfg, "", "gen", "--count", "3")
	require.NoError(t, err)
	lines := strings.Fields(out)
	require.Len(t, lines, 3)
	for _, l := range lines {
		require.Len(t, l, id.HexLen)
		v, err := id.FromHex(l)
		require.NoError(t, err)
		require.Equal(t, "cfg", v.Tag())
	}
}

func TestGenFlagsOverrideConfig(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.DefaultTag = "cfg"

	out, err := run(t, cfg, "", "gen", "--tag", "ord", "--format", "base36", "--padded", "--at", "1700000000000000")
	require.NoError(t, err)
	s := strings.TrimSpace(out)
	require.Len(t, s, id.Base36MaxLen)
	v, err := id.FromBase36(s)
	require.NoError(t, err)
	require.Equal(t, "ord", v.Tag())
	require.Equal(t, int64(1700000000000000), v.MicroTime())
}

func TestGenRejectsBadCount(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.MaxBatch = 5
	_, err := run(t, cfg, "", "gen", "--count", "6")
	require.Error(t, err)
	_, err = run(t, cfg, "", "gen", "--count", "0")
	require.Error(t, err)
}

func TestInspectAndConvert(t *testing.T) {
	v := id.MustGenerate("usr")
	cfg := cfgpkg.Default()

	out, err := run(t, cfg, "", "inspect", "--json", v.Base62())
	require.NoError(t, err)
	var view runtime.View
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Equal(t, v.String(), view.String)
	require.Equal(t, "usr", view.Decoded.Tag)

	out, err = run(t, cfg, "", "inspect", v.Hex())
	require.NoError(t, err)
	require.Contains(t, out, v.String())
	require.Contains(t, out, `"usr"`)

	out, err = run(t, cfg, "", "convert", v.String(), "--to", "base36")
	require.NoError(t, err)
	require.Equal(t, v.Base36(), strings.TrimSpace(out))

	out, err = run(t, cfg, "", "convert", "--base36", v.Base36(), "--to", "hex")
	require.NoError(t, err)
	require.Equal(t, v.Hex(), strings.TrimSpace(out))

	_, err = run(t, cfg, "", "convert", v.String(), "--to", "base64")
	require.ErrorIs(t, err, id.ErrInvalidArgument)

	_, err = run(t, cfg, "", "inspect", "not-an-id")
	require.Error(t, err)
}

func TestTagCommand(t *testing.T) {
	out, err := run(t, cfgpkg.Default(), "", "tag", "User", "models.OrderLineItem")
	require.NoError(t, err)
	require.Contains(t, out, "User\tUser\n")
	require.Contains(t, out, "models.OrderLineItem\toli\n")
}

func TestLedgerCommands(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.Ledger.DataDir = t.TempDir()
	cfg.Ledger.Fsync = "never"
	rt, err := runtime.Open(runtime.Options{Config: cfg})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	logger, _ := logpkg.ApplyConfig(&logpkg.Config{Level: "error", Output: "null"})
	ts := httptest.NewServer(httpserver.New(rt, logger).Handler())
	t.Cleanup(ts.Close)

	out, err := run(t, cfg, ts.URL, "ledger", "issue", "--tag", "ord", "--note", "checkout", "--count", "2")
	require.NoError(t, err)
	issued := strings.Fields(out)
	require.Len(t, issued, 2)

	_, err = run(t, cfg, ts.URL, "ledger", "issue", "--tag", "usr")
	require.NoError(t, err)

	out, err = run(t, cfg, ts.URL, "ledger", "list", "--json", "--filter", `tag == "ord"`)
	require.NoError(t, err)
	var entries []struct {
		ID   id.ID  `json:"id"`
		Tag  string `json:"tag"`
		Note string `json:"note"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	for _, e := range entries {
		require.Equal(t, "ord", e.Tag)
		require.Equal(t, "checkout", e.Note)
	}

	out, err = run(t, cfg, ts.URL, "ledger", "list", "--tag", "usr")
	require.NoError(t, err)
	require.Contains(t, out, "ID")
	require.Equal(t, 2, strings.Count(out, "\n"))

	out, err = run(t, cfg, ts.URL, "ledger", "get", issued[0])
	require.NoError(t, err)
	require.Contains(t, out, issued[0])

	_, err = run(t, cfg, ts.URL, "ledger", "get", id.MustGenerate("zzz").String())
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
}
