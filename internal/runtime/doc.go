// Package runtime wires config, logging, id generation and the ledger into a
// single-node soid instance. It exposes Open/Close, health checks, Generate
// and Issue, and the Render/Describe helpers shared by the CLI and servers.
//
// Example:
//
//	cfg := config.Default()
//	cfg.Ledger.DataDir = "./data"
//	rt, _ := runtime.Open(runtime.Options{Config: cfg})
//	defer rt.Close()
//	_ = rt.CheckHealth(context.Background())
//	entries, _ := rt.Issue(context.Background(), "usr", "signup", 1)
//	s, _ := runtime.Render(entries[0].ID, "base62", false)
package runtime
