// Package httpserver provides the JSON gateway for soid: id generation,
// decoding and conversion, and read access to the ledger.
//
// Routes:
//
//	GET  /v1/healthz
//	POST /v1/ids                  {"tag","note","count","record"}
//	GET  /v1/ids/{id}             decode any textual form (?base=36 for base36)
//	GET  /v1/ids/{id}/convert     ?to=string|hex|base62|base36|base62p|base36p|bytes
//	GET  /v1/ledger               ?from=&to=&tag=&filter=&limit=&reverse=
//	GET  /v1/ledger/{id}
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{Config: config.Default()})
//	s := httpserver.New(rt, logger)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":8080")
package httpserver
