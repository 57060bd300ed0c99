// Package client provides the `soid` command-line commands.
//
// gen, inspect, convert and tag work offline. The ledger group talks to a
// running server's HTTP API; the base URL comes from the embedding binary
// (SOID_HTTP, default http://127.0.0.1:8080).
//
// Usage
//
//	soid gen --tag usr --count 3 --format base62 --padded
//	soid gen --at 2030-01-01T00:00:00Z
//	soid inspect 0005f0c1d2e3f4-7573-7200-ab12-cd3f01
//	soid inspect --json 2V1lZ9aQ8e7Rr0xQ
//	soid convert 0005f0c1d2e3f475737200ab12cd3f01 --to base36
//	soid tag MyModelName models.InvoiceLine
//
//	soid ledger issue --tag ord --note checkout --count 2
//	soid ledger list --from 2025-01-01T00:00:00Z --filter 'tag == "ord"'
//	soid ledger get <id>
package client
