// Package ledger journals issued identifiers.
//
// Ids sort by issue time, so both backends key entries by the raw 16 id
// bytes and answer time-range queries with a plain key range: the lower
// bound is the From timestamp followed by zero bytes, the upper bound the To
// timestamp followed by 0xff bytes.
//
// Two backends are provided:
//
//   - PebbleLedger stores "ids/" || id -> CRC-protected record.
//   - SQLiteLedger stores rows in a WITHOUT ROWID table migrated by goose.
//
// Query.Filter accepts a CEL expression over tag, micro_time, unix, rand,
// hex, note and now_us, for example:
//
//	tag == "usr" && now_us - micro_time < 3600000000
package ledger
