// Package pebblestore provides a thin wrapper around Pebble with fsync policy,
// snapshots, batches, bounded iteration and minimal metrics hooks.
//
// Usage:
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    DataDir: "./data",
//	    Fsync:   pebblestore.FsyncModeInterval,
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	prefix := []byte("ids/")
//	_ = db.Set(append(prefix, key...), value)
//	_ = db.Range(ctx, prefix, pebblestore.PrefixUpperBound(prefix), false, func(k, v []byte) bool {
//	    return true
//	})
package pebblestore
