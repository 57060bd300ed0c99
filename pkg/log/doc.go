// Package log provides soid's structured logging facade.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. Internally it is backed by log/slog via
// a bridge handler that feeds a Formatter and one or more Outputs.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("ledger"), log.Str("backend", "pebble"))
//	l.Info("ledger opened", log.Int("entries", 42))
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config (text or JSON,
// stderr, stdout or null output, redacted keys).
//
// # Interop
//
// ToStdLogger and RedirectStdLog route the standard library logger, which
// Pebble writes to, through the facade.
package log
