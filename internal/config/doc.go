// Package config provides loading and environment overlay for soid runtime
// configuration. It exposes a Default() baseline, file loading (JSON or YAML)
// and a SOID_* environment overlay.
//
// Example:
//
//	cfg, err := config.Load("/etc/soid.yaml")
//	if err != nil { /* handle */ }
//	if err := config.FromEnv(&cfg); err != nil { /* handle */ }
//	if err := cfg.Validate(); err != nil { /* handle */ }
//	rt, _ := runtime.Open(runtime.Options{Config: cfg})
//	defer rt.Close()
package config
