package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	clientcmd "github.com/rzbill/soid/internal/cmd/client"
	serverrun "github.com/rzbill/soid/internal/cmd/server"
	cfgpkg "github.com/rzbill/soid/internal/config"
)

func main() {
	var configPath string

	// loadConfig layers defaults, the optional config file and SOID_* env.
	loadConfig := func() (cfgpkg.Config, error) {
		cfg := cfgpkg.Default()
		if configPath != "" {
			loaded, err := cfgpkg.Load(configPath)
			if err != nil {
				return cfg, err
			}
			cfg = loaded
		}
		if err := cfgpkg.FromEnv(&cfg); err != nil {
			return cfg, err
		}
		return cfg, cfg.Validate()
	}

	rootCmd := clientcmd.NewRoot(loadConfig, apiURL)
	rootCmd.Long = "soid generates, converts and inspects time-ordered 128-bit identifiers, and serves an optional ledger of issued ids."
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("SOID_CONFIG"), "Config file (YAML or JSON)")

	// server start
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start soid server (gRPC and HTTP)",
		Aliases: []string{"run"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			override := func(name string, dst *string) {
				if flags.Changed(name) {
					*dst, _ = flags.GetString(name)
				}
			}
			override("data-dir", &cfg.Ledger.DataDir)
			override("grpc", &cfg.Server.GRPCAddr)
			override("http", &cfg.Server.HTTPAddr)
			override("backend", &cfg.Ledger.Backend)
			override("fsync", &cfg.Ledger.Fsync)
			override("log-level", &cfg.Log.Level)
			override("log-format", &cfg.Log.Format)
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := serverrun.Run(context.Background(), serverrun.Options{Config: cfg}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
	serverStartCmd.Flags().String("data-dir", "", "Data directory (if not specified, uses OS-specific application data directory)")
	serverStartCmd.Flags().String("grpc", ":50051", "gRPC listen address")
	serverStartCmd.Flags().String("http", ":8080", "HTTP listen address")
	serverStartCmd.Flags().String("backend", "pebble", "Ledger backend: pebble|sqlite")
	serverStartCmd.Flags().String("fsync", "interval", "Fsync mode for the pebble backend: always|interval|never")
	serverStartCmd.Flags().String("log-level", "info", "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", "text", "Log format: text|json")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func apiURL() string {
	if v := os.Getenv("SOID_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}
