package client

import (
	"github.com/spf13/cobra"

	cfgpkg "github.com/rzbill/soid/internal/config"
)

// BaseURLFunc provides the base HTTP API URL (e.g., from env or flag).
type BaseURLFunc func() string

// ConfigFunc resolves the effective configuration once flags are parsed.
type ConfigFunc func() (cfgpkg.Config, error)

// NewRoot constructs a root Cobra command with every client command group.
func NewRoot(cfg ConfigFunc, baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "soid",
		Short:         "Time-ordered identifier toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	AddCommands(root, cfg, baseURL)
	return root
}

// AddCommands registers the id and ledger commands on root.
func AddCommands(root *cobra.Command, cfg ConfigFunc, baseURL BaseURLFunc) {
	root.AddCommand(
		newGenCommand(cfg),
		newInspectCommand(),
		newConvertCommand(),
		newTagCommand(),
		NewLedgerCommand(baseURL),
	)
}
