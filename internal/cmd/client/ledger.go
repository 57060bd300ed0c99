package client

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rzbill/soid/internal/cmd/client/transports"
)

func getTransport(baseURL BaseURLFunc) transports.LedgerTransport {
	return transports.NewHTTPTransport(baseURL())
}

// NewLedgerCommand constructs the `ledger` command group. Every subcommand
// talks to a running server over HTTP.
func NewLedgerCommand(baseURL BaseURLFunc) *cobra.Command {
	ledgerCmd := &cobra.Command{Use: "ledger", Short: "Ledger operations (requires a running server)"}
	ledgerCmd.AddCommand(
		newLedgerIssueCommand(baseURL),
		newLedgerListCommand(baseURL),
		newLedgerGetCommand(baseURL),
	)
	return ledgerCmd
}

func newLedgerIssueCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Generate ids on the server and record them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tag, _ := cmd.Flags().GetString("tag")
			note, _ := cmd.Flags().GetString("note")
			count, _ := cmd.Flags().GetInt("count")
			ids, err := getTransport(baseURL).Issue(cmd.Context(), transports.IssueRequest{Tag: tag, Note: note, Count: count, Record: true})
			if err != nil {
				return err
			}
			for _, v := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
	cmd.Flags().String("tag", "", "Tag stored in the id")
	cmd.Flags().String("note", "", "Free-form note kept in the ledger")
	cmd.Flags().Int("count", 1, "Number of ids to issue")
	return cmd
}

func newLedgerListCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded ids in issue order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req transports.ListRequest
			req.From, _ = cmd.Flags().GetString("from")
			req.To, _ = cmd.Flags().GetString("to")
			req.Tag, _ = cmd.Flags().GetString("tag")
			req.Filter, _ = cmd.Flags().GetString("filter")
			req.Limit, _ = cmd.Flags().GetInt("limit")
			req.Reverse, _ = cmd.Flags().GetBool("reverse")
			asJSON, _ := cmd.Flags().GetBool("json")

			entries, err := getTransport(baseURL).List(cmd.Context(), req)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTAG\tTIME\tNOTE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Tag, e.ID.Timestamp().Format(time.RFC3339Nano), e.Note)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().String("from", "", "Lower bound (RFC3339 or Unix µs)")
	cmd.Flags().String("to", "", "Upper bound (RFC3339 or Unix µs)")
	cmd.Flags().String("tag", "", "Only entries with this tag")
	cmd.Flags().String("filter", "", "CEL filter over tag, micro_time, unix, rand, hex, note, now_us")
	cmd.Flags().Int("limit", 0, "Maximum entries (server caps at maxBatch)")
	cmd.Flags().Bool("reverse", false, "Newest first")
	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}

func newLedgerGetCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a recorded id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base36, _ := cmd.Flags().GetBool("base36")
			v, err := parseID(args[0], base36)
			if err != nil {
				return err
			}
			e, err := getTransport(baseURL).Get(cmd.Context(), v)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), e)
		},
	}
	cmd.Flags().Bool("base36", false, "Treat the argument as base36")
	return cmd
}
