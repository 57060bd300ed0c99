package client

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rzbill/soid/internal/runtime"
	"github.com/rzbill/soid/internal/tagname"
	"github.com/rzbill/soid/pkg/id"
)

// newGenCommand constructs `soid gen`. Unset flags fall back to the config.
func newGenCommand(cfgFn ConfigFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate identifiers locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := cfgFn()
			if err != nil {
				return err
			}
			tag, _ := cmd.Flags().GetString("tag")
			count, _ := cmd.Flags().GetInt("count")
			format, _ := cmd.Flags().GetString("format")
			padded, _ := cmd.Flags().GetBool("padded")
			at, _ := cmd.Flags().GetString("at")
			if !cmd.Flags().Changed("tag") {
				tag = cfg.DefaultTag
			}
			if !cmd.Flags().Changed("format") {
				format = cfg.Output.Format
			}
			if !cmd.Flags().Changed("padded") {
				padded = cfg.Output.Padded
			}
			if count < 1 || count > cfg.MaxBatch {
				return fmt.Errorf("--count must be between 1 and %d", cfg.MaxBatch)
			}

			var g id.Generator
			if at != "" {
				t, err := parseTime(at)
				if err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
				g.Now = func() time.Time { return t }
			}
			out := cmd.OutOrStdout()
			for i := 0; i < count; i++ {
				v, err := g.Generate(tag)
				if err != nil {
					return err
				}
				s, err := runtime.Render(v, format, padded)
				if err != nil {
					return err
				}
				if format == "bytes" {
					_, err = io.WriteString(out, s)
				} else {
					_, err = fmt.Fprintln(out, s)
				}
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().String("tag", "", "Tag stored in the id (up to 6 bytes; default from config)")
	cmd.Flags().Int("count", 1, "Number of ids to generate")
	cmd.Flags().String("format", "", "Output form: string|hex|base62|base36|base62p|base36p|bytes")
	cmd.Flags().Bool("padded", false, "Fixed-width base62/base36 output")
	cmd.Flags().String("at", "", "Timestamp to embed instead of now (RFC3339 or Unix µs)")
	return cmd
}

// newInspectCommand constructs `soid inspect <id>`.
func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <id>",
		Short: "Decode an id given in any textual form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base36, _ := cmd.Flags().GetBool("base36")
			asJSON, _ := cmd.Flags().GetBool("json")
			v, err := parseID(args[0], base36)
			if err != nil {
				return err
			}
			view := runtime.Describe(v)
			if asJSON {
				return printJSON(cmd.OutOrStdout(), view)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "string\t%s\n", view.String)
			fmt.Fprintf(tw, "hex\t%s\n", view.Hex)
			fmt.Fprintf(tw, "base62\t%s\n", view.Base62)
			fmt.Fprintf(tw, "base36\t%s\n", view.Base36)
			fmt.Fprintf(tw, "time\t%s\n", v.Timestamp().Format(time.RFC3339Nano))
			fmt.Fprintf(tw, "micro_time\t%d\n", view.Decoded.MicroTime)
			fmt.Fprintf(tw, "tag\t%q\n", view.Decoded.Tag)
			fmt.Fprintf(tw, "rand\t%s\n", view.Decoded.Rand)
			return tw.Flush()
		},
	}
	cmd.Flags().Bool("base36", false, "Treat the argument as base36")
	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}

// newConvertCommand constructs `soid convert <id> --to <form>`.
func newConvertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <id>",
		Short: "Convert an id to another textual form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base36, _ := cmd.Flags().GetBool("base36")
			to, _ := cmd.Flags().GetString("to")
			padded, _ := cmd.Flags().GetBool("padded")
			v, err := parseID(args[0], base36)
			if err != nil {
				return err
			}
			s, err := runtime.Render(v, to, padded)
			if err != nil {
				return err
			}
			if to == "bytes" {
				_, err = io.WriteString(cmd.OutOrStdout(), s)
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), s)
			return err
		},
	}
	cmd.Flags().String("to", "string", "Target form: string|hex|base62|base36|base62p|base36p|bytes")
	cmd.Flags().Bool("padded", false, "Fixed-width base62/base36 output")
	cmd.Flags().Bool("base36", false, "Treat the argument as base36")
	return cmd
}

// newTagCommand constructs `soid tag <EntityName>...`.
func newTagCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tag <EntityName>...",
		Short: "Derive the default tag for entity type names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cache tagname.Cache
			for _, name := range args {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, cache.Tag(name)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
