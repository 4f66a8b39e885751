// Package napctl implements the napctl command line client for a running
// napd daemon. Commands talk plain HTTP to the daemon's API; watch can also
// use the websocket stream.
package napctl

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the napctl command tree.
func NewRootCmd() *cobra.Command {
	var addr string

	root := &cobra.Command{
		Use:           "napctl",
		Short:         "Control a running napd daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&addr, "addr", envOr("NAPD_CTL_ADDR", "http://127.0.0.1:7979"),
		"Base URL of the napd daemon")

	root.AddCommand(newStatusCmd(&addr))
	root.AddCommand(newHoldCmd(&addr))
	root.AddCommand(newReleaseCmd(&addr))
	root.AddCommand(newWatchCmd(&addr))
	return root
}

func newStatusCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := fetchStatus(*addr)
			if err != nil {
				return err
			}
			return printJSON(cmd, st)
		},
	}
}

func newHoldCmd(addr *string) *cobra.Command {
	var reason string
	var holdFor time.Duration

	cmd := &cobra.Command{
		Use:   "hold",
		Short: "Create an idle-sleep assertion",
		Long: "Create an idle-sleep assertion and print it. With --for the command keeps\n" +
			"running, releases the assertion after the duration, and then exits.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(reason) == "" {
				return fmt.Errorf("--reason is required")
			}
			created, err := createAssertion(*addr, reason)
			if err != nil {
				return err
			}
			if err := printJSON(cmd, created); err != nil {
				return err
			}
			if holdFor <= 0 {
				return nil
			}
			select {
			case <-time.After(holdFor):
			case <-cmd.Context().Done():
			}
			released, found, err := releaseAssertion(*addr, created.Assertion.ID)
			if err != nil {
				return err
			}
			if !found {
				// Released out from under us, e.g. by napctl release.
				return nil
			}
			return printJSON(cmd, released)
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Human-readable reason for the assertion")
	cmd.Flags().DurationVar(&holdFor, "for", 0, "Hold the assertion for this long, then release it")
	return cmd
}

func newReleaseCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "release <id>",
		Short: "Release an assertion by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, found, err := releaseAssertion(*addr, args[0])
			if err != nil {
				return err
			}
			if !found {
				fmt.Fprintf(cmd.OutOrStdout(), "assertion %s not found (nothing to release)\n", args[0])
				return nil
			}
			if out.Warning != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", out.Warning)
			}
			return printJSON(cmd, out)
		},
	}
}

func newWatchCmd(addr *string) *cobra.Command {
	var useWS bool
	var limit int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream sleep/wake events as NDJSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if useWS {
				return watchWS(cmd.Context(), *addr, limit, cmd.OutOrStdout())
			}
			return watchNDJSON(cmd.Context(), *addr, limit, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&useWS, "ws", false, "Use the websocket stream instead of NDJSON")
	cmd.Flags().IntVar(&limit, "limit", 0, "Exit after this many events (0=forever)")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
