// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-contributor-stats/internal/gateway"
)

// version is overridden at build time with -ldflags "-X .../cmd.version=...".
var version = "dev"

// exitCancelled is the conventional exit status after SIGINT.
const exitCancelled = 130

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "github-stats",
		Short: "A CLI tool to report per-contributor GitHub commit statistics.",
		Long: `github-stats retrieves the contributor statistics GitHub computes for a
repository (commits, lines added and deleted per contributor) and prints
them as a report. GitHub computes these statistics in the background, so
the first request for a repository may take a while to complete.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.AddCommand(newStatsCmd())
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := newRootCmd().ExecuteContext(ctx)
	if err == nil {
		return
	}
	if gateway.IsCancellation(err) && errors.Is(ctx.Err(), context.Canceled) {
		fmt.Fprintln(os.Stderr, "Cancelled.")
		cancel()
		os.Exit(exitCancelled)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	cancel()
	os.Exit(1)
}
