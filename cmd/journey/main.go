// Package main is the entry point for the journey application.
// journey tracks a daily learning streak: run it without arguments for the
// interactive screen, or use the subcommands from scripts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// rootOptions holds the persistent flags plus the clock and zone every
// command computes days with.
type rootOptions struct {
	configPath string
	dataDir    string
	backend    string
	debug      bool

	now func() time.Time
	loc *time.Location
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithOptions(&rootOptions{now: time.Now, loc: time.Local})
}

func newRootCmdWithOptions(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "journey",
		Short: "Keep a daily learning streak",
		Long: `journey keeps a daily learning streak for one goal at a time.

Log each day as learned, or spend one of the goal's freezes on it. The
streak counts consecutive learned days ending today.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
	root.SetVersionTemplate(versionLine() + "\n")

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/journey/config.yaml)")
	pf.StringVar(&opts.dataDir, "data-dir", "", "data directory (overrides config)")
	pf.StringVar(&opts.backend, "backend", "", "storage backend: file|sqlite|redis (overrides config)")
	pf.BoolVar(&opts.debug, "debug", false, "log at debug level and mirror logs to stderr")

	root.AddCommand(
		newStatusCmd(opts),
		newLearnedCmd(opts),
		newFreezeCmd(opts),
		newResetCmd(opts),
		newHistoryCmd(opts),
		newGoalCmd(opts),
		newBackupCmd(opts),
		newVersionCmd(),
	)
	return root
}

func versionLine() string {
	return fmt.Sprintf("journey %s (commit %s, built %s)", version, commit, date)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionLine())
		},
	}
}
