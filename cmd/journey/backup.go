package main

import (
	"fmt"
	"time"

	"journey/internal/backup"

	"github.com/spf13/cobra"
)

func newBackupCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create and manage backups of the active goal",
		Long: `Creates a timestamped backup of the active goal, its history and its
cached streak. Backups are stored in <data_dir>/backups and can be restored
into any storage backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackups(cmd, opts, func(m *backup.Manager) error {
				name, err := m.Create(cmd.Context())
				if err != nil {
					return fmt.Errorf("creating backup: %w", err)
				}
				info, err := m.GetBackup(name)
				if err != nil {
					return fmt.Errorf("reading backup info: %w", err)
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "✓ Backup created: %s\n", name)
				_, _ = fmt.Fprintf(w, "  Learned: %d, Freezed: %d\n", info.Stats["learned"], info.Stats["freezed"])
				_, _ = fmt.Fprintf(w, "  Location: %s\n", info.Path)
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackups(cmd, opts, func(m *backup.Manager) error {
				backups, err := m.List()
				if err != nil {
					return fmt.Errorf("listing backups: %w", err)
				}
				w := cmd.OutOrStdout()
				if len(backups) == 0 {
					_, _ = fmt.Fprintln(w, "No backups available.")
					_, _ = fmt.Fprintln(w, "Run 'journey backup' to create one.")
					return nil
				}
				_, _ = fmt.Fprintln(w, "Available backups:")
				for _, b := range backups {
					_, _ = fmt.Fprintf(w, "  %s  (%s)   %s: %d learned, %d freezed\n",
						b.Name, formatAge(time.Since(b.CreatedAt)), b.Topic, b.Stats["learned"], b.Stats["freezed"])
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restore [name]",
		Short: "Restore a backup (the latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackups(cmd, opts, func(m *backup.Manager) error {
				var name, safety string
				var err error
				if len(args) == 1 {
					name = args[0]
					safety, err = m.Restore(cmd.Context(), name)
				} else {
					name, safety, err = m.RestoreLatest(cmd.Context())
				}
				if err != nil {
					return fmt.Errorf("restoring backup: %w", err)
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "✓ Restored backup %s\n", name)
				if safety != "" {
					_, _ = fmt.Fprintf(w, "  Previous state saved as %s\n", safety)
				}
				return nil
			})
		},
	})

	var keep int
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete old backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackups(cmd, opts, func(m *backup.Manager) error {
				n, err := m.Prune(keep)
				if err != nil {
					return fmt.Errorf("pruning backups: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %d old %s\n", n, plural(n, "backup", "backups"))
				return nil
			})
		},
	}
	prune.Flags().IntVar(&keep, "keep", 5, "number of recent backups to keep")
	cmd.AddCommand(prune)

	return cmd
}

func withBackups(cmd *cobra.Command, opts *rootOptions, fn func(*backup.Manager) error) error {
	e, err := openEnv(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()
	return fn(backup.NewManager(e.kv, e.cfg.GetDataDir(), version))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// formatAge returns a human-readable age string.
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		return fmt.Sprintf("%d %s ago", mins, plural(mins, "minute", "minutes"))
	case d < 24*time.Hour:
		hours := int(d.Hours())
		return fmt.Sprintf("%d %s ago", hours, plural(hours, "hour", "hours"))
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		return fmt.Sprintf("%d %s ago", days, plural(days, "day", "days"))
	default:
		weeks := int(d.Hours() / 24 / 7)
		return fmt.Sprintf("%d %s ago", weeks, plural(weeks, "week", "weeks"))
	}
}
