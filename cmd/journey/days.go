package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"journey/internal/streak"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	errAlreadyLogged = errors.New("day is already logged")
	errNoFreezesLeft = errors.New("no freezes left")
)

// statusJSON is the machine-readable form of "journey status".
type statusJSON struct {
	Topic            string `json:"topic"`
	Duration         string `json:"duration"`
	TargetDays       int    `json:"target_days"`
	AllowedFreezes   int    `json:"allowed_freezes"`
	CurrentStreak    int    `json:"current_streak"`
	UsedFreezes      int    `json:"used_freezes"`
	RemainingFreezes int    `json:"remaining_freezes"`
	Completed        bool   `json:"completed"`
	Today            string `json:"today"`
	TodayStatus      string `json:"today_status,omitempty"`
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current streak and freezes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd.Context(), opts, func(e *env, eng *streak.Engine) error {
				v := eng.View()
				todayStatus, _ := eng.StatusOn(eng.Today())
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), statusJSON{
						Topic:            eng.Goal().Topic,
						Duration:         string(eng.Goal().Duration),
						TargetDays:       v.TargetDays,
						AllowedFreezes:   v.AllowedFreezes,
						CurrentStreak:    v.CurrentStreak,
						UsedFreezes:      v.UsedFreezes,
						RemainingFreezes: v.RemainingFreezes,
						Completed:        v.HasCompletedGoal,
						Today:            eng.Today().String(),
						TodayStatus:      string(todayStatus),
					})
				}

				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "Learning %s for a %s (%d days)\n", v.Topic, eng.Goal().Duration, v.TargetDays)
				_, _ = fmt.Fprintf(w, "Streak:  %d %s learned\n", v.CurrentStreak, dayWord(v.CurrentStreak))
				_, _ = fmt.Fprintf(w, "Freezes: %d out of %d used\n", v.UsedFreezes, v.AllowedFreezes)
				if todayStatus == "" {
					_, _ = fmt.Fprintln(w, "Today:   not logged yet")
				} else {
					_, _ = fmt.Fprintf(w, "Today:   %s\n", todayStatus)
				}
				if v.HasCompletedGoal {
					_, _ = fmt.Fprintln(w, "Goal completed! Well done.")
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newLearnedCmd(opts *rootOptions) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "learned",
		Short: "Log a day as learned (today by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd.Context(), opts, func(e *env, eng *streak.Engine) error {
				day, err := resolveDay(eng, date)
				if err != nil {
					return err
				}
				eng.SelectDay(day)
				if !eng.MarkLearned() {
					return fmt.Errorf("%s: %w", day, errAlreadyLogged)
				}
				v := eng.View()
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged %s as learned. Streak: %d %s\n", day, v.CurrentStreak, dayWord(v.CurrentStreak))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to log (YYYY-MM-DD)")
	return cmd
}

func newFreezeCmd(opts *rootOptions) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "freeze",
		Short: "Spend a freeze on a day (today by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd.Context(), opts, func(e *env, eng *streak.Engine) error {
				day, err := resolveDay(eng, date)
				if err != nil {
					return err
				}
				if _, ok := eng.StatusOn(day); ok {
					return fmt.Errorf("%s: %w", day, errAlreadyLogged)
				}
				if eng.View().RemainingFreezes <= 0 {
					return errNoFreezesLeft
				}
				eng.SelectDay(day)
				if !eng.MarkFreezed() {
					return fmt.Errorf("could not freeze %s", day)
				}
				v := eng.View()
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "❄ Logged %s as freezed. %d out of %d freezes used\n", day, v.UsedFreezes, v.AllowedFreezes)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to freeze (YYYY-MM-DD)")
	return cmd
}

func newResetCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Start the same goal over with an empty history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd.Context(), opts, func(e *env, eng *streak.Engine) error {
				if !yes {
					ok, err := confirm(fmt.Sprintf("Reset the streak and history for %s?", eng.View().Topic))
					if err != nil {
						return err
					}
					if !ok {
						_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Reset canceled.")
						return nil
					}
				}
				eng.ResetSameGoal()
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Started %s over. Streak: 0 days\n", eng.View().Topic)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// historyEntry is one line of "journey history --json".
type historyEntry struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List every logged day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd.Context(), opts, func(e *env, eng *streak.Engine) error {
				days := eng.Days()
				entries := make([]historyEntry, 0, len(days))
				for _, d := range days {
					s, _ := eng.StatusOn(d)
					entries = append(entries, historyEntry{Date: d.String(), Status: string(s)})
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), entries)
				}

				w := cmd.OutOrStdout()
				if len(entries) == 0 {
					_, _ = fmt.Fprintln(w, "No days logged yet.")
					return nil
				}
				for _, en := range entries {
					_, _ = fmt.Fprintf(w, "%s  %s\n", en.Date, en.Status)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

// resolveDay parses a --date value; empty means today.
func resolveDay(eng *streak.Engine, date string) (streak.Day, error) {
	if date == "" {
		return eng.Today(), nil
	}
	return streak.ParseDay(date)
}

func dayWord(n int) string {
	return plural(n, "day", "days")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// confirm asks a yes/no question on the terminal.
func confirm(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Reset").
				Negative("Keep").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("interactive form error: %w", err)
	}
	return ok, nil
}
