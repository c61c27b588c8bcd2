package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"journey/internal/goal"
	"journey/internal/storage"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newGoalCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "goal", Short: "Set up or change the learning goal"}
	cmd.AddCommand(newGoalNewCmd(opts), newGoalUpdateCmd(opts), newGoalShowCmd(opts))
	return cmd
}

func newGoalNewCmd(opts *rootOptions) *cobra.Command {
	var topic, duration string
	var force bool
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start tracking a new goal",
		Long: `Start tracking a new goal. Without --topic and --duration an
interactive form asks for them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, opts)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			current, err := storage.LoadActiveGoal(ctx, e.kv)
			switch {
			case err == nil && !force:
				return fmt.Errorf("already learning %s; use 'journey goal update' or pass --force", current.TopicDisplay())
			case err != nil && !errors.Is(err, storage.ErrNoActiveGoal):
				return err
			}

			d, err := goalInput(cmd, &topic, duration)
			if err != nil {
				return err
			}
			def, err := createGoal(ctx, e, topic, d)
			if err != nil {
				return err
			}
			printGoal(cmd, "✓ Now learning", def)
			return nil
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "what you want to learn")
	cmd.Flags().StringVar(&duration, "duration", "", "goal length: week|month|year")
	cmd.Flags().BoolVar(&force, "force", false, "replace the active goal")
	return cmd
}

func newGoalUpdateCmd(opts *rootOptions) *cobra.Command {
	var topic, duration string
	var purge bool
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change the topic or duration of the active goal",
		Long: `Change the topic or duration of the active goal. The updated goal
starts today with an empty history; the old history is kept on disk unless
--purge is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, opts)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			current, err := e.activeGoal(ctx)
			if err != nil {
				return err
			}

			// Flags change only what they name; with neither, ask.
			if !cmd.Flags().Changed("topic") {
				topic = current.Topic
			}
			d := current.Duration
			if cmd.Flags().Changed("topic") || cmd.Flags().Changed("duration") {
				if duration != "" {
					if d, err = goal.ParseDuration(duration); err != nil {
						return err
					}
				}
			} else if d, err = promptGoal(&topic, current.Duration); err != nil {
				return err
			}

			def, err := current.Update(topic, d, opts.now().In(opts.loc))
			if err != nil {
				return err
			}
			if err := storage.SaveActiveGoal(ctx, e.kv, def); err != nil {
				return fmt.Errorf("saving goal: %w", err)
			}
			e.log.Info("goal updated", "old", current.ID, "new", def.ID)

			if purge {
				if err := storage.PurgeGoal(ctx, e.kv, current.ID); err != nil {
					return fmt.Errorf("purging old history: %w", err)
				}
				e.log.Info("old history purged", "goal", current.ID)
			}
			printGoal(cmd, "✓ Now learning", def)
			return nil
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "what you want to learn")
	cmd.Flags().StringVar(&duration, "duration", "", "goal length: week|month|year")
	cmd.Flags().BoolVar(&purge, "purge", false, "delete the old goal's history")
	return cmd
}

// goalJSON is the machine-readable form of "journey goal show".
type goalJSON struct {
	ID             string `json:"id"`
	Topic          string `json:"topic"`
	Duration       string `json:"duration"`
	StartDate      string `json:"start_date"`
	TargetDays     int    `json:"target_days"`
	AllowedFreezes int    `json:"allowed_freezes"`
}

func newGoalShowCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the active goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, opts)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			def, err := e.activeGoal(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), goalJSON{
					ID:             def.ID,
					Topic:          def.Topic,
					Duration:       string(def.Duration),
					StartDate:      def.StartDate.In(opts.loc).Format("2006-01-02"),
					TargetDays:     def.TargetDays,
					AllowedFreezes: def.AllowedFreezes,
				})
			}
			printGoal(cmd, "Learning", def)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Started: %s\n", def.StartDate.In(opts.loc).Format("Mon Jan 2, 2006"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

// goalInput resolves the topic and duration from flags, falling back to the
// interactive form when either flag was not given.
func goalInput(cmd *cobra.Command, topic *string, duration string) (goal.Duration, error) {
	if cmd.Flags().Changed("topic") && cmd.Flags().Changed("duration") {
		return goal.ParseDuration(duration)
	}

	var d goal.Duration
	if duration != "" {
		parsed, err := goal.ParseDuration(duration)
		if err != nil {
			return "", err
		}
		d = parsed
	}
	return promptGoal(topic, d)
}

// createGoal saves a new goal starting now and makes it active.
func createGoal(ctx context.Context, e *env, topic string, d goal.Duration) (goal.Definition, error) {
	def, err := goal.New(topic, d, e.opts.now().In(e.opts.loc))
	if err != nil {
		return goal.Definition{}, err
	}
	if err := storage.SaveActiveGoal(ctx, e.kv, def); err != nil {
		return goal.Definition{}, fmt.Errorf("saving goal: %w", err)
	}
	e.log.Info("goal created", "goal", def.ID, "duration", def.Duration)
	return def, nil
}

// promptGoal asks for a topic and a duration. topic is updated in place.
func promptGoal(topic *string, d goal.Duration) (goal.Duration, error) {
	if d == "" {
		d = goal.DurationWeek
	}

	options := make([]huh.Option[goal.Duration], 0, len(goal.Durations))
	for _, dur := range goal.Durations {
		label := fmt.Sprintf("%s (%d freezes)", dur.Label(), dur.Freezes())
		options = append(options, huh.NewOption(label, dur))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("I want to learn").
				Placeholder("Swift").
				Value(topic),
			huh.NewSelect[goal.Duration]().
				Title("I want to learn it for a").
				Options(options...).
				Value(&d),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", errors.New("goal setup canceled")
		}
		return "", fmt.Errorf("interactive form error: %w", err)
	}
	*topic = strings.TrimSpace(*topic)
	return d, nil
}

func printGoal(cmd *cobra.Command, verb string, def goal.Definition) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s for a %s: %d days, %d freezes\n",
		verb, def.TopicDisplay(), def.Duration, def.TargetDays, def.AllowedFreezes)
}
