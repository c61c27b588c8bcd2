package main

import (
	"context"
	"errors"

	"journey/internal/storage"
	"journey/internal/ui"
)

// runTUI opens the activity screen, asking for a goal first when none is
// active yet.
func runTUI(ctx context.Context, opts *rootOptions) error {
	e, err := openEnv(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	def, err := storage.LoadActiveGoal(ctx, e.kv)
	if errors.Is(err, storage.ErrNoActiveGoal) {
		var topic string
		d, perr := promptGoal(&topic, "")
		if perr != nil {
			return perr
		}
		def, err = createGoal(ctx, e, topic, d)
	}
	if err != nil {
		return err
	}

	styles := ui.NewStylesFromTheme(&e.cfg.Theme)
	return ui.Run(e.engine(ctx, def), styles, &ui.AppConfig{
		Keys:   &e.cfg.Keys,
		Logger: e.log.Logger,
	})
}
