package commands

import (
	"context"
	"time"

	"git.home.luguber.info/inful/docsync/internal/docsync"
	"git.home.luguber.info/inful/docsync/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	PathFlags `embed:""`
	Debounce  time.Duration `help:"Quiet period before a change triggers a sync (default: from config, 300ms)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root, w.PathFlags)
	if err != nil {
		return err
	}
	if w.Debounce > 0 {
		cfg.Watch.Debounce = w.Debounce
	}

	paths, err := cfg.Paths.Resolve()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	syncer := docsync.NewSyncer(cfg, g.Logger)
	run := func(ctx context.Context) error {
		report, err := syncer.Run(ctx)
		if err != nil {
			return err
		}
		printSynced(g, report)
		return nil
	}
	return watch.New(paths.Source, cfg.Watch.Debounce, run, g.Logger).Run(ctx)
}
