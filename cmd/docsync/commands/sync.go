package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docsync/internal/docsync"
)

// SyncCmd implements the 'sync' command.
type SyncCmd struct {
	PathFlags `embed:""`
}

func (s *SyncCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root, s.PathFlags)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	report, err := docsync.NewSyncer(cfg, g.Logger).Run(ctx)
	if err != nil {
		return err
	}
	printSynced(g, report)
	return nil
}

func printSynced(g *Global, report *docsync.Report) {
	_, _ = fmt.Fprintf(g.stdout(), "Synced docs: %s -> %s\n", report.Source, report.Destination)
}
