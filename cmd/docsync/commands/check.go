package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docsync/internal/docsync"
	ferrors "git.home.luguber.info/inful/docsync/internal/foundation/errors"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	PathFlags `embed:""`
	Strict    bool `help:"Exit non-zero when any Markdown file would be rewritten"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root, c.PathFlags)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	result, err := docsync.NewSyncer(cfg, g.Logger).Check(ctx)
	if err != nil {
		return err
	}

	out := g.stdout()
	for _, change := range result.Changes {
		_, _ = fmt.Fprintf(out, "%-20s %s\n", change.Outcome, change.Rel)
	}
	modified := len(result.Modified())
	_, _ = fmt.Fprintf(out, "%d of %d Markdown files would be rewritten\n", modified, result.Markdown)

	if c.Strict && modified > 0 {
		return ferrors.ValidationError("markdown files need normalization").
			WithContext("count", modified).
			WithContext("source", result.Source).
			Build()
	}
	return nil
}
