package docsync

import (
	"context"
	"log/slog"
	"os"
	"time"

	ferrors "git.home.luguber.info/inful/docsync/internal/foundation/errors"
	"git.home.luguber.info/inful/docsync/internal/logfields"
	"git.home.luguber.info/inful/docsync/internal/normalize"
	"git.home.luguber.info/inful/docsync/internal/tree"
)

// Change is a Markdown file whose synced copy differs from the source, or
// whose header is malformed.
type Change struct {
	Rel     string
	Outcome normalize.Outcome
}

// CheckResult lists what a sync would do to the source's Markdown files.
type CheckResult struct {
	Source   string
	Markdown int
	Changes  []Change
}

// Modified returns the changes that rewrite a document.
func (r *CheckResult) Modified() []Change {
	var out []Change
	for _, c := range r.Changes {
		if c.Outcome.Modified() {
			out = append(out, c)
		}
	}
	return out
}

// Check normalizes every Markdown file of the configured source in memory and
// reports the files a sync would rewrite or pass through as malformed.
// Nothing is written.
func (s *Syncer) Check(ctx context.Context) (*CheckResult, error) {
	paths, err := s.paths.Resolve()
	if err != nil {
		return nil, err
	}
	if err := checkSource(paths.Source); err != nil {
		return nil, err
	}

	start := time.Now()
	result := &CheckResult{Source: paths.Source}
	for entry, err := range tree.Walk(paths.Source) {
		if err != nil {
			return nil, fsError(ErrWalkFailed, "walk source", paths.Source, err)
		}
		if err := ctx.Err(); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "check canceled").Build()
		}
		if !entry.IsMarkdown() {
			continue
		}
		if info, err := os.Stat(entry.Path); err != nil || info.IsDir() {
			continue
		}

		content, err := os.ReadFile(entry.Path)
		if err != nil {
			return nil, fsError(ErrReadFailed, "read markdown", entry.Path, err)
		}
		result.Markdown++

		if _, outcome := s.normalizer.Normalize(content); outcome != normalize.OutcomeUnchanged {
			result.Changes = append(result.Changes, Change{Rel: entry.Rel, Outcome: outcome})
		}
	}

	s.logger.Info("Docs check completed",
		logfields.Source(paths.Source),
		logfields.Count(len(result.Modified())),
		slog.Int("markdown", result.Markdown),
		slog.Int("malformed", len(result.Changes)-len(result.Modified())),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return result, nil
}
