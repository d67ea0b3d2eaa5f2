package docsync

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docsync/internal/logfields"
	"git.home.luguber.info/inful/docsync/internal/normalize"
)

// Report summarizes a mirror run.
type Report struct {
	RunID       string
	Source      string
	Destination string
	Directories int
	Copied      int                       // Non-Markdown files copied verbatim
	Markdown    map[normalize.Outcome]int // Markdown files by normalization outcome
	Malformed   []string                  // Relative paths passed through due to an unclosed header
	Skipped     []string                  // Relative paths not mirrored (symlinked directories)
	Duration    time.Duration
}

func newReport(runID, src, dst string) *Report {
	return &Report{
		RunID:       runID,
		Source:      src,
		Destination: dst,
		Markdown:    make(map[normalize.Outcome]int, len(normalize.Outcomes)),
	}
}

// MarkdownFiles returns the number of Markdown files written.
func (r *Report) MarkdownFiles() int {
	total := 0
	for _, n := range r.Markdown {
		total += n
	}
	return total
}

// Files returns the number of files written.
func (r *Report) Files() int {
	return r.Copied + r.MarkdownFiles()
}

// LogAttrs returns the report as structured log attributes.
func (r *Report) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		logfields.RunID(r.RunID),
		logfields.Source(r.Source),
		logfields.Destination(r.Destination),
		slog.Int("directories", r.Directories),
		slog.Int("files", r.Files()),
		slog.Int("copied", r.Copied),
		slog.Int("markdown", r.MarkdownFiles()),
	}
	for _, o := range normalize.Outcomes {
		attrs = append(attrs, slog.Int("markdown_"+o.String(), r.Markdown[o]))
	}
	if len(r.Skipped) > 0 {
		attrs = append(attrs, slog.Int("skipped", len(r.Skipped)))
	}
	return append(attrs, logfields.DurationMS(float64(r.Duration.Microseconds())/1000))
}
