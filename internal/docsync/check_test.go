package docsync

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsync/internal/normalize"
)

func TestCheck_ReportsPendingChanges(t *testing.T) {
	l, cfg := newLayout(t)
	write(t, filepath.Join(l.source, "a.md"), []byte("# Title\nBody"))
	write(t, filepath.Join(l.source, "b.md"), []byte("---\ntitle: \"X\"\n---\nContent"))
	write(t, filepath.Join(l.source, "ok.md"), []byte("---\ntitle: OK\nhead: []\n---\n"))
	write(t, filepath.Join(l.source, "sub", "broken.md"), []byte("---\ntitle: X\n"))
	write(t, filepath.Join(l.source, "c.txt"), []byte("ignored"))

	result, err := newTestSyncer(cfg).Check(context.Background())
	require.NoError(t, err)

	require.Equal(t, l.source, result.Source)
	require.Equal(t, 4, result.Markdown)
	require.ElementsMatch(t, []Change{
		{Rel: "a.md", Outcome: normalize.OutcomeHeaderSynthesized},
		{Rel: "b.md", Outcome: normalize.OutcomeHeadAdded},
		{Rel: filepath.Join("sub", "broken.md"), Outcome: normalize.OutcomeMalformed},
	}, result.Changes)
	require.Len(t, result.Modified(), 2)
}

func TestCheck_WritesNothing(t *testing.T) {
	l, cfg := newLayout(t)
	write(t, filepath.Join(l.source, "a.md"), []byte("# A\n"))
	write(t, filepath.Join(l.destination, "stale.md"), []byte("old"))

	_, err := newTestSyncer(cfg).Check(context.Background())
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(l.destination, "stale.md"))
	require.NoFileExists(t, filepath.Join(l.destination, "a.md"))
	data, err := os.ReadFile(filepath.Join(l.source, "a.md"))
	require.NoError(t, err)
	require.Equal(t, "# A\n", string(data))
}

func TestCheck_AgreesWithSync(t *testing.T) {
	l, cfg := newLayout(t)
	write(t, filepath.Join(l.source, "a.md"), []byte("plain\n"))
	write(t, filepath.Join(l.source, "b.md"), []byte("---\nhead: []\n---\n"))
	s := newTestSyncer(cfg)

	result, err := s.Check(context.Background())
	require.NoError(t, err)
	report, err := s.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, report.MarkdownFiles(), result.Markdown)
	require.Len(t, result.Modified(), report.MarkdownFiles()-report.Markdown[normalize.OutcomeUnchanged])
}

func TestCheck_MissingSource(t *testing.T) {
	l, cfg := newLayout(t)
	require.NoError(t, os.RemoveAll(l.source))

	_, err := newTestSyncer(cfg).Check(context.Background())
	require.ErrorIs(t, err, ErrSourceNotFound)
}

func TestCheck_CleanTree(t *testing.T) {
	l, cfg := newLayout(t)
	write(t, filepath.Join(l.source, "a.md"), []byte("---\ntitle: A\nhead: []\n---\nBody\n"))

	result, err := newTestSyncer(cfg).Check(context.Background())
	require.NoError(t, err)
	require.Empty(t, result.Changes)
	require.Empty(t, result.Modified())
}

func TestCheck_LogsSummary(t *testing.T) {
	l, cfg := newLayout(t)
	write(t, filepath.Join(l.source, "a.md"), []byte("# A\n"))
	write(t, filepath.Join(l.source, "broken.md"), []byte("---\ntitle: X\n"))

	var buf bytes.Buffer
	s := NewSyncer(cfg, slog.New(slog.NewTextHandler(&buf, nil)))
	_, err := s.Check(context.Background())
	require.NoError(t, err)

	require.Contains(t, buf.String(), `msg="Docs check completed"`)
	require.Contains(t, buf.String(), "count=1")
	require.Contains(t, buf.String(), "markdown=2")
	require.Contains(t, buf.String(), "malformed=1")
}
