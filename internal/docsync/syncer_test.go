package docsync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsync/internal/config"
	ferrors "git.home.luguber.info/inful/docsync/internal/foundation/errors"
	"git.home.luguber.info/inful/docsync/internal/normalize"
)

type layout struct {
	source      string
	clearRoot   string
	destination string
}

func newLayout(t *testing.T) (layout, *config.Config) {
	t.Helper()
	root := t.TempDir()
	l := layout{
		source:      filepath.Join(root, "docs"),
		clearRoot:   filepath.Join(root, "web", "src", "content", "docs"),
		destination: filepath.Join(root, "web", "src", "content", "docs", "docs"),
	}
	require.NoError(t, os.MkdirAll(l.source, 0o755))

	cfg := config.Default()
	require.NoError(t, cfg.Apply(config.Overrides{
		Source:      l.source,
		Destination: l.destination,
		ClearRoot:   l.clearRoot,
	}))
	return l, cfg
}

func newTestSyncer(cfg *config.Config) *Syncer {
	return NewSyncer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func write(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRun_HeadingBecomesTitle(t *testing.T) {
	l, cfg := newLayout(t)
	write(t, filepath.Join(l.source, "a.md"), []byte("# Title\nBody"))

	report, err := newTestSyncer(cfg).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, "---\ntitle: \"Title\"\nhead: []\n---\n\nBody", read(t, filepath.Join(l.destination, "a.md")))
	require.Equal(t, 1, report.Markdown[normalize.OutcomeHeaderSynthesized])
	require.Equal(t, l.destination, report.Destination)
	require.NotEmpty(t, report.RunID)
}

func TestRun_ExistingHeaderGetsHead(t *testing.T) {
	l, cfg := newLayout(t)
	write(t, filepath.Join(l.source, "b.md"), []byte("---\ntitle: \"X\"\n---\nContent"))

	_, err := newTestSyncer(cfg).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, "---\ntitle: \"X\"\nhead: []\n---\nContent", read(t, filepath.Join(l.destination, "b.md")))
}

func TestRun_NonMarkdownIsByteIdentical(t *testing.T) {
	l, cfg := newLayout(t)
	blob := []byte{0x00, 0xff, '-', '-', '-', '\n', '#', ' ', 'x', '\r', '\n', 0x89, 'P', 'N', 'G'}
	write(t, filepath.Join(l.source, "c.txt"), blob)
	write(t, filepath.Join(l.source, "img", "logo.png"), blob)
	write(t, filepath.Join(l.source, "notes.MD"), []byte("# Not markdown by extension\n"))

	report, err := newTestSyncer(cfg).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, string(blob), read(t, filepath.Join(l.destination, "c.txt")))
	require.Equal(t, string(blob), read(t, filepath.Join(l.destination, "img", "logo.png")))
	require.Equal(t, "# Not markdown by extension\n", read(t, filepath.Join(l.destination, "notes.MD")))
	require.Equal(t, 3, report.Copied)
	require.Equal(t, 0, report.MarkdownFiles())
}

func TestRun_RemovesStaleContent(t *testing.T) {
	l, cfg := newLayout(t)
	write(t, filepath.Join(l.source, "keep.md"), []byte("# Keep\n"))
	write(t, filepath.Join(l.destination, "stale.md"), []byte("old"))
	write(t, filepath.Join(l.clearRoot, "other", "stale.txt"), []byte("old"))

	_, err := newTestSyncer(cfg).Run(context.Background())
	require.NoError(t, err)

	require.NoFileExists(t, filepath.Join(l.destination, "stale.md"))
	require.NoDirExists(t, filepath.Join(l.clearRoot, "other"))
	require.FileExists(t, filepath.Join(l.destination, "keep.md"))
}

func TestRun_MalformedHeaderPassesThrough(t *testing.T) {
	l, cfg := newLayout(t)
	in := "---\ntitle: X\n# Heading\n"
	write(t, filepath.Join(l.source, "broken.md"), []byte(in))

	report, err := newTestSyncer(cfg).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, in, read(t, filepath.Join(l.destination, "broken.md")))
	require.Equal(t, []string{"broken.md"}, report.Malformed)
}

func TestRun_MirrorsTreeShape(t *testing.T) {
	l, cfg := newLayout(t)
	write(t, filepath.Join(l.source, "guide", "intro.md"), []byte("---\ntitle: Intro\nhead: []\n---\nHi\n"))
	write(t, filepath.Join(l.source, "guide", "deep", "x.md"), []byte("text\n"))
	require.NoError(t, os.MkdirAll(filepath.Join(l.source, "empty"), 0o755))

	report, err := newTestSyncer(cfg).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, "---\ntitle: Intro\nhead: []\n---\nHi\n", read(t, filepath.Join(l.destination, "guide", "intro.md")))
	require.Equal(t, "---\ntitle: \"Documentación\"\nhead: []\n---\n\ntext\n", read(t, filepath.Join(l.destination, "guide", "deep", "x.md")))
	require.DirExists(t, filepath.Join(l.destination, "empty"))
	require.Equal(t, 3, report.Directories)
	require.Equal(t, 1, report.Markdown[normalize.OutcomeUnchanged])
	require.Equal(t, 2, report.MarkdownFiles())
	require.Equal(t, 2, report.Files())
}

func TestRun_FileSetMatchesSource(t *testing.T) {
	l, cfg := newLayout(t)
	files := []string{"a.md", "b.txt", filepath.Join("x", "c.md"), filepath.Join("x", "y", "d.bin")}
	for _, f := range files {
		write(t, filepath.Join(l.source, f), []byte("content"))
	}

	_, err := newTestSyncer(cfg).Run(context.Background())
	require.NoError(t, err)

	var got []string
	require.NoError(t, filepath.WalkDir(l.destination, func(path string, d os.DirEntry, err error) error {
		require.NoError(t, err)
		if !d.IsDir() {
			rel, relErr := filepath.Rel(l.destination, path)
			require.NoError(t, relErr)
			got = append(got, rel)
		}
		return nil
	}))
	require.ElementsMatch(t, files, got)
}

func TestRun_IsRepeatable(t *testing.T) {
	l, cfg := newLayout(t)
	write(t, filepath.Join(l.source, "a.md"), []byte("# A\n"))
	s := newTestSyncer(cfg)

	_, err := s.Run(context.Background())
	require.NoError(t, err)
	first := read(t, filepath.Join(l.destination, "a.md"))

	_, err = s.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, read(t, filepath.Join(l.destination, "a.md")))
}

func TestRun_MissingSource_IsFatalAndDeletesNothing(t *testing.T) {
	l, cfg := newLayout(t)
	require.NoError(t, os.RemoveAll(l.source))
	write(t, filepath.Join(l.destination, "existing.md"), []byte("keep"))

	_, err := newTestSyncer(cfg).Run(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, ErrSourceNotFound)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.True(t, classified.IsFatal())
	require.FileExists(t, filepath.Join(l.destination, "existing.md"))
}

func TestRun_SourceIsFile(t *testing.T) {
	l, cfg := newLayout(t)
	require.NoError(t, os.RemoveAll(l.source))
	write(t, l.source, []byte("not a dir"))

	_, err := newTestSyncer(cfg).Run(context.Background())
	require.ErrorIs(t, err, ErrSourceNotFound)
}

func TestRun_CanceledContext(t *testing.T) {
	l, cfg := newLayout(t)
	write(t, filepath.Join(l.source, "a.md"), []byte("# A\n"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestSyncer(cfg).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryRuntime))
}

func TestRun_UsesConfiguredDefaultTitle(t *testing.T) {
	l, cfg := newLayout(t)
	cfg.Normalize.DefaultTitle = "Docs"
	write(t, filepath.Join(l.source, "a.md"), []byte("no heading\n"))

	_, err := newTestSyncer(cfg).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, "---\ntitle: \"Docs\"\nhead: []\n---\n\nno heading\n", read(t, filepath.Join(l.destination, "a.md")))
}

func TestRun_SymlinkedFileIsFollowed_DirectoryIsSkipped(t *testing.T) {
	l, cfg := newLayout(t)
	outside := filepath.Join(filepath.Dir(l.source), "outside")
	write(t, filepath.Join(outside, "shared.md"), []byte("# Shared\n"))
	if err := os.Symlink(filepath.Join(outside, "shared.md"), filepath.Join(l.source, "shared.md")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(outside, filepath.Join(l.source, "linked")))

	report, err := newTestSyncer(cfg).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, "---\ntitle: \"Shared\"\nhead: []\n---\n\n", read(t, filepath.Join(l.destination, "shared.md")))
	require.NoDirExists(t, filepath.Join(l.destination, "linked"))
	require.Equal(t, []string{"linked"}, report.Skipped)
}

func TestRun_SymlinkedSourceRoot(t *testing.T) {
	l, cfg := newLayout(t)
	target := filepath.Join(filepath.Dir(l.source), "real-docs")
	write(t, filepath.Join(target, "a.md"), []byte("# A\n"))
	write(t, filepath.Join(target, "guide", "b.txt"), []byte("b"))
	require.NoError(t, os.RemoveAll(l.source))
	if err := os.Symlink(target, l.source); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	write(t, filepath.Join(l.destination, "stale.md"), []byte("old"))

	report, err := newTestSyncer(cfg).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, "---\ntitle: \"A\"\nhead: []\n---\n\n", read(t, filepath.Join(l.destination, "a.md")))
	require.Equal(t, "b", read(t, filepath.Join(l.destination, "guide", "b.txt")))
	require.NoFileExists(t, filepath.Join(l.destination, "stale.md"))
	require.Equal(t, 2, report.Files())
}

func TestRun_SourceLinkedIntoClearRoot_IsRejected(t *testing.T) {
	l, cfg := newLayout(t)
	inside := filepath.Join(l.clearRoot, "src")
	write(t, filepath.Join(inside, "a.md"), []byte("# A\n"))
	require.NoError(t, os.RemoveAll(l.source))
	if err := os.Symlink(inside, l.source); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	_, err := newTestSyncer(cfg).Run(context.Background())
	require.ErrorContains(t, err, "must not overlap")
	require.FileExists(t, filepath.Join(inside, "a.md"))
}

func TestRun_PreservesFileMode(t *testing.T) {
	l, cfg := newLayout(t)
	script := filepath.Join(l.source, "run.sh")
	write(t, script, []byte("#!/bin/sh\n"))
	require.NoError(t, os.Chmod(script, 0o755))

	_, err := newTestSyncer(cfg).Run(context.Background())
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(l.destination, "run.sh"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestClear_MissingRootIsNoop(t *testing.T) {
	_, cfg := newLayout(t)
	require.NoError(t, newTestSyncer(cfg).Clear(filepath.Join(t.TempDir(), "does", "not", "exist")))
}

func TestMirror_DoesNotClear(t *testing.T) {
	l, cfg := newLayout(t)
	write(t, filepath.Join(l.source, "a.md"), []byte("# A\n"))
	write(t, filepath.Join(l.destination, "extra.txt"), []byte("x"))

	report, err := newTestSyncer(cfg).Mirror(context.Background(), l.source, l.destination)
	require.NoError(t, err)
	require.Equal(t, 1, report.MarkdownFiles())
	require.FileExists(t, filepath.Join(l.destination, "extra.txt"))
	require.FileExists(t, filepath.Join(l.destination, "a.md"))
}

func TestMirror_WriteFailure_IsFilesystemError(t *testing.T) {
	l, cfg := newLayout(t)
	write(t, filepath.Join(l.source, "sub", "a.md"), []byte("# A\n"))
	// A file where the destination directory should go.
	write(t, filepath.Join(l.destination, "sub"), []byte("blocker"))

	_, err := newTestSyncer(cfg).Mirror(context.Background(), l.source, l.destination)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrWriteFailed))
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
}

func TestRun_InvalidPaths(t *testing.T) {
	l, cfg := newLayout(t)
	cfg.Paths.ClearRoot = filepath.Dir(l.source)

	_, err := newTestSyncer(cfg).Run(context.Background())
	require.ErrorContains(t, err, "must not overlap")
	require.DirExists(t, l.source)
}

func TestReport_LogAttrs(t *testing.T) {
	r := newReport("id", "src", "dst")
	r.Markdown[normalize.OutcomeHeadAdded] = 2
	r.Copied = 1

	keys := map[string]slog.Value{}
	for _, a := range r.LogAttrs() {
		keys[a.Key] = a.Value
	}
	require.Equal(t, int64(2), keys["markdown"].Int64())
	require.Equal(t, int64(2), keys["markdown_head_added"].Int64())
	require.Equal(t, int64(0), keys["markdown_malformed"].Int64())
	require.Equal(t, "id", keys["run_id"].String())
	require.NotContains(t, keys, "skipped")
}
