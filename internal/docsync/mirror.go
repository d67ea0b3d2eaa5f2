package docsync

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/docsync/internal/foundation/errors"
	"git.home.luguber.info/inful/docsync/internal/logfields"
	"git.home.luguber.info/inful/docsync/internal/normalize"
	"git.home.luguber.info/inful/docsync/internal/tree"
)

const dirPerm = 0o755

func (s *Syncer) mirror(ctx context.Context, log *slog.Logger, runID, src, dst string) (*Report, error) {
	report := newReport(runID, src, dst)

	if err := os.MkdirAll(dst, dirPerm); err != nil {
		return nil, fsError(ErrWriteFailed, "create directory", dst, err)
	}

	for entry, err := range tree.Walk(src) {
		if err != nil {
			return nil, fsError(ErrWalkFailed, "walk source", src, err)
		}
		if err := ctx.Err(); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "sync canceled").Build()
		}

		target := entry.Target(dst)

		info, err := os.Stat(entry.Path)
		if err != nil {
			return nil, fsError(ErrReadFailed, "stat", entry.Path, err)
		}

		switch {
		case entry.IsDir():
			if err := os.MkdirAll(target, dirPerm); err != nil {
				return nil, fsError(ErrWriteFailed, "create directory", target, err)
			}
			report.Directories++

		case entry.IsSymlink() && info.IsDir():
			// Following it could loop.
			log.Warn("Skipping symlinked directory", logfields.File(entry.Rel))
			report.Skipped = append(report.Skipped, entry.Rel)

		case entry.IsMarkdown():
			outcome, err := s.writeMarkdown(entry.Path, target, info.Mode().Perm())
			if err != nil {
				return nil, err
			}
			report.Markdown[outcome]++
			if outcome == normalize.OutcomeMalformed {
				report.Malformed = append(report.Malformed, entry.Rel)
			}
			log.Debug("Synced markdown", logfields.File(entry.Rel), logfields.Outcome(outcome.String()))

		default:
			if err := copyFile(entry.Path, target, info.Mode().Perm()); err != nil {
				return nil, err
			}
			report.Copied++
			log.Debug("Copied file", logfields.File(entry.Rel))
		}
	}

	return report, nil
}

func (s *Syncer) writeMarkdown(src, dst string, perm fs.FileMode) (normalize.Outcome, error) {
	content, err := os.ReadFile(src)
	if err != nil {
		return 0, fsError(ErrReadFailed, "read markdown", src, err)
	}

	out, outcome := s.normalizer.Normalize(content)

	if err := os.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return 0, fsError(ErrWriteFailed, "create directory", filepath.Dir(dst), err)
	}
	if err := os.WriteFile(dst, out, perm); err != nil {
		return 0, fsError(ErrWriteFailed, "write markdown", dst, err)
	}
	return outcome, nil
}

// copyFile copies a single file from src to dst, creating or truncating dst.
func copyFile(src, dst string, perm fs.FileMode) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fsError(ErrReadFailed, "open file", src, err)
	}
	defer func() {
		_ = srcFile.Close()
	}()

	if err := os.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return fsError(ErrWriteFailed, "create directory", filepath.Dir(dst), err)
	}
	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fsError(ErrWriteFailed, "create file", dst, err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return fsError(ErrWriteFailed, "copy file", dst, err)
	}
	if err := dstFile.Close(); err != nil {
		return fsError(ErrWriteFailed, "copy file", dst, err)
	}
	return nil
}
