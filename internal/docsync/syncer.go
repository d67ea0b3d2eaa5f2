// Package docsync mirrors a docs directory into a site content collection,
// normalizing Markdown frontmatter on the way.
package docsync

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docsync/internal/config"
	ferrors "git.home.luguber.info/inful/docsync/internal/foundation/errors"
	"git.home.luguber.info/inful/docsync/internal/logfields"
	"git.home.luguber.info/inful/docsync/internal/normalize"
)

// Syncer runs the clear-then-mirror batch. A Syncer holds no per-run state;
// running two syncs against the same destination concurrently is not supported.
type Syncer struct {
	paths      config.PathsConfig
	normalizer *normalize.Normalizer
	logger     *slog.Logger
}

// NewSyncer creates a Syncer for the paths and normalization settings in cfg.
func NewSyncer(cfg *config.Config, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		paths:      cfg.Paths,
		normalizer: normalize.New(cfg.Normalize.Options()),
		logger:     logger,
	}
}

// Run validates the configured paths, deletes the clear root and mirrors the
// source into the destination.
//
// A missing source is reported before anything is deleted. Any later failure
// aborts the run and may leave a partially written destination, which the
// next run rebuilds from scratch.
func (s *Syncer) Run(ctx context.Context) (*Report, error) {
	paths, err := s.paths.Resolve()
	if err != nil {
		return nil, err
	}
	if err := checkSource(paths.Source); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := s.logger.With(logfields.RunID(runID))
	start := time.Now()

	log.Info("Starting docs sync",
		logfields.Source(paths.Source),
		logfields.Destination(paths.Destination),
		logfields.ClearRoot(paths.ClearRoot),
		slog.String("default_title", s.normalizer.DefaultTitle()))

	if err := s.Clear(paths.ClearRoot); err != nil {
		return nil, err
	}

	report, err := s.mirror(ctx, log, runID, paths.Source, paths.Destination)
	if err != nil {
		log.Error("Docs sync failed", logfields.Error(err))
		return nil, err
	}
	report.Duration = time.Since(start)

	log.LogAttrs(ctx, slog.LevelInfo, "Docs sync completed", report.LogAttrs()...)
	return report, nil
}

// Clear recursively deletes root. A missing root is not an error.
func (s *Syncer) Clear(root string) error {
	s.logger.Debug("Clearing destination root", logfields.ClearRoot(root))
	if err := os.RemoveAll(root); err != nil {
		return fsError(ErrClearFailed, "clear", root, err)
	}
	return nil
}

// Mirror copies the src tree into dst without clearing anything first.
// Markdown files are normalized, all other files are copied byte for byte.
func (s *Syncer) Mirror(ctx context.Context, src, dst string) (*Report, error) {
	if err := checkSource(src); err != nil {
		return nil, err
	}
	start := time.Now()
	runID := uuid.NewString()

	report, err := s.mirror(ctx, s.logger.With(logfields.RunID(runID)), runID, src, dst)
	if err != nil {
		return nil, err
	}
	report.Duration = time.Since(start)
	return report, nil
}

func checkSource(src string) error {
	info, err := os.Stat(src)
	if err == nil && info.IsDir() {
		return nil
	}
	if err == nil {
		err = fmt.Errorf("%s is not a directory", src)
	}
	return ferrors.WrapError(fmt.Errorf("%w: %w", ErrSourceNotFound, err), ferrors.CategoryConfig, "check source").
		Fatal().
		WithContext("path", src).
		Build()
}

func fsError(sentinel error, message, path string, err error) error {
	return ferrors.WrapError(fmt.Errorf("%w: %w", sentinel, err), ferrors.CategoryFileSystem, message).
		WithContext("path", path).
		Build()
}
