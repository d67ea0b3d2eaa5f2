package config

import (
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/docsync/internal/foundation/errors"
)

// ResolvedPaths holds absolute, cleaned sync paths.
type ResolvedPaths struct {
	Source      string
	Destination string
	ClearRoot   string
}

// Resolve makes all paths absolute (relative to the working directory) and
// checks how they relate to each other:
//
//   - the clear root must contain (or be) the destination, so stale output is removed;
//   - the clear root and the source must not overlap, so clearing never
//     deletes source files and mirroring never reads its own output.
func (p PathsConfig) Resolve() (ResolvedPaths, error) {
	var r ResolvedPaths
	for _, item := range []struct {
		name string
		in   string
		out  *string
	}{
		{"source", p.Source, &r.Source},
		{"destination", p.Destination, &r.Destination},
		{"clear_root", p.ClearRoot, &r.ClearRoot},
	} {
		if strings.TrimSpace(item.in) == "" {
			return ResolvedPaths{}, ferrors.ConfigError("path must not be empty").WithContext("field", item.name).Build()
		}
		abs, err := filepath.Abs(item.in)
		if err != nil {
			return ResolvedPaths{}, ferrors.WrapError(err, ferrors.CategoryConfig, "cannot resolve path").
				WithContext("field", item.name).
				WithContext("path", item.in).
				Build()
		}
		*item.out = abs
	}

	if !IsWithin(r.ClearRoot, r.Destination) {
		return ResolvedPaths{}, ferrors.ConfigError("destination must be inside clear_root").
			WithContext("destination", r.Destination).
			WithContext("clear_root", r.ClearRoot).
			Build()
	}
	source, clearRoot := realPath(r.Source), realPath(r.ClearRoot)
	if IsWithin(r.ClearRoot, r.Source) || IsWithin(r.Source, r.ClearRoot) ||
		IsWithin(clearRoot, source) || IsWithin(source, clearRoot) {
		return ResolvedPaths{}, ferrors.ConfigError("source and clear_root must not overlap").
			WithContext("source", r.Source).
			WithContext("clear_root", r.ClearRoot).
			Build()
	}
	return r, nil
}

// IsWithin reports whether path equals parent or lies below it. Both paths
// must be absolute and clean.
func IsWithin(parent, path string) bool {
	rel, err := filepath.Rel(parent, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// realPath resolves symlinks in p when it exists.
func realPath(p string) string {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}
	return p
}
