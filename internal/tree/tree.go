// Package tree provides a lazy traversal of a directory tree.
package tree

import (
	"errors"
	"io/fs"
	"iter"
	"path/filepath"
	"strings"
)

// MarkdownExt is the extension that classifies a file as Markdown.
const MarkdownExt = ".md"

// Entry is a single directory entry below the walked root.
type Entry struct {
	Path string // Path including the root
	Rel  string // Path relative to the root
	Type fs.FileMode
}

// IsDir reports whether the entry is a directory (symlinks are not followed).
func (e Entry) IsDir() bool { return e.Type.IsDir() }

// IsSymlink reports whether the entry is a symbolic link.
func (e Entry) IsSymlink() bool { return e.Type&fs.ModeSymlink != 0 }

// IsMarkdown reports whether the entry is a non-directory whose name ends in `.md`.
func (e Entry) IsMarkdown() bool {
	return !e.IsDir() && strings.HasSuffix(filepath.Base(e.Path), MarkdownExt)
}

// Target returns the entry's destination path under root.
func (e Entry) Target(root string) string {
	return filepath.Join(root, e.Rel)
}

var errStopped = errors.New("tree: walk stopped")

// Walk yields every entry below root in lexical order, parents before their
// children. The root itself is not yielded. A symlinked root is resolved
// first; links below it are yielded as entries and not followed. An error
// ends the sequence; it is yielded once with a zero Entry.
func Walk(root string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		root, err := filepath.EvalSymlinks(root)
		if err != nil {
			yield(Entry{}, err)
			return
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path == root {
				if !d.IsDir() {
					return &fs.PathError{Op: "walk", Path: root, Err: errNotDir}
				}
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if !yield(Entry{Path: path, Rel: rel, Type: d.Type()}, nil) {
				return errStopped
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopped) {
			yield(Entry{}, err)
		}
	}
}

var errNotDir = errors.New("not a directory")
