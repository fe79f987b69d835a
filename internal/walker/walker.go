// Package walker implements the directory traversal under the expression
// engine: depth-first, sorted, pre- or post-order, with pruning and depth
// bounds.
package walker

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// Options shape one traversal.
type Options struct {
	// MinDepth suppresses items above it; descent still happens.
	MinDepth int
	// MaxDepth bounds descent. Negative means unbounded.
	MaxDepth int
	// PostOrder emits a directory after its contents.
	PostOrder bool
	// Follow descends into directories reached through symlinks.
	Follow bool
	// FollowRoot resolves the root itself when it is a symlink.
	FollowRoot bool
}

// Item is one emitted filesystem node.
type Item struct {
	Path  string
	Depth int
	IsDir bool
}

type task struct {
	path       string
	depth      int
	isDir      bool
	visitAfter bool

	// leave marks the end of a followed directory's subtree; popping it
	// takes the directory off the descent path.
	leave *devIno
}

// devIno identifies a directory across symlinks.
type devIno struct {
	dev uint64
	ino uint64
}

// Walker iterates a single tree. Next returns items one at a time; a
// non-nil error reports an unreadable directory or a filesystem loop and
// the walk continues past it.
type Walker struct {
	opts    Options
	root    string
	stack   []task
	pending *task
	started bool

	// onPath holds the directories currently being descended, keyed by
	// identity, so follow mode can refuse to re-enter an ancestor.
	onPath map[devIno]string
}

func New(root string, opts Options) *Walker {
	return &Walker{opts: opts, root: root}
}

// SkipDir cancels the descent into the directory most recently returned
// by Next. It only has an effect in pre-order walks, where the directory
// comes out before its contents.
func (w *Walker) SkipDir() {
	w.pending = nil
}

// Next returns the next item, or (nil, nil) when the walk is done.
func (w *Walker) Next() (*Item, error) {
	if !w.started {
		w.started = true
		w.stack = []task{{path: w.root, depth: 0, isDir: w.isDir(w.root, true)}}
	}

	if w.pending != nil {
		t := *w.pending
		w.pending = nil
		if err := w.descend(t); err != nil {
			return nil, err
		}
	}

	for len(w.stack) > 0 {
		t := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]

		if t.leave != nil {
			delete(w.onPath, *t.leave)
			continue
		}

		if t.visitAfter || !t.isDir {
			if t.depth < w.opts.MinDepth {
				continue
			}
			return &Item{Path: t.path, Depth: t.depth, IsDir: t.isDir}, nil
		}

		if w.opts.PostOrder {
			w.stack = append(w.stack, task{path: t.path, depth: t.depth, isDir: true, visitAfter: true})
			if err := w.descend(t); err != nil {
				return nil, err
			}
			continue
		}

		if t.depth < w.opts.MinDepth {
			if err := w.descend(t); err != nil {
				return nil, err
			}
			continue
		}

		// Descent is deferred to the next call so the caller can prune.
		pending := t
		w.pending = &pending
		return &Item{Path: t.path, Depth: t.depth, IsDir: true}, nil
	}

	return nil, nil
}

// descend pushes the children of a directory, reversed so the sorted
// order comes back off the stack.
func (w *Walker) descend(t task) error {
	if w.opts.MaxDepth >= 0 && t.depth >= w.opts.MaxDepth {
		return nil
	}

	// Following symlinks can reach an ancestor; refuse the re-entry
	// instead of descending forever.
	if w.opts.Follow {
		if id, ok := dirIdent(t.path); ok {
			if first, looped := w.onPath[id]; looped {
				return fmt.Errorf("filesystem loop detected: %q is part of the same loop as %q", t.path, first)
			}
			if w.onPath == nil {
				w.onPath = make(map[devIno]string)
			}
			w.onPath[id] = t.path
			w.stack = append(w.stack, task{leave: &id})
		}
	}

	entries, err := os.ReadDir(t.path)
	if err != nil {
		return err
	}

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		path := joinPath(t.path, e.Name())
		isDir := e.IsDir()
		if !isDir && e.Type()&os.ModeSymlink != 0 && w.opts.Follow {
			isDir = w.isDir(path, false)
		}
		w.stack = append(w.stack, task{path: path, depth: t.depth + 1, isDir: isDir})
	}
	return nil
}

// isDir classifies a path, resolving symlinks only when asked to.
func (w *Walker) isDir(path string, root bool) bool {
	follow := w.opts.Follow
	if root {
		follow = follow || w.opts.FollowRoot
	}
	var (
		info os.FileInfo
		err  error
	)
	if follow {
		info, err = os.Stat(path)
	} else {
		info, err = os.Lstat(path)
	}
	return err == nil && info.IsDir()
}

// dirIdent resolves a directory to its device and inode. A false return
// means the stat failed; ReadDir will surface the real error.
func dirIdent(path string) (devIno, bool) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return devIno{}, false
	}
	return devIno{dev: uint64(st.Dev), ino: st.Ino}, true
}

// joinPath appends a name without cleaning the parent, so walking `.`
// yields `./sub/file` the way find prints it.
func joinPath(parent, name string) string {
	if strings.HasSuffix(parent, "/") {
		return parent + name
	}
	return parent + "/" + name
}
