package git

import (
	"io"

	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// commitWalker yields commits reachable from a start commit, newest
// committer time first. Unlike go-git's ctime iterator it never drops a
// readable commit because one of its parents cannot be loaded: the parent is
// recorded as missing and the commit is still returned.
type commitWalker struct {
	store   storer.EncodedObjectStorer
	seen    map[plumbing.Hash]bool
	shallow map[plumbing.Hash]bool
	heap    *binaryheap.Heap

	// missing counts parents that could not be loaded
	missing int
}

func newCommitWalker(store storer.EncodedObjectStorer, start *object.Commit, shallow []plumbing.Hash) *commitWalker {
	w := &commitWalker{
		store:   store,
		seen:    make(map[plumbing.Hash]bool),
		shallow: make(map[plumbing.Hash]bool, len(shallow)),
		heap: binaryheap.NewWith(func(a, b interface{}) int {
			if a.(*object.Commit).Committer.When.Before(b.(*object.Commit).Committer.When) {
				return 1
			}
			return -1
		}),
	}
	for _, h := range shallow {
		w.shallow[h] = true
	}
	w.heap.Push(start)
	return w
}

// Next returns the next commit, or io.EOF once history is exhausted
func (w *commitWalker) Next() (*object.Commit, error) {
	for {
		popped, ok := w.heap.Pop()
		if !ok {
			return nil, io.EOF
		}
		c := popped.(*object.Commit)
		if w.seen[c.Hash] {
			continue
		}
		w.seen[c.Hash] = true

		if w.shallow[c.Hash] {
			return c, nil
		}
		for _, h := range c.ParentHashes {
			if w.seen[h] {
				continue
			}
			parent, err := object.GetCommit(w.store, h)
			if err != nil {
				w.seen[h] = true
				w.missing++
				continue
			}
			w.heap.Push(parent)
		}
		return c, nil
	}
}

// isBoundary reports whether c is a shallow-clone boundary whose parents are
// not part of the local history
func (w *commitWalker) isBoundary(c *object.Commit) bool {
	return w.shallow[c.Hash]
}
