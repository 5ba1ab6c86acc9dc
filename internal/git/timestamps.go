package git

import (
	"context"
	"io"
	"sort"

	"github.com/go-git/go-git/v5/plumbing/object"

	"dossiers/internal/observability"
	apperrors "dossiers/pkg/errors"
	"dossiers/pkg/models"
)

// BuildOptions bound and instrument a history walk. The zero value walks the
// entire reachable history.
type BuildOptions struct {
	// MaxCommits stops the walk after this many commits; 0 means no limit.
	MaxCommits int
	// DetectRenames turns on similarity-based rename detection in tree diffs.
	// Exact results for tracked paths do not depend on it: a rename target is
	// seen as an addition either way.
	DetectRenames bool
	Logger        *observability.Logger
}

// TimestampCache maps each path it was built for to the time the path was
// introduced and last changed. It is immutable once built and safe for
// concurrent reads. A nil *TimestampCache answers every query with None.
type TimestampCache struct {
	root  string
	times map[string]models.PathTimestamps
}

// BuildTimestampCache walks the history of repo once and resolves
// timestamps for paths. A nil repo yields an empty cache.
func BuildTimestampCache(repo *Repository, paths []string) *TimestampCache {
	return BuildTimestampCacheContext(context.Background(), repo, paths, BuildOptions{})
}

// BuildTimestampCacheContext is BuildTimestampCache with a cancellation
// context and walk options. Cancellation and the commit budget are checked
// between commits; paths unresolved at that point stay None.
func BuildTimestampCacheContext(ctx context.Context, repo *Repository, paths []string, opts BuildOptions) *TimestampCache {
	if repo == nil {
		return &TimestampCache{times: map[string]models.PathTimestamps{}}
	}

	targets := NormalizePaths(repo.workdir, paths)
	w := newWalk(targets)
	cache := &TimestampCache{root: repo.workdir, times: w.times}
	if len(targets) == 0 {
		return cache
	}

	logger := observability.OrDefault(opts.Logger).WithField("component", "history")

	head, err := repo.repo.Head()
	if err != nil {
		logger.DebugWithFields("no HEAD to walk from", map[string]interface{}{"error": err.Error()})
		return cache
	}

	headCommit, err := repo.repo.CommitObject(head.Hash())
	if err != nil {
		logger.WarnWithFields("failed to start history walk", map[string]interface{}{
			"code":  apperrors.ErrCodeHistoryWalk,
			"head":  head.Hash().String(),
			"error": err.Error(),
		})
		return cache
	}

	shallow, err := repo.repo.Storer.Shallow()
	if err != nil {
		logger.DebugWithFields("cannot read shallow boundary", map[string]interface{}{"error": err.Error()})
	}
	walker := newCommitWalker(repo.repo.Storer, headCommit, shallow)

	diffOpts := &object.DiffTreeOptions{}
	if opts.DetectRenames {
		diffOpts = object.DefaultDiffTreeOptions
	}

	visited, skipped, rootDiffs := 0, 0, 0
	stop := "resolved"
	for !w.done() {
		if err := ctx.Err(); err != nil {
			stop = "canceled"
			break
		}
		if opts.MaxCommits > 0 && visited >= opts.MaxCommits {
			stop = "budget"
			break
		}

		commit, err := walker.Next()
		if err == io.EOF {
			stop = "exhausted"
			break
		}
		visited++

		base, err := parentTree(commit, walker.isBoundary(commit))
		if err != nil {
			rootDiffs++
			if logger.Enabled(observability.DebugLevel) {
				logger.DebugWithFields("parent unavailable, diffing against the empty tree", map[string]interface{}{
					"commit": commit.Hash.String(),
					"error":  err.Error(),
				})
			}
		}

		changes, err := commitChanges(ctx, commit, base, diffOpts)
		if err != nil {
			skipped++
			logger.DebugWithFields("skipping commit", map[string]interface{}{
				"commit": commit.Hash.String(),
				"error":  err.Error(),
			})
			continue
		}

		w.apply(changes, commitTime(commit))
	}

	logger.DebugWithFields("history walk finished", map[string]interface{}{
		"targets":             len(targets),
		"commits":             visited,
		"skipped":             skipped,
		"missing_parents":     walker.missing,
		"empty_tree_diffs":    rootDiffs,
		"stop":                stop,
		"pending_additions":   len(w.pendingAddition),
		"pending_last_change": len(w.pendingChange),
	})

	return cache
}

// parentTree returns the tree of the first parent of commit. It returns a nil
// tree for root commits and shallow boundaries, and a nil tree with an error
// when the parent or its tree cannot be read; either way the commit is then
// diffed against the empty tree.
func parentTree(commit *object.Commit, boundary bool) (*object.Tree, error) {
	if boundary || commit.NumParents() == 0 {
		return nil, nil
	}
	parent, err := commit.Parent(0)
	if err != nil {
		return nil, err
	}
	return parent.Tree()
}

// commitChanges diffs a commit against base, which is nil for the empty tree.
// Only an unreadable commit tree is an error.
func commitChanges(ctx context.Context, commit *object.Commit, base *object.Tree, opts *object.DiffTreeOptions) (object.Changes, error) {
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}
	return object.DiffTreeWithOptions(ctx, base, tree, opts)
}

func commitTime(commit *object.Commit) models.Timestamp {
	return models.Timestamp(commit.Committer.When.Unix() * 1000)
}

type walk struct {
	times           map[string]models.PathTimestamps
	pendingAddition map[string]struct{}
	pendingChange   map[string]struct{}
}

func newWalk(targets []string) *walk {
	w := &walk{
		times:           make(map[string]models.PathTimestamps, len(targets)),
		pendingAddition: make(map[string]struct{}, len(targets)),
		pendingChange:   make(map[string]struct{}, len(targets)),
	}
	for _, t := range targets {
		w.times[t] = models.PathTimestamps{}
		w.pendingAddition[t] = struct{}{}
		w.pendingChange[t] = struct{}{}
	}
	return w
}

func (w *walk) done() bool {
	return len(w.pendingAddition) == 0 && len(w.pendingChange) == 0
}

func (w *walk) apply(changes object.Changes, when models.Timestamp) {
	for _, ch := range changes {
		from, to := ch.From.Name, ch.To.Name
		switch {
		case to == "":
			w.observe(from, false, when)
		case from == "":
			w.observe(to, true, when)
		case from != to:
			w.observe(from, false, when)
			w.observe(to, true, when)
		default:
			w.observe(to, false, when)
		}
	}
}

// observe records one change to p. Walking newest-first, the first change
// seen is the latest one and the first introduction seen is the one the path
// currently descends from; neither is overwritten afterwards.
func (w *walk) observe(p string, introduced bool, when models.Timestamp) {
	entry, tracked := w.times[p]
	if !tracked {
		return
	}

	if _, pending := w.pendingChange[p]; pending {
		entry.LastChange = models.Some(when)
		delete(w.pendingChange, p)
	}
	if _, pending := w.pendingAddition[p]; pending && introduced {
		entry.Addition = models.Some(when)
		delete(w.pendingAddition, p)
	}

	w.times[p] = entry
}

// Root returns the working-directory root the cache keys are relative to
func (c *TimestampCache) Root() string {
	if c == nil {
		return ""
	}
	return c.root
}

// Len returns the number of paths the cache covers
func (c *TimestampCache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.times)
}

// Paths returns the covered paths in sorted order
func (c *TimestampCache) Paths() []string {
	if c == nil {
		return nil
	}
	paths := make([]string, 0, len(c.times))
	for p := range c.times {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Lookup returns the timestamps recorded for a single path. Relative paths
// are matched as given; absolute paths are made relative to Root, resolving
// symlinks when the path does not lie under Root as written.
func (c *TimestampCache) Lookup(path string) (models.PathTimestamps, bool) {
	if c == nil {
		return models.PathTimestamps{}, false
	}
	key, ok := lookupKey(c.root, path)
	if !ok {
		return models.PathTimestamps{}, false
	}
	times, ok := c.times[key]
	return times, ok
}

// LatestAddition returns the most recent introduction time among paths
func (c *TimestampCache) LatestAddition(paths ...string) models.OptionalTimestamp {
	latest := models.None
	for _, p := range paths {
		if times, ok := c.Lookup(p); ok {
			latest = latest.Max(times.Addition)
		}
	}
	return latest
}

// LatestChange returns the most recent modification time among paths
func (c *TimestampCache) LatestChange(paths ...string) models.OptionalTimestamp {
	latest := models.None
	for _, p := range paths {
		if times, ok := c.Lookup(p); ok {
			latest = latest.Max(times.LastChange)
		}
	}
	return latest
}

// FirstCommitTimestamp builds a cache for paths alone and returns their
// latest introduction time
func FirstCommitTimestamp(repo *Repository, paths []string) models.OptionalTimestamp {
	cache := BuildTimestampCache(repo, paths)
	return cache.LatestAddition(cache.Paths()...)
}

// LastCommitTimestamp builds a cache for paths alone and returns their
// latest change time
func LastCommitTimestamp(repo *Repository, paths []string) models.OptionalTimestamp {
	cache := BuildTimestampCache(repo, paths)
	return cache.LatestChange(cache.Paths()...)
}
