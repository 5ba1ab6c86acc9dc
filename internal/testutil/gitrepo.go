package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Epoch is the base commit time used by repositories built in tests
var Epoch = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

// TestRepo is a throwaway on-disk git repository with deterministic commit times
type TestRepo struct {
	*TestHelper
	Dir  string
	Repo *git.Repository
	wt   *git.Worktree
}

// NewTestRepo initializes an empty repository in a fresh temp dir
func NewTestRepo(t *testing.T) *TestRepo {
	t.Helper()

	h := NewTestHelper(t)
	dir := h.TempDir()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("Failed to init repository: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}

	return &TestRepo{TestHelper: h, Dir: dir, Repo: repo, wt: wt}
}

// Write writes files relative to the repository root and stages them
func (r *TestRepo) Write(files map[string]string) {
	r.t.Helper()

	for name, content := range files {
		r.WriteFile(r.Dir, name, content)
		if _, err := r.wt.Add(name); err != nil {
			r.t.Fatalf("Failed to stage %s: %v", name, err)
		}
	}
}

// Remove deletes and stages the removal of a tracked file
func (r *TestRepo) Remove(name string) {
	r.t.Helper()

	if _, err := r.wt.Remove(name); err != nil {
		r.t.Fatalf("Failed to remove %s: %v", name, err)
	}
}

// Move renames a tracked file and stages the rename
func (r *TestRepo) Move(from, to string) {
	r.t.Helper()

	if err := os.MkdirAll(filepath.Join(r.Dir, filepath.Dir(filepath.FromSlash(to))), 0o755); err != nil {
		r.t.Fatalf("Failed to create directories for %s: %v", to, err)
	}
	if _, err := r.wt.Move(from, to); err != nil {
		r.t.Fatalf("Failed to move %s to %s: %v", from, to, err)
	}
}

// CommitAt records the staged changes with author and committer time when
func (r *TestRepo) CommitAt(message string, when time.Time) plumbing.Hash {
	r.t.Helper()
	return r.MergeAt(message, when)
}

// MergeAt records the staged changes as a commit with the given parents, the
// first of which is the mainline. No parents means the current HEAD.
func (r *TestRepo) MergeAt(message string, when time.Time, parents ...plumbing.Hash) plumbing.Hash {
	r.t.Helper()

	sig := &object.Signature{
		Name:  "Test User",
		Email: "test@example.com",
		When:  when,
	}
	hash, err := r.wt.Commit(message, &git.CommitOptions{
		Author:    sig,
		Committer: sig,
		Parents:   parents,
	})
	if err != nil {
		r.t.Fatalf("Failed to commit %q: %v", message, err)
	}
	return hash
}

// Head returns the commit HEAD points at
func (r *TestRepo) Head() plumbing.Hash {
	r.t.Helper()

	ref, err := r.Repo.Head()
	if err != nil {
		r.t.Fatalf("Failed to resolve HEAD: %v", err)
	}
	return ref.Hash()
}

// Branch returns the short name of the checked out branch
func (r *TestRepo) Branch() string {
	r.t.Helper()

	ref, err := r.Repo.Head()
	if err != nil {
		r.t.Fatalf("Failed to resolve HEAD: %v", err)
	}
	return ref.Name().Short()
}

// Checkout switches the worktree to branch, creating it at HEAD when create is set
func (r *TestRepo) Checkout(branch string, create bool) {
	r.t.Helper()

	err := r.wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: create,
	})
	if err != nil {
		r.t.Fatalf("Failed to check out %s: %v", branch, err)
	}
}

// TreeOf returns the root tree hash of a commit
func (r *TestRepo) TreeOf(commit plumbing.Hash) plumbing.Hash {
	r.t.Helper()

	c, err := r.Repo.CommitObject(commit)
	if err != nil {
		r.t.Fatalf("Failed to read commit %s: %v", commit, err)
	}
	return c.TreeHash
}

// DeleteObject removes a loose object from the object database, as a pruned
// or corrupted store would lack it
func (r *TestRepo) DeleteObject(hash plumbing.Hash) {
	r.t.Helper()

	hex := hash.String()
	path := filepath.Join(r.Dir, ".git", "objects", hex[:2], hex[2:])
	if err := os.Remove(path); err != nil {
		r.t.Fatalf("Failed to delete object %s: %v", hex, err)
	}
}

// MarkShallow records commits as shallow-clone boundaries
func (r *TestRepo) MarkShallow(commits ...plumbing.Hash) {
	r.t.Helper()

	if err := r.Repo.Storer.SetShallow(commits); err != nil {
		r.t.Fatalf("Failed to write shallow file: %v", err)
	}
}

// Commit writes files and commits them at Epoch plus minute minutes
func (r *TestRepo) Commit(minute int, files map[string]string) time.Time {
	r.t.Helper()

	when := Epoch.Add(time.Duration(minute) * time.Minute)
	r.Write(files)
	r.CommitAt(fmt.Sprintf("commit at +%dm", minute), when)
	return when
}

// AddRemote configures a remote with a single URL
func (r *TestRepo) AddRemote(name, url string) {
	r.t.Helper()

	if _, err := r.Repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}}); err != nil {
		r.t.Fatalf("Failed to create remote %s: %v", name, err)
	}
}

// Path returns the absolute path of a repository-relative name
func (r *TestRepo) Path(name string) string {
	return filepath.Join(r.Dir, filepath.FromSlash(name))
}

// Millis converts a commit time to epoch milliseconds at commit precision
func Millis(when time.Time) int64 {
	return when.Unix() * 1000
}
