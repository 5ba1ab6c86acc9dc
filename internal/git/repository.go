package git

import (
	"errors"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/filesystem"

	apperrors "dossiers/pkg/errors"
)

// Repository is an opened git repository together with its canonical
// working-directory root. It is read-only after Open returns.
type Repository struct {
	repo    *git.Repository
	workdir string
}

// Open searches upward from path for a git repository. A nil result means no
// repository was found; callers treat that as "history unavailable".
func Open(path string) *Repository {
	repo, workdir, err := open(path)
	if err != nil {
		return nil
	}
	return &Repository{repo: repo, workdir: workdir}
}

// OpenE is like Open but reports why no repository could be opened
func OpenE(path string) (*Repository, error) {
	repo, workdir, err := open(path)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeRepoNotFound, "No git repository found").
				WithSeverity(apperrors.SeverityInfo).
				WithContext("path", path).
				WithSuggestions("Run the command inside a git working tree")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeRepoInvalid, "Failed to open git repository").
			WithSeverity(apperrors.SeverityWarning).
			WithContext("path", path)
	}
	return &Repository{repo: repo, workdir: workdir}, nil
}

func open(path string) (*git.Repository, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", err
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, "", err
	}

	workdir, err := resolveWorkdir(repo)
	if err != nil {
		return nil, "", err
	}

	return repo, canonicalize(workdir), nil
}

// resolveWorkdir prefers the worktree root and falls back to the parent of
// the metadata directory for bare repositories.
func resolveWorkdir(repo *git.Repository) (string, error) {
	if wt, err := repo.Worktree(); err == nil {
		return wt.Filesystem.Root(), nil
	}

	if storage, ok := repo.Storer.(*filesystem.Storage); ok {
		return filepath.Dir(storage.Filesystem().Root()), nil
	}

	return "", errNoWorkdir
}

var errNoWorkdir = errors.New("repository has neither a worktree nor an on-disk metadata directory")

// canonicalize resolves symlinks, keeping the cleaned absolute path when that fails
func canonicalize(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Workdir returns the canonical absolute working-directory root
func (r *Repository) Workdir() string {
	return r.workdir
}

// RemoteURL returns the first URL of the "origin" remote, or of the first
// remote in name order when there is no origin. It returns "" when the
// repository has no remotes.
func (r *Repository) RemoteURL() string {
	if remote, err := r.repo.Remote("origin"); err == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			return urls[0]
		}
	}

	remotes, err := r.repo.Remotes()
	if err != nil || len(remotes) == 0 {
		return ""
	}

	sort.Slice(remotes, func(i, j int) bool {
		return remotes[i].Config().Name < remotes[j].Config().Name
	})
	for _, remote := range remotes {
		if urls := remote.Config().URLs; len(urls) > 0 {
			return urls[0]
		}
	}

	return ""
}
