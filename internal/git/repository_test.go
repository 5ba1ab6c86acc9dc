package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dossiers/internal/testutil"
	apperrors "dossiers/pkg/errors"
)

func TestOpenDiscoversFromSubdirectory(t *testing.T) {
	tr := testutil.NewTestRepo(t)
	nested := filepath.Join(tr.Dir, "docs", "0001-intro")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	repo := Open(nested)
	require.NotNil(t, repo)
	assert.Equal(t, tr.Dir, repo.Workdir())
}

func TestOpenWithoutRepository(t *testing.T) {
	dir := testutil.NewTestHelper(t).TempDir()

	assert.Nil(t, Open(dir))

	repo, err := OpenE(dir)
	assert.Nil(t, repo)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeRepoNotFound, apperrors.GetErrorCode(err))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.SeverityInfo, appErr.Severity)
}

func TestOpenBrokenRepository(t *testing.T) {
	h := testutil.NewTestHelper(t)
	dir := h.TempDir()
	h.WriteFile(dir, ".git", "not a gitdir pointer\n")

	assert.Nil(t, Open(dir))

	_, err := OpenE(dir)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeRepoInvalid, apperrors.GetErrorCode(err))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.SeverityWarning, appErr.Severity)
}

func TestOpenCanonicalizesWorkdir(t *testing.T) {
	tr := testutil.NewTestRepo(t)
	link := filepath.Join(testutil.NewTestHelper(t).TempDir(), "link")
	if err := os.Symlink(tr.Dir, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	repo := Open(link)
	require.NotNil(t, repo)
	assert.Equal(t, tr.Dir, repo.Workdir())
}

func TestRemoteURL(t *testing.T) {
	t.Run("no remotes", func(t *testing.T) {
		tr := testutil.NewTestRepo(t)
		repo := Open(tr.Dir)
		require.NotNil(t, repo)
		assert.Equal(t, "", repo.RemoteURL())
	})

	t.Run("origin wins", func(t *testing.T) {
		tr := testutil.NewTestRepo(t)
		tr.AddRemote("aaa", "https://github.com/acme/fork.git")
		tr.AddRemote("origin", "git@github.com:acme/specs.git")
		repo := Open(tr.Dir)
		require.NotNil(t, repo)
		assert.Equal(t, "git@github.com:acme/specs.git", repo.RemoteURL())
	})

	t.Run("first remote by name without origin", func(t *testing.T) {
		tr := testutil.NewTestRepo(t)
		tr.AddRemote("upstream", "https://github.com/acme/upstream.git")
		tr.AddRemote("backup", "https://github.com/acme/backup.git")
		repo := Open(tr.Dir)
		require.NotNil(t, repo)
		assert.Equal(t, "https://github.com/acme/backup.git", repo.RemoteURL())
	})
}
