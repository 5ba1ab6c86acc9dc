package cmd

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "dossiers/internal/config"
    "dossiers/internal/testutil"
    "dossiers/pkg/errors"
)

func TestRemoteCommand(t *testing.T) {
    t.Run("from git remote", func(t *testing.T) {
        tr := testutil.NewTestRepo(t)
        tr.AddRemote("upstream", "https://github.com/acme/upstream.git")
        tr.AddRemote("origin", "ssh://git@github.com/acme/notes")

        stdout, _, err := executeCommand("remote", tr.Dir)
        require.NoError(t, err)
        assert.Equal(t, "acme/notes\n", stdout)
    })

    t.Run("config wins over remote", func(t *testing.T) {
        tr := testutil.NewTestRepo(t)
        tr.AddRemote("origin", "git@github.com:acme/notes.git")
        tr.WriteFile(tr.Dir, config.FileName, "repository: https://www.github.com/other/place\n")

        stdout, _, err := executeCommand("remote", tr.Dir)
        require.NoError(t, err)
        assert.Equal(t, "other/place\n", stdout)
    })

    t.Run("no remotes", func(t *testing.T) {
        tr := testutil.NewTestRepo(t)

        _, _, err := executeCommand("remote", tr.Dir)
        require.Error(t, err)
        assert.Equal(t, errors.ErrCodeRemoteNotFound, errors.GetErrorCode(err))
    })

    t.Run("unparsable remote", func(t *testing.T) {
        tr := testutil.NewTestRepo(t)
        tr.AddRemote("origin", "https://gitlab.com/acme/notes.git")

        _, _, err := executeCommand("remote", tr.Dir)
        require.Error(t, err)
        assert.Equal(t, errors.ErrCodeRemoteUnparsable, errors.GetErrorCode(err))
    })

    t.Run("not a repository", func(t *testing.T) {
        dir := testutil.NewTestHelper(t).TempDir()

        _, _, err := executeCommand("remote", dir)
        require.Error(t, err)
        assert.Equal(t, errors.ErrCodeRepoNotFound, errors.GetErrorCode(err))
    })
}
