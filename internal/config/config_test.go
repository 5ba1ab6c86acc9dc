package config

import (
    "bytes"
    "os"
    "path/filepath"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "dossiers/internal/observability"
    "dossiers/internal/testutil"
    "dossiers/pkg/errors"
    "dossiers/pkg/models"
)

func TestGetConfigFile(t *testing.T) {
    h := testutil.NewTestHelper(t)
    dir := h.TempDir()

    assert.Equal(t, filepath.Join(dir, FileName), GetConfigFile(dir))

    explicit := filepath.Join(dir, "custom.yaml")
    h.MockEnv(EnvConfigFile, explicit)
    assert.Equal(t, explicit, GetConfigFile("/somewhere/else"))
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
    h := testutil.NewTestHelper(t)
    dir := h.TempDir()

    config, err := Load(dir)
    require.NoError(t, err)
    assert.Equal(t, models.DefaultConfig(), config)
    assert.False(t, Exists(dir))
}

func TestLoad(t *testing.T) {
    h := testutil.NewTestHelper(t)
    dir := h.TempDir()
    h.WriteFile(dir, FileName, `title: Engineering Notes
repository: acme/notes
subdirectory: docs
history:
  max_commits: 500
  detect_renames: true
output:
  format: json
`)

    config, err := Load(dir)
    require.NoError(t, err)

    assert.Equal(t, "Engineering Notes", config.Title)
    assert.Equal(t, "acme/notes", config.Repository)
    assert.Equal(t, "docs", config.Subdirectory)
    assert.Equal(t, 500, config.History.MaxCommits)
    assert.True(t, config.History.DetectRenames)
    assert.Equal(t, "json", config.Output.Format)
    // Unset fields keep their defaults
    assert.Equal(t, "warn", config.LogLevel)
}

func TestLoadInvalid(t *testing.T) {
    tests := []struct {
        name    string
        content string
        field   string
    }{
        {"bad yaml", "title: [unterminated\n", ""},
        {"negative budget", "history:\n  max_commits: -1\n", "history.max_commits"},
        {"unknown format", "output:\n  format: xml\n", "output.format"},
        {"unknown level", "log_level: chatty\n", "log_level"},
    }

    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            h := testutil.NewTestHelper(t)
            dir := h.TempDir()
            h.WriteFile(dir, FileName, tt.content)

            _, err := Load(dir)
            require.Error(t, err)
            assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetErrorCode(err))

            var appErr *errors.AppError
            require.ErrorAs(t, err, &appErr)
            if tt.field != "" {
                assert.Equal(t, tt.field, appErr.Context["field"])
            }
        })
    }
}

func TestSaveAndLoad(t *testing.T) {
    h := testutil.NewTestHelper(t)
    dir := filepath.Join(h.TempDir(), "project")

    config := models.DefaultConfig()
    config.Title = "Round Trip"
    config.History.MaxCommits = 25

    require.NoError(t, Save(dir, config))
    assert.True(t, Exists(dir))

    loaded, err := Load(dir)
    require.NoError(t, err)
    assert.Equal(t, config, loaded)
}

func TestDocumentsDir(t *testing.T) {
    h := testutil.NewTestHelper(t)
    dir := h.TempDir()
    require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o755))

    var buf bytes.Buffer
    logger := observability.NewLogger(observability.LoggerConfig{
        Level:  observability.WarnLevel,
        Output: &buf,
    })

    assert.Equal(t, dir, DocumentsDir(dir, models.DefaultConfig(), logger))
    assert.Equal(t, filepath.Join(dir, "docs"), DocumentsDir(dir, &models.Config{Subdirectory: "docs"}, logger))
    assert.Empty(t, buf.String())

    assert.Equal(t, dir, DocumentsDir(dir, &models.Config{Subdirectory: "missing"}, logger))
    assert.Contains(t, buf.String(), "configured subdirectory does not exist")

    buf.Reset()
    assert.Equal(t, dir, DocumentsDir(dir, &models.Config{Subdirectory: "../outside"}, logger))
    assert.Contains(t, buf.String(), "ignoring subdirectory outside the project")
}
