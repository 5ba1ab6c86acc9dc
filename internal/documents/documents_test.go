package documents

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dossiers/internal/testutil"
	"dossiers/pkg/errors"
)

func TestLoadDiscoversNumberedEntries(t *testing.T) {
	h := testutil.NewTestHelper(t)
	dir := h.TempDir()

	h.WriteFile(dir, "0001-intro.md", "# Introduction\n")
	h.WriteFile(dir, "0002-storage/b.md", "# Second\n")
	h.WriteFile(dir, "0002-storage/a.md", "---\ntitle: Storage\n---\n![diagram](./img/layout.png)\n")
	h.WriteFile(dir, "0002-storage/img/layout.png", "png")
	h.WriteFile(dir, "0003-api/spec.adoc", "= API\n\nimage::flow.svg[]\n")
	h.WriteFile(dir, "0003-api/flow.svg", "<svg/>")
	h.WriteFile(dir, "README.md", "# Not numbered\n")
	h.WriteFile(dir, "123-short.md", "# Too short an id\n")
	h.WriteFile(dir, "0004-notes.txt", "ignored")

	docs, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	assert.Equal(t, "0001", docs[0].ID)
	assert.Equal(t, "intro", docs[0].Name)
	assert.Equal(t, "Introduction", docs[0].Title())
	assert.Equal(t, FormatMarkdown, docs[0].Format)
	assert.Equal(t, dir, docs[0].AssetRoot)
	assert.Equal(t, []string{filepath.Join(dir, "0001-intro.md")}, docs[0].Paths)

	assert.Equal(t, "0002", docs[1].ID)
	assert.Equal(t, "storage", docs[1].Name)
	assert.Equal(t, "Storage", docs[1].Title())
	assert.Equal(t, filepath.Join(dir, "0002-storage", "a.md"), docs[1].Path)
	assert.Equal(t, filepath.Join(dir, "0002-storage"), docs[1].AssetRoot)
	assert.Equal(t, []string{
		filepath.Join(dir, "0002-storage", "a.md"),
		filepath.Join(dir, "0002-storage", "img", "layout.png"),
	}, docs[1].Paths)

	assert.Equal(t, "0003", docs[2].ID)
	assert.Equal(t, FormatAsciidoc, docs[2].Format)
	assert.Equal(t, "API", docs[2].Title())
	assert.Equal(t, []string{
		filepath.Join(dir, "0003-api", "spec.adoc"),
		filepath.Join(dir, "0003-api", "flow.svg"),
	}, docs[2].Paths)
}

func TestLoadPrefersMarkdownInsideDirectory(t *testing.T) {
	h := testutil.NewTestHelper(t)
	dir := h.TempDir()

	h.WriteFile(dir, "0001-mixed/a.adoc", "= Asciidoc\n")
	h.WriteFile(dir, "0001-mixed/z.markdown", "# Markdown\n")

	docs, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, filepath.Join(dir, "0001-mixed", "z.markdown"), docs[0].Path)
	assert.Equal(t, FormatMarkdown, docs[0].Format)
}

func TestLoadFileEntryUsesMatchingDirectoryForAssets(t *testing.T) {
	h := testutil.NewTestHelper(t)
	dir := h.TempDir()

	h.WriteFile(dir, "0007-design.md", "See ![chart](chart.png) and [missing](gone.png).\n")
	h.WriteFile(dir, "0007-design/chart.png", "png")
	h.WriteFile(dir, "0007-design/other.md", "# Other\n")

	docs, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, filepath.Join(dir, "0007-design.md"), doc.Path)
	assert.Equal(t, "design", doc.Name)
	assert.Equal(t, filepath.Join(dir, "0007-design"), doc.AssetRoot)
	assert.Equal(t, []string{
		filepath.Join(dir, "0007-design.md"),
		filepath.Join(dir, "0007-design", "chart.png"),
	}, doc.Paths)
}

func TestLoadSkipsDirectoryWithoutDocument(t *testing.T) {
	h := testutil.NewTestHelper(t)
	dir := h.TempDir()

	h.WriteFile(dir, "0001-empty/image.png", "png")
	h.WriteFile(dir, "0002-real.md", "# Real\n")

	docs, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "0002", docs[0].ID)
}

func TestLoadErrors(t *testing.T) {
	t.Run("no documents", func(t *testing.T) {
		h := testutil.NewTestHelper(t)
		dir := h.TempDir()
		h.WriteFile(dir, "notes.md", "# Notes\n")

		_, err := Load(dir)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeDocumentsNotFound, errors.GetErrorCode(err))
	})

	t.Run("missing directory", func(t *testing.T) {
		h := testutil.NewTestHelper(t)
		_, err := Load(filepath.Join(h.TempDir(), "absent"))
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeFileNotFound, errors.GetErrorCode(err))
	})
}

func TestLoadIgnoresAssetDirectoriesAndEscapes(t *testing.T) {
	h := testutil.NewTestHelper(t)
	dir := h.TempDir()
	h.WriteFile(dir, "0001-doc/index.md", "[dir](img) [up](sub/../../secret.txt) [self](index.md)\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "0001-doc", "img"), 0o755))
	h.WriteFile(dir, "secret.txt", "outside")

	docs, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "0001-doc", "index.md")}, docs[0].Paths)
}
