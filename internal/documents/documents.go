// Package documents discovers numbered documents in a directory and the
// local files each one references.
package documents

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"dossiers/internal/common"
	"dossiers/internal/metadata"
	"dossiers/internal/observability"
	"dossiers/pkg/errors"
)

// Format is the markup language of a document
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatAsciidoc Format = "asciidoc"
)

// Document is one numbered entry of a documents directory
type Document struct {
	ID   string
	Name string
	// Path is the absolute path of the document file
	Path string
	// AssetRoot is the directory relative references are resolved against
	AssetRoot string
	Format    Format
	Source    string
	Meta      metadata.Metadata
	// Paths are Path followed by every existing local file the document references
	Paths []string
}

// Title is the declared title, falling back to the entry name
func (d *Document) Title() string {
	if d.Meta.Title != "" {
		return d.Meta.Title
	}
	return d.Name
}

var (
	idPattern     = regexp.MustCompile(`^(\d{4,})`)
	namePrefix    = regexp.MustCompile(`^\d{4,}-`)
	schemePattern = regexp.MustCompile(`(?i)^[a-z][a-z0-9+.\-]*:`)
)

var extensions = map[string]Format{
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".adoc":     FormatAsciidoc,
	".asciidoc": FormatAsciidoc,
}

type entry struct {
	file string
	dir  string
}

// Load reads every document under dir, ordered by ID
func Load(dir string) ([]*Document, error) {
	logger := observability.GetDefaultLogger().WithField("component", "documents")

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "Invalid documents directory").
			WithContext("path", dir)
	}

	items, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.FileError(root, err).
			WithSuggestions("Pass the directory holding your numbered documents")
	}

	entries := map[string]*entry{}
	var ids []string
	for _, item := range items {
		m := idPattern.FindStringSubmatch(item.Name())
		if m == nil {
			continue
		}
		id := m[1]
		e, ok := entries[id]
		if !ok {
			e = &entry{}
			entries[id] = e
			ids = append(ids, id)
		}

		full := filepath.Join(root, item.Name())
		switch {
		case item.IsDir():
			if e.dir == "" {
				e.dir = full
			}
		case formatOf(item.Name()) != "":
			if e.file == "" {
				e.file = full
			}
		}
	}
	sort.Strings(ids)

	var docs []*Document
	for _, id := range ids {
		e := entries[id]
		path, assetRoot := e.file, e.dir
		if path == "" {
			if e.dir == "" {
				continue
			}
			path = findDocFile(e.dir)
			if path == "" {
				logger.WarnWithFields("skipping entry without a document file", map[string]interface{}{"path": e.dir})
				continue
			}
		}
		if assetRoot == "" {
			assetRoot = filepath.Dir(path)
		}

		doc, err := load(id, path, assetRoot, e)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return nil, errors.New(errors.ErrCodeDocumentsNotFound, "No documents found").
			WithContext("path", root).
			WithSuggestions(
				"Document files and directories must start with at least four digits, e.g. 0001-intro.md",
				"Supported formats are .md, .markdown, .adoc and .asciidoc",
			)
	}

	logger.DebugWithFields("documents loaded", map[string]interface{}{"path": root, "count": len(docs)})
	return docs, nil
}

func load(id, path, assetRoot string, e *entry) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDocumentUnreadable, "Failed to read document").
			WithContext("path", path)
	}

	nameSource := filepath.Base(path)
	if e.file == "" {
		nameSource = filepath.Base(e.dir)
	}

	doc := &Document{
		ID:        id,
		Name:      displayName(nameSource),
		Path:      path,
		AssetRoot: assetRoot,
		Format:    formatOf(path),
		Source:    string(raw),
	}
	doc.Meta = metadata.Read(doc.Source)
	doc.Paths = append([]string{path}, existingAssets(assetRoot, References(doc.Source, doc.Format), path)...)
	return doc, nil
}

// findDocFile picks the smallest markdown file in dir, else the smallest asciidoc file
func findDocFile(dir string) string {
	items, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	var markdown, asciidoc []string
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		switch formatOf(item.Name()) {
		case FormatMarkdown:
			markdown = append(markdown, item.Name())
		case FormatAsciidoc:
			asciidoc = append(asciidoc, item.Name())
		}
	}

	for _, group := range [][]string{markdown, asciidoc} {
		if len(group) > 0 {
			sort.Strings(group)
			return filepath.Join(dir, group[0])
		}
	}
	return ""
}

func formatOf(name string) Format {
	return extensions[strings.ToLower(filepath.Ext(name))]
}

func displayName(name string) string {
	cleaned := namePrefix.ReplaceAllString(name, "")
	if format := formatOf(cleaned); format != "" {
		cleaned = strings.TrimSuffix(cleaned, filepath.Ext(cleaned))
	}
	if cleaned == "" {
		return name
	}
	return cleaned
}

// existingAssets resolves refs under root and keeps regular files other than self
func existingAssets(root string, refs []string, self string) []string {
	seen := map[string]bool{self: true}
	var out []string
	for _, ref := range refs {
		path, err := common.ResolveWithin(root, filepath.FromSlash(ref))
		if err != nil || seen[path] {
			continue
		}
		seen[path] = true

		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// String implements fmt.Stringer for log output
func (d *Document) String() string {
	return fmt.Sprintf("%s (%s)", d.ID, d.Name)
}
