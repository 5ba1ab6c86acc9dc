package cmd

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "path/filepath"
    "sort"

    "github.com/natefinch/atomic"
    "github.com/spf13/cobra"

    "dossiers/internal/config"
    "dossiers/internal/documents"
    "dossiers/internal/git"
    "dossiers/internal/observability"
    "dossiers/internal/timestamps"
    "dossiers/internal/ui"
    "dossiers/pkg/errors"
    "dossiers/pkg/models"
)

type timestampsOptions struct {
    json   bool
    output string
}

// Report is the JSON form of the timestamps command output
type Report struct {
    Title      string        `json:"title,omitempty"`
    Repository string        `json:"repository,omitempty"`
    Documents  []ReportEntry `json:"documents"`
}

// ReportEntry holds the resolved dates of one document
type ReportEntry struct {
    ID             string                   `json:"id"`
    Title          string                   `json:"title"`
    Path           string                   `json:"path"`
    Created        models.OptionalTimestamp `json:"created"`
    Updated        models.OptionalTimestamp `json:"updated"`
    UpdatedSort    models.Timestamp         `json:"updated_sort"`
    HistoryManaged bool                     `json:"history_managed"`
    Source         string                   `json:"source"`
}

func newTimestampsCmd() *cobra.Command {
    opts := &timestampsOptions{}

    cmd := &cobra.Command{
        Use:   "timestamps [dir]",
        Short: "List documents with their created and updated dates",
        Long: `Discover numbered documents and resolve their dates. Front-matter dates win,
then the git history of the document and its local assets, then file system times.`,
        Args: cobra.MaximumNArgs(1),
        RunE: func(cmd *cobra.Command, args []string) error {
            return runTimestamps(cmd, args, opts)
        },
    }

    cmd.Flags().BoolVar(&opts.json, "json", false, "Print JSON instead of a table")
    cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the report to this file instead of stdout")
    cmd.Flags().Int("max-commits", 0, "Stop the history walk after this many commits (0 = unlimited)")
    cmd.Flags().Bool("detect-renames", false, "Enable similarity-based rename detection")
    return cmd
}

func runTimestamps(cmd *cobra.Command, args []string, opts *timestampsOptions) error {
    ctx := cmd.Context()

    dir, err := projectDir(args)
    if err != nil {
        return err
    }
    cfg, err := loadSettings(cmd.Flags(), dir)
    if err != nil {
        return err
    }
    if opts.json {
        cfg.Output.Format = "json"
    }
    logger := newLogger(cmd, cfg)

    docsDir := config.DocumentsDir(dir, cfg, logger)
    docs, err := documents.Load(docsDir)
    if err != nil {
        return err
    }

    repo, err := git.OpenE(docsDir)
    if err != nil {
        fields := map[string]interface{}{"path": docsDir, "code": errors.GetErrorCode(err), "error": err.Error()}
        if errors.GetErrorCode(err) == errors.ErrCodeRepoNotFound {
            ui.ShowInfo("No git repository found, dates come from metadata and the file system")
            logger.InfoWithFields("history unavailable", fields)
        } else {
            ui.ShowWarning("Git repository could not be opened, dates come from metadata and the file system")
            logger.WarnWithFields("history unavailable", fields)
        }
    }

    report, err := resolveReport(ctx, repo, docs, cfg, logger)
    if err != nil {
        return err
    }
    report.Title = cfg.Title
    report.Repository = hostedSlug(cfg, repo)
    for i := range report.Documents {
        if rel, err := filepath.Rel(docsDir, report.Documents[i].Path); err == nil {
            report.Documents[i].Path = filepath.ToSlash(rel)
        }
    }

    var buf bytes.Buffer
    switch cfg.Output.Format {
    case "json":
        if err := writeJSON(&buf, report); err != nil {
            return err
        }
    default:
        useColor := opts.output == "" && ui.SupportsColor()
        ui.NewTimestampTable(useColor).Render(&buf, tableRows(report))
    }

    if opts.output != "" {
        if err := atomic.WriteFile(opts.output, &buf); err != nil {
            return errors.FileError(opts.output, err)
        }
        ui.ShowSuccess(fmt.Sprintf("Wrote %d documents to %s", len(report.Documents), opts.output))
        return nil
    }

    _, err = io.Copy(cmd.OutOrStdout(), &buf)
    return err
}

// resolveReport builds one history cache for every document path and
// resolves all documents against it, newest first
func resolveReport(ctx context.Context, repo *git.Repository, docs []*documents.Document, cfg *models.Config, logger *observability.Logger) (*Report, error) {
    var paths []string
    inputs := make([]timestamps.Input, len(docs))
    for i, doc := range docs {
        paths = append(paths, doc.Paths...)
        inputs[i] = timestamps.Input{
            Path:  doc.Path,
            Paths: doc.Paths,
            Override: timestamps.Override{
                Created: doc.Meta.Created,
                Updated: doc.Meta.Updated,
            },
        }
    }

    cache := git.BuildTimestampCacheContext(ctx, repo, paths, git.BuildOptions{
        MaxCommits:    cfg.History.MaxCommits,
        DetectRenames: cfg.History.DetectRenames,
        Logger:        logger,
    })

    results, err := timestamps.NewResolver(cache).ResolveAll(ctx, inputs)
    if err != nil {
        return nil, errors.Wrap(err, errors.ErrCodeCanceled, "Timestamp resolution interrupted")
    }

    report := &Report{Documents: make([]ReportEntry, len(docs))}
    for i, doc := range docs {
        res := results[i]
        report.Documents[i] = ReportEntry{
            ID:             doc.ID,
            Title:          doc.Title(),
            Path:           doc.Path,
            Created:        res.Created,
            Updated:        res.Updated,
            UpdatedSort:    res.UpdatedSort,
            HistoryManaged: res.HistoryManaged,
            Source:         source(doc, res),
        }
    }

    sort.SliceStable(report.Documents, func(i, j int) bool {
        a, b := report.Documents[i], report.Documents[j]
        if a.UpdatedSort != b.UpdatedSort {
            return a.UpdatedSort > b.UpdatedSort
        }
        return a.ID < b.ID
    })
    return report, nil
}

// source names the most authoritative input that contributed a date
func source(doc *documents.Document, res models.DocumentTimestamps) string {
    switch {
    case doc.Meta.Created.Valid || doc.Meta.Updated.Valid:
        return ui.SourceMetadata
    case res.HistoryManaged:
        return ui.SourceHistory
    default:
        return ui.SourceFilesystem
    }
}

// hostedSlug prefers the configured repository over the git remote
func hostedSlug(cfg *models.Config, repo *git.Repository) string {
    raw := cfg.Repository
    if raw == "" && repo != nil {
        raw = repo.RemoteURL()
    }
    if hosted, ok := git.ParseHostedRepo(raw); ok {
        return hosted.Slug()
    }
    return ""
}

func tableRows(report *Report) []ui.TimestampRow {
    rows := make([]ui.TimestampRow, len(report.Documents))
    for i, entry := range report.Documents {
        rows[i] = ui.TimestampRow{
            ID:      entry.ID,
            Title:   entry.Title,
            Created: entry.Created,
            Updated: entry.Updated,
            Source:  entry.Source,
        }
    }
    return rows
}

func writeJSON(w io.Writer, v interface{}) error {
    encoder := json.NewEncoder(w)
    encoder.SetIndent("", "  ")
    if err := encoder.Encode(v); err != nil {
        return errors.Wrap(err, errors.ErrCodeInternal, "Failed to encode report")
    }
    return nil
}
