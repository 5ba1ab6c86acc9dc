package ui

import (
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"dossiers/pkg/models"
)

// Where a row's dates came from
const (
	SourceMetadata   = "metadata"
	SourceHistory    = "history"
	SourceFilesystem = "filesystem"
)

// TimestampRow is one line of the timestamps table
type TimestampRow struct {
	ID      string
	Title   string
	Created models.OptionalTimestamp
	Updated models.OptionalTimestamp
	Source  string
}

// FormatDate renders a timestamp as a local calendar date, or "-" when absent
func FormatDate(ts models.OptionalTimestamp) string {
	if !ts.Valid {
		return "-"
	}
	return ts.Value.Time().In(time.Local).Format("2006-01-02")
}

// TimestampTable renders resolved timestamps
type TimestampTable struct {
	useColor bool
}

// NewTimestampTable creates a table renderer
func NewTimestampTable(useColor bool) *TimestampTable {
	return &TimestampTable{useColor: useColor}
}

// Render writes rows in the given order
func (t *TimestampTable) Render(w io.Writer, rows []TimestampRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Title", "Created", "Updated", "Source"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, row := range rows {
		table.Append([]string{
			row.ID,
			row.Title,
			FormatDate(row.Created),
			FormatDate(row.Updated),
			t.source(row.Source),
		})
	}

	table.Render()
}

func (t *TimestampTable) source(source string) string {
	if !t.useColor {
		return source
	}
	switch source {
	case SourceHistory:
		return color.GreenString(source)
	case SourceMetadata:
		return color.CyanString(source)
	case SourceFilesystem:
		return color.YellowString(source)
	default:
		return source
	}
}
