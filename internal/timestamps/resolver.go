// Package timestamps merges explicit metadata dates, commit history and file
// system times into the created/updated dates shown for each document.
package timestamps

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"dossiers/internal/fsstat"
	"dossiers/pkg/models"
)

// HistorySource answers aggregate history queries over a set of paths.
// *git.TimestampCache implements it.
type HistorySource interface {
	LatestAddition(paths ...string) models.OptionalTimestamp
	LatestChange(paths ...string) models.OptionalTimestamp
}

// Override holds author-declared dates, already parsed
type Override struct {
	Created models.OptionalTimestamp
	Updated models.OptionalTimestamp
}

// Input describes one document to resolve
type Input struct {
	// Path is the primary document file, used for the file system fallback
	Path string
	// Paths are all files that make up the document, including Path
	Paths    []string
	Override Override
}

// Resolver computes DocumentTimestamps. It only reads from its collaborators
// and may be used from several goroutines.
type Resolver struct {
	history HistorySource
	stat    fsstat.Stater
	now     func() time.Time
}

// Option configures a Resolver
type Option func(*Resolver)

// WithStater replaces the file system collaborator
func WithStater(s fsstat.Stater) Option {
	return func(r *Resolver) {
		r.stat = s
	}
}

// WithClock replaces the clock used when no other date exists
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

// NewResolver creates a resolver. history may be nil when no repository is available.
func NewResolver(history HistorySource, opts ...Option) *Resolver {
	r := &Resolver{
		history: history,
		stat:    fsstat.OS{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve applies, in order of precedence: the explicit override, the
// commit history of the document's paths, then file system times. The sort
// key falls back to the current time only when nothing else is known.
func (r *Resolver) Resolve(in Input) models.DocumentTimestamps {
	addition, change := models.None, models.None
	if r.history != nil {
		addition = r.history.LatestAddition(in.Paths...)
		change = r.history.LatestChange(in.Paths...)
	}

	file := r.stat.Stat(in.Path)

	created := in.Override.Created.
		Or(addition).
		Or(file.Created).
		Or(file.Modified)

	updated := in.Override.Updated.
		Or(change).
		Or(file.Modified).
		Or(created)

	return models.DocumentTimestamps{
		Created: created,
		Updated: updated,
		UpdatedSort: updated.Or(created).OrElse(func() models.Timestamp {
			return models.TimestampFromTime(r.now())
		}),
		HistoryManaged: addition.Valid || change.Valid,
	}
}

// ResolveAll resolves every input concurrently and returns results in input
// order. It stops early only if ctx is canceled.
func (r *Resolver) ResolveAll(ctx context.Context, inputs []Input) ([]models.DocumentTimestamps, error) {
	results := make([]models.DocumentTimestamps, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.Resolve(in)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
