package extract

import (
	"context"
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/gaurav-prasanna/coursepipe/core"
	"github.com/gaurav-prasanna/coursepipe/core/page"
)

// Resolver flattens a materials subpage and every folder below it into a
// stream of downloadable entries. Folders are fetched one at a time, depth
// first, and only when the consumer pulls past them.
type Resolver struct {
	fetcher    core.Fetcher
	maxDepth   int
	cycleGuard bool
	logger     *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxDepth limits how many folder levels below the starting page are
// followed. Zero means no limit.
func WithMaxDepth(n int) Option {
	return func(r *Resolver) {
		r.maxDepth = n
	}
}

// WithCycleGuard skips folders already visited during the same resolution.
func WithCycleGuard() Option {
	return func(r *Resolver) {
		r.cycleGuard = true
	}
}

// WithLogger sets the logger used for folder traversal events.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver that loads folders through f.
func NewResolver(f core.Fetcher, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher: f,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve is shorthand for NewResolver(f).Resolve(ctx, c).
func Resolve(ctx context.Context, c *page.Content, f core.Fetcher) iter.Seq2[core.MaterialEntry, error] {
	return NewResolver(f).Resolve(ctx, c)
}

// Resolve walks an already parsed subpage. Entry paths are the folder labels
// leading to a file joined with '/', ending with the file label.
//
// A folder that cannot be fetched is reported as a *FetchError and skipped;
// ranging on continues with its next sibling.
func (r *Resolver) Resolve(ctx context.Context, c *page.Content) iter.Seq2[core.MaterialEntry, error] {
	return func(yield func(core.MaterialEntry, error) bool) {
		r.walk(ctx, c, "", 0, r.newVisited(), yield)
	}
}

// ResolveLink fetches the subpage at href and resolves it.
func (r *Resolver) ResolveLink(ctx context.Context, href string) iter.Seq2[core.MaterialEntry, error] {
	return func(yield func(core.MaterialEntry, error) bool) {
		visited := r.newVisited()
		if visited != nil {
			visited[href] = true
		}
		c, err := r.load(ctx, href)
		if err != nil {
			yield(core.MaterialEntry{}, err)
			return
		}
		r.walk(ctx, c, "", 0, visited, yield)
	}
}

func (r *Resolver) newVisited() map[string]bool {
	if !r.cycleGuard {
		return nil
	}
	return make(map[string]bool)
}

// walk reports false once the consumer has stopped.
func (r *Resolver) walk(ctx context.Context, c *page.Content, prefix string, depth int, visited map[string]bool, yield func(core.MaterialEntry, error) bool) bool {
	s := MaterialsSubpageV1
	rows, err := tableRows(c, s)
	if err != nil {
		return yield(core.MaterialEntry{}, err)
	}

	i := -1
	for row := range rows {
		i++
		if err := ctx.Err(); err != nil {
			yield(core.MaterialEntry{}, err)
			return false
		}

		link, err := linkCell(row[s.LinkCol])
		if err != nil {
			if !yield(core.MaterialEntry{}, rowError(s.Version, i, "malformed link cell", err)) {
				return false
			}
			continue
		}

		if ParseKind(row[s.KindCol].Text()) == KindFolder {
			if !r.descend(ctx, link, prefix, depth, visited, yield) {
				return false
			}
			continue
		}

		size, err := ParseByteSize(row[s.SizeCol].Text())
		if err != nil {
			if !yield(core.MaterialEntry{}, rowError(s.Version, i, "unreadable size", err)) {
				return false
			}
			continue
		}
		if size <= 0 {
			continue
		}
		if !yield(core.MaterialEntry{Path: prefix + link.Text, Href: link.Href}, nil) {
			return false
		}
	}
	return true
}

func (r *Resolver) descend(ctx context.Context, folder core.Link, prefix string, depth int, visited map[string]bool, yield func(core.MaterialEntry, error) bool) bool {
	path := prefix + folder.Text
	if r.maxDepth > 0 && depth >= r.maxDepth {
		return yield(core.MaterialEntry{}, fmt.Errorf("folder %s: %w", path, ErrMaxDepth))
	}
	if visited != nil {
		if visited[folder.Href] {
			r.logger.Debug("skipping folder already visited",
				zap.String("path", path),
				zap.String("href", folder.Href))
			return true
		}
		visited[folder.Href] = true
	}

	r.logger.Debug("descending into folder",
		zap.String("path", path),
		zap.Int("depth", depth+1))
	c, err := r.load(ctx, folder.Href)
	if err != nil {
		return yield(core.MaterialEntry{}, err)
	}
	return r.walk(ctx, c, path+"/", depth+1, visited, yield)
}

func (r *Resolver) load(ctx context.Context, href string) (*page.Content, error) {
	res, err := r.fetcher.Fetch(ctx, href)
	if err != nil {
		return nil, &FetchError{URL: href, Err: err}
	}
	c, err := page.Parse(res.HTML)
	if err != nil {
		return nil, pageError(MaterialsSubpageV1.Version, "parsing "+href, err)
	}
	return c, nil
}
