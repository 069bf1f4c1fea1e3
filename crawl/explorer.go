// Package crawl walks the catalog: study plans, their courses, and each
// course's task files and materials. It keeps discovery separate from the
// page extractors, which only ever see one page at a time.
package crawl

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/coursepipe/core"
	"github.com/gaurav-prasanna/coursepipe/core/extract"
	"github.com/gaurav-prasanna/coursepipe/core/output"
	"github.com/gaurav-prasanna/coursepipe/core/page"
)

const (
	defaultStudyURL = "study-a.php?id=%d"
	defaultMaxStudy = 5
)

// Stats summarizes a run. Err aggregates the non-fatal failures (broken
// rows, unreachable folders, failed downloads) that were skipped.
type Stats struct {
	Studies int
	Courses int
	Files   int
	Bytes   int64
	Err     error
}

// Explorer walks the catalog and hands every file found to a Downloader
// (when set) and to a record sink.
type Explorer struct {
	fetcher     core.Fetcher
	downloader  core.Downloader
	writer      *output.Writer
	sink        func(core.Record)
	logger      *zap.Logger
	studyURL    string
	maxStudy    int
	resolveOpts []extract.Option
	resolver    *extract.Resolver
}

// Option configures an Explorer.
type Option func(*Explorer)

// WithDownloader downloads every file into the layout of w.
func WithDownloader(d core.Downloader, w *output.Writer) Option {
	return func(e *Explorer) {
		e.downloader = d
		e.writer = w
	}
}

// WithSink receives every record, downloaded or not.
func WithSink(sink func(core.Record)) Option {
	return func(e *Explorer) {
		e.sink = sink
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Explorer) {
		e.logger = logger
	}
}

// WithStudyURL sets the study plan link template; %d is the study number.
func WithStudyURL(tmpl string) Option {
	return func(e *Explorer) {
		e.studyURL = tmpl
	}
}

// WithMaxStudy sets the highest study number tried.
func WithMaxStudy(n int) Option {
	return func(e *Explorer) {
		e.maxStudy = n
	}
}

// WithResolverOptions configures the materials resolver.
func WithResolverOptions(opts ...extract.Option) Option {
	return func(e *Explorer) {
		e.resolveOpts = append(e.resolveOpts, opts...)
	}
}

// NewExplorer creates an Explorer that reads pages through f.
func NewExplorer(f core.Fetcher, opts ...Option) *Explorer {
	e := &Explorer{
		fetcher:  f,
		sink:     func(core.Record) {},
		logger:   zap.NewNop(),
		studyURL: defaultStudyURL,
		maxStudy: defaultMaxStudy,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.resolver = extract.NewResolver(f, append([]extract.Option{extract.WithLogger(e.logger)}, e.resolveOpts...)...)
	return e
}

// Run explores studies 1..maxStudy, stopping at the first study without
// courses. Only authentication failures and cancellation abort the run.
func (e *Explorer) Run(ctx context.Context) (Stats, error) {
	var stats Stats
	queue := NewQueue()

	for study := 1; study <= e.maxStudy; study++ {
		e.logger.Info("exploring courses in study", zap.Int("study", study))
		found, err := e.courses(ctx, study, queue, &stats)
		if err != nil {
			return stats, err
		}
		if found == 0 {
			e.logger.Info("study does not contain any courses, stopping", zap.Int("study", study))
			break
		}
		stats.Studies++

		for queue.HasNext() {
			if err := e.exploreCourse(ctx, queue.Next(), &stats); err != nil {
				return stats, err
			}
		}
	}
	return stats, nil
}

// courses queues the courses of one study and reports how many it lists.
func (e *Explorer) courses(ctx context.Context, study int, queue *Queue, stats *Stats) (int, error) {
	c, err := e.load(ctx, fmt.Sprintf(e.studyURL, study))
	if err != nil {
		return 0, e.skip(stats, err)
	}

	found := 0
	for link, err := range extract.Courses(c) {
		if err != nil {
			if err := e.skip(stats, err); err != nil {
				return found, err
			}
			continue
		}
		found++
		if queue.Add(core.Course{Abbr: link.Text, Link: link.Href}) {
			stats.Courses++
		}
	}
	return found, nil
}

func (e *Explorer) exploreCourse(ctx context.Context, course core.Course, stats *Stats) error {
	logger := e.logger.With(zap.String("course", course.Abbr))
	logger.Info("exploring course")
	before := stats.Files

	c, err := e.load(ctx, course.Link)
	if err != nil {
		return e.skip(stats, err)
	}

	for link, err := range extract.Tasks(c) {
		if err != nil {
			if err := e.skip(stats, err); err != nil {
				return err
			}
			continue
		}
		task := core.CourseTask{Name: link.Text, Link: link.Href, Course: course}
		if err := e.exploreTask(ctx, task, stats); err != nil {
			return err
		}
	}

	if href, ok := extract.MaterialsLink(c); ok {
		if err := e.exploreMaterials(ctx, course, href, stats); err != nil {
			return err
		}
	}

	if n := stats.Files - before; n == 0 {
		logger.Info("found no project files")
	} else {
		logger.Debug("found files", zap.Int("files", n))
	}
	return nil
}

func (e *Explorer) exploreTask(ctx context.Context, task core.CourseTask, stats *Stats) error {
	logger := e.logger.With(zap.String("course", task.Course.Abbr), zap.String("task", task.Name))

	c, err := e.load(ctx, task.Link)
	if err != nil {
		return e.skip(stats, err)
	}
	filesLink, ok := extract.TaskFilesLink(c)
	if !ok {
		logger.Debug("course task does not contain any downloadable files")
		return nil
	}
	c, err = e.load(ctx, filesLink)
	if err != nil {
		return e.skip(stats, err)
	}

	found := 0
	for file, err := range extract.TaskFiles(c) {
		if err != nil {
			if err := e.skip(stats, err); err != nil {
				return err
			}
			continue
		}
		found++
		rec := core.Record{
			Course: task.Course.Abbr,
			Kind:   core.KindTask,
			Source: task.Name,
			Year:   file.Year,
			Path:   file.Name,
			Href:   file.Href,
		}
		if e.writer != nil {
			rec.Dest = e.writer.TaskFilePath(task.Course.Abbr, task.Name, file.Year, file.Name)
		}
		if err := e.emit(ctx, rec, stats); err != nil {
			return err
		}
	}
	if found == 0 {
		logger.Info("found no project files, none submitted maybe?")
	}
	return nil
}

func (e *Explorer) exploreMaterials(ctx context.Context, course core.Course, href string, stats *Stats) error {
	c, err := e.load(ctx, href)
	if err != nil {
		return e.skip(stats, err)
	}

	for folder, err := range extract.Materials(c) {
		if err != nil {
			if err := e.skip(stats, err); err != nil {
				return err
			}
			continue
		}
		for entry, err := range e.resolver.ResolveLink(ctx, folder.Href) {
			if err != nil {
				if err := e.skip(stats, err); err != nil {
					return err
				}
				continue
			}
			rec := core.Record{
				Course: course.Abbr,
				Kind:   core.KindMaterials,
				Source: folder.Text,
				Path:   entry.Path,
				Href:   entry.Href,
			}
			if e.writer != nil {
				rec.Dest = e.writer.MaterialPath(course.Abbr, folder.Text, entry.Path)
			}
			if err := e.emit(ctx, rec, stats); err != nil {
				return err
			}
		}
	}
	return nil
}

// emit downloads rec when a downloader is configured and passes it on.
func (e *Explorer) emit(ctx context.Context, rec core.Record, stats *Stats) error {
	if e.downloader != nil {
		e.logger.Debug("found file, downloading",
			zap.String("course", rec.Course),
			zap.String("source", rec.Source),
			zap.String("path", rec.Path))
		n, err := e.downloader.Download(ctx, rec.Href, rec.Dest)
		if err != nil {
			return e.skip(stats, fmt.Errorf("downloading %s/%s: %w", rec.Source, rec.Path, err))
		}
		stats.Bytes += n
	}
	stats.Files++
	e.sink(rec)
	return nil
}

func (e *Explorer) load(ctx context.Context, link string) (*page.Content, error) {
	res, err := e.fetcher.Fetch(ctx, link)
	if err != nil {
		return nil, err
	}
	return page.Parse(res.HTML)
}

// skip records a recoverable failure. Fatal ones are returned unchanged.
func (e *Explorer) skip(stats *Stats, err error) error {
	if isFatal(err) {
		return err
	}
	e.logger.Warn("skipping", zap.Error(err))
	stats.Err = multierr.Append(stats.Err, err)
	return nil
}

func isFatal(err error) bool {
	return errors.Is(err, core.ErrUnauthorized) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
