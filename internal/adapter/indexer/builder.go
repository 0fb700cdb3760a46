// Package indexer turns (path, text) pairs into an Index.
package indexer

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"docseek/internal/adapter/analyzer"
	"docseek/internal/domain"
	"docseek/internal/logging"
)

// Source is one document to index. Read is called on a worker goroutine,
// so extraction runs in parallel with tokenization of other documents.
type Source struct {
	Path string
	Read func() (string, error)
}

// Text wraps already extracted text as a Source.
func Text(path, text string) Source {
	return Source{Path: path, Read: func() (string, error) { return text, nil }}
}

type Skipped struct {
	Path string
	Err  error
}

type Report struct {
	Indexed int
	Skipped []Skipped
}

type ProgressFunc func(processed, total int, path string)

type Options struct {
	// Workers bounds the pool; 0 means runtime.NumCPU(), 1 is serial.
	Workers  int
	Progress ProgressFunc
	Logger   *slog.Logger
}

// Builder aggregates documents into one Index. Add is safe for concurrent
// use; only the insert itself is serialized.
type Builder struct {
	mu     sync.Mutex
	index  *domain.Index
	report Report
	logger *slog.Logger
}

// NewBuilder creates an empty builder. A nil logger gets the indexer
// component tag; a caller's logger is used as given.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = logging.WithComponent("indexer")
	}
	return &Builder{
		index:  domain.NewIndex(),
		logger: logger,
	}
}

// Add tokenizes text and inserts it under path.
func (b *Builder) Add(path, text string) error {
	tf, total := analyzer.Count(text)
	doc := &domain.Document{Path: path, Terms: tf, TotalTokens: total}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.index.Docs[path]; exists {
		return domain.NewDuplicateError(path)
	}
	b.index.Docs[path] = doc
	b.report.Indexed++
	return nil
}

// Skip records a document that could not be read.
func (b *Builder) Skip(path string, err error) {
	b.logger.Warn("skipping document", "path", path, "error", err)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.report.Skipped = append(b.report.Skipped, Skipped{Path: path, Err: err})
}

// Result returns the index and the report built so far.
func (b *Builder) Result() (*domain.Index, *Report) {
	b.mu.Lock()
	defer b.mu.Unlock()
	report := b.report
	return b.index, &report
}

// Build indexes sources on a bounded worker pool. Documents that fail to
// read are skipped and reported; a duplicate path or a cancelled context
// aborts the build. Cancellation is checked between documents.
func Build(ctx context.Context, sources []Source, opts Options) (*domain.Index, *Report, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	b := NewBuilder(opts.Logger)
	total := len(sources)

	var progressMu sync.Mutex
	processed := 0
	done := func(path string) {
		if opts.Progress == nil {
			return
		}
		progressMu.Lock()
		defer progressMu.Unlock()
		processed++
		opts.Progress(processed, total, path)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, src := range sources {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			defer done(src.Path)

			text, err := src.Read()
			if err != nil {
				b.Skip(src.Path, err)
				return nil
			}
			return b.Add(src.Path, text)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	idx, report := b.Result()
	b.logger.Debug("index built", "documents", report.Indexed, "skipped", len(report.Skipped))
	return idx, report, nil
}

// BuildTexts indexes in-memory documents keyed by path.
func BuildTexts(ctx context.Context, texts map[string]string, opts Options) (*domain.Index, *Report, error) {
	sources := make([]Source, 0, len(texts))
	for path, text := range texts {
		sources = append(sources, Text(path, text))
	}
	return Build(ctx, sources, opts)
}
