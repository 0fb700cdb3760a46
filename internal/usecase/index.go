package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"docseek/internal/adapter/indexer"
	"docseek/internal/domain"
	"docseek/internal/logging"
	"docseek/internal/port"
)

// IndexUseCase handles folder indexing.
type IndexUseCase struct {
	walker    port.FileWalker
	extractor port.Extractor
	store     port.IndexStore
	workers   int
	logger    *slog.Logger
}

// NewIndexUseCase creates a new index use case. workers <= 0 uses one
// worker per CPU.
func NewIndexUseCase(
	walker port.FileWalker,
	extractor port.Extractor,
	store port.IndexStore,
	workers int,
) *IndexUseCase {
	return &IndexUseCase{
		walker:    walker,
		extractor: extractor,
		store:     store,
		workers:   workers,
		logger:    logging.WithComponent("index"),
	}
}

// IndexResult contains the results of an indexing operation.
type IndexResult struct {
	FilesIndexed int
	FilesSkipped int
	Terms        int
	Tokens       int
	Warnings     []string
	Duration     time.Duration
}

// Index builds a fresh index of the documents under root and saves it to
// out. Unreadable documents are skipped and listed in Warnings.
func (u *IndexUseCase) Index(ctx context.Context, root, out string, progress indexer.ProgressFunc) (*IndexResult, error) {
	start := time.Now()

	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	sort.Strings(paths)

	sources := make([]indexer.Source, 0, len(paths))
	for _, path := range paths {
		sources = append(sources, indexer.Source{
			Path: path,
			Read: func() (string, error) { return u.extractor.Extract(path) },
		})
	}

	idx, report, err := indexer.Build(ctx, sources, indexer.Options{
		Workers:  u.workers,
		Progress: progress,
		Logger:   u.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	if err := u.store.Save(out, idx); err != nil {
		return nil, fmt.Errorf("failed to save index: %w", err)
	}

	stats := idx.Stats()
	result := &IndexResult{
		FilesIndexed: report.Indexed,
		FilesSkipped: len(report.Skipped),
		Terms:        stats.Terms,
		Tokens:       stats.Tokens,
		Duration:     time.Since(start),
	}
	for _, s := range report.Skipped {
		result.Warnings = append(result.Warnings, s.Err.Error())
	}

	u.logger.Info("index written",
		"root", root,
		"out", out,
		"documents", result.FilesIndexed,
		"skipped", result.FilesSkipped,
		"terms", result.Terms,
		"duration", result.Duration,
	)
	return result, nil
}

// Stats loads the index at path and summarizes it.
func (u *IndexUseCase) Stats(path string) (domain.IndexStats, error) {
	idx, err := u.store.Load(path)
	if err != nil {
		return domain.IndexStats{}, err
	}
	return idx.Stats(), nil
}
