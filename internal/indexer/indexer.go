// Package indexer ingests course-material files into the vector index:
// each file is split into pages, and every page lands in the file's own
// namespace plus the course-wide "All Materials" namespace.
package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/akelani/classchat/internal/progress"
	"github.com/akelani/classchat/internal/vectorindex"
	"github.com/akelani/classchat/internal/walker"
)

// AllMaterialsSuffix names the course-wide namespace that aggregates
// every document.
const AllMaterialsSuffix = "All Materials"

// RecordAdder is the slice of the vector index the indexer writes to.
type RecordAdder interface {
	AddRecords(ctx context.Context, namespace string, recs map[string]vectorindex.Record) error
}

// Config controls one indexing run.
type Config struct {
	Course   string // course label, prefixed onto every namespace
	RootDir  string // materials directory
	Include  []string
	Exclude  []string
	PageSize int // max characters per page (0 = use default)
}

// DefaultPageSize is the page split threshold in characters.
const DefaultPageSize = 1500

// Summary reports what one indexing run ingested.
type Summary struct {
	Files      int
	Pages      int
	Namespaces []string // per-document namespaces, in ingestion order
}

// Indexer writes course materials into the vector index.
type Indexer struct {
	index    RecordAdder
	reporter progress.Reporter
}

// New creates an Indexer. A nil reporter disables progress output.
func New(index RecordAdder, reporter progress.Reporter) *Indexer {
	if reporter == nil {
		reporter = progress.Silent{}
	}
	return &Indexer{index: index, reporter: reporter}
}

// Run walks the materials directory and indexes every matching file.
func (ix *Indexer) Run(ctx context.Context, cfg Config) (*Summary, error) {
	if cfg.Course == "" {
		return nil, fmt.Errorf("indexer: course is required")
	}

	files, err := walker.Walk(walker.Config{
		RootDir: cfg.RootDir,
		Include: cfg.Include,
		Exclude: cfg.Exclude,
	})
	if err != nil {
		return nil, err
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	allNamespace := cfg.Course + " " + AllMaterialsSuffix
	summary := &Summary{}

	ix.reporter.Start(len(files))
	defer ix.reporter.Finish()

	for i, f := range files {
		ix.reporter.Update(i+1, f.RelPath)

		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("indexer: reading %s: %w", f.RelPath, err)
		}

		pages := SplitPages(string(data), pageSize)
		if len(pages) == 0 {
			continue
		}

		namespace := cfg.Course + " " + documentName(f.RelPath)
		recs := make(map[string]vectorindex.Record, len(pages))
		for p, text := range pages {
			id := fmt.Sprintf("%s#page-%d", f.RelPath, p+1)
			recs[id] = vectorindex.Record{
				Text:       text,
				Source:     f.RelPath,
				PageNumber: p + 1,
				TotalPages: len(pages),
			}
		}

		if err := ix.index.AddRecords(ctx, namespace, recs); err != nil {
			return nil, fmt.Errorf("indexer: indexing %s: %w", f.RelPath, err)
		}
		if err := ix.index.AddRecords(ctx, allNamespace, recs); err != nil {
			return nil, fmt.Errorf("indexer: indexing %s into %s: %w", f.RelPath, allNamespace, err)
		}

		summary.Files++
		summary.Pages += len(pages)
		summary.Namespaces = append(summary.Namespaces, namespace)
	}

	return summary, nil
}

// documentName turns a relative file path into a human-readable document
// label: directories and the extension are dropped, underscores and
// hyphens become spaces.
func documentName(relPath string) string {
	base := filepath.Base(relPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return strings.Join(strings.Fields(base), " ")
}
