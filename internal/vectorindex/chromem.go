package vectorindex

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	chromem "github.com/philippgille/chromem-go"

	"github.com/akelani/classchat/internal/embeddings"
)

// ChromemIndex implements Index using chromem-go, with one chromem
// collection per namespace.
type ChromemIndex struct {
	db        *chromem.DB
	embedFunc chromem.EmbeddingFunc
}

// NewChromemIndex creates an empty in-memory ChromemIndex.
func NewChromemIndex(embedder embeddings.Embedder) *ChromemIndex {
	return &ChromemIndex{
		db:        chromem.NewDB(),
		embedFunc: embeddings.ToChromemFunc(embedder),
	}
}

func (x *ChromemIndex) Query(ctx context.Context, vector []float32, topK int, namespace string) ([]Match, error) {
	col := x.db.GetCollection(namespace, x.embedFunc)
	if col == nil {
		return nil, nil
	}

	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	// chromem-go requires nResults <= collection size.
	if topK > count {
		topK = count
	}

	results, err := col.QueryEmbedding(ctx, vector, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying namespace %q: %w", namespace, err)
	}

	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{ID: r.ID, Similarity: r.Similarity}
	}
	return matches, nil
}

func (x *ChromemIndex) Fetch(ctx context.Context, ids []string, namespace string) (map[string]Record, error) {
	col := x.db.GetCollection(namespace, x.embedFunc)
	if col == nil {
		return nil, fmt.Errorf("unknown namespace %q", namespace)
	}

	records := make(map[string]Record, len(ids))
	for _, id := range ids {
		doc, err := col.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("fetching %q from namespace %q: %w", id, namespace, err)
		}
		records[id] = recordFromMetadata(doc.Content, doc.Metadata)
	}
	return records, nil
}

// AddRecords stores records in the given namespace, creating its collection
// on first use. Each record id must be unique within the namespace.
func (x *ChromemIndex) AddRecords(ctx context.Context, namespace string, recs map[string]Record) error {
	if len(recs) == 0 {
		return nil
	}

	col, err := x.db.GetOrCreateCollection(namespace, nil, x.embedFunc)
	if err != nil {
		return fmt.Errorf("creating namespace %q: %w", namespace, err)
	}

	ids := make([]string, 0, len(recs))
	for id := range recs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]chromem.Document, 0, len(recs))
	for _, id := range ids {
		rec := recs[id]
		docs = append(docs, chromem.Document{
			ID:       id,
			Content:  rec.Text,
			Metadata: metadataFromRecord(rec),
		})
	}

	return col.AddDocuments(ctx, docs, 1)
}

// Namespaces lists every namespace present in the index.
func (x *ChromemIndex) Namespaces() []string {
	cols := x.db.ListCollections()
	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of records in one namespace.
func (x *ChromemIndex) Count(namespace string) int {
	col := x.db.GetCollection(namespace, x.embedFunc)
	if col == nil {
		return 0
	}
	return col.Count()
}

// Persist saves the index to a gzipped gob file under dir.
func (x *ChromemIndex) Persist(dir string) error {
	return x.db.ExportToFile(dir+"/index.gob.gz", true, "")
}

// Load restores the index from a gzipped gob file under dir.
func (x *ChromemIndex) Load(dir string) error {
	if err := x.db.ImportFromFile(dir+"/index.gob.gz", ""); err != nil {
		return fmt.Errorf("importing index: %w", err)
	}
	return nil
}

func metadataFromRecord(rec Record) map[string]string {
	return map[string]string{
		"source":      rec.Source,
		"page_number": strconv.Itoa(rec.PageNumber),
		"total_pages": strconv.Itoa(rec.TotalPages),
	}
}

func recordFromMetadata(content string, m map[string]string) Record {
	pageNumber, _ := strconv.Atoi(m["page_number"])
	totalPages, _ := strconv.Atoi(m["total_pages"])
	return Record{
		Text:       content,
		Source:     m["source"],
		PageNumber: pageNumber,
		TotalPages: totalPages,
	}
}
