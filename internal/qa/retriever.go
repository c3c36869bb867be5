package qa

import (
	"context"
	"strings"

	"github.com/akelani/classchat/internal/embeddings"
	"github.com/akelani/classchat/internal/retry"
	"github.com/akelani/classchat/internal/vectorindex"
)

// RetrieverConfig bounds one retrieval pass.
type RetrieverConfig struct {
	DocumentBudget   int // max documents fetched across all namespaces
	PerNamespaceTopK int // nearest matches requested per namespace
	MaxNamespaces    int // max namespaces searched per call
}

// DefaultRetrieverConfig matches the deployed defaults.
func DefaultRetrieverConfig() RetrieverConfig {
	return RetrieverConfig{
		DocumentBudget:   30,
		PerNamespaceTopK: 10,
		MaxNamespaces:    5,
	}
}

// Retriever performs budgeted similarity search across course namespaces.
// Namespaces are searched sequentially in catalog order, so which documents
// are dropped under a tight budget is deterministic.
type Retriever struct {
	embedder embeddings.Embedder
	index    vectorindex.Index
	exec     *retry.Executor
	cfg      RetrieverConfig
}

// NewRetriever creates a Retriever. Zero-valued config fields fall back to
// the defaults.
func NewRetriever(embedder embeddings.Embedder, index vectorindex.Index, exec *retry.Executor, cfg RetrieverConfig) *Retriever {
	def := DefaultRetrieverConfig()
	if cfg.DocumentBudget <= 0 {
		cfg.DocumentBudget = def.DocumentBudget
	}
	if cfg.PerNamespaceTopK <= 0 {
		cfg.PerNamespaceTopK = def.PerNamespaceTopK
	}
	if cfg.MaxNamespaces <= 0 {
		cfg.MaxNamespaces = def.MaxNamespaces
	}
	return &Retriever{embedder: embedder, index: index, exec: exec, cfg: cfg}
}

// Retrieve embeds the question once, then walks the matching namespaces in
// catalog order, querying and fetching until the document budget is spent.
// The result holds at most DocumentBudget documents, in namespace-then-rank
// order, and is a fresh slice on every call.
func (r *Retriever) Retrieve(ctx context.Context, question string, namespaces []string, filter string) ([]Document, error) {
	vector, err := r.embedQuestion(ctx, question)
	if err != nil {
		return nil, err
	}

	selected := selectNamespaces(namespaces, filter, r.cfg.MaxNamespaces)

	var fetched []Document
	remaining := r.cfg.DocumentBudget

	for _, namespace := range selected {
		if remaining <= 0 {
			break
		}

		var matches []vectorindex.Match
		err := r.exec.Do(ctx, func(ctx context.Context) error {
			var qerr error
			matches, qerr = r.index.Query(ctx, vector, r.cfg.PerNamespaceTopK, namespace)
			return qerr
		})
		if err != nil {
			return nil, err
		}

		numToFetch := len(matches)
		if numToFetch > remaining {
			numToFetch = remaining
		}
		if numToFetch == 0 {
			continue
		}

		ids := make([]string, numToFetch)
		for i := 0; i < numToFetch; i++ {
			ids[i] = matches[i].ID
		}

		var records map[string]vectorindex.Record
		err = r.exec.Do(ctx, func(ctx context.Context) error {
			var ferr error
			records, ferr = r.index.Fetch(ctx, ids, namespace)
			return ferr
		})
		if err != nil {
			return nil, err
		}

		// Keep similarity-rank order within the namespace.
		for _, id := range ids {
			rec, ok := records[id]
			if !ok {
				continue
			}
			fetched = append(fetched, Document{
				Text:       rec.Text,
				Source:     rec.Source,
				PageNumber: rec.PageNumber,
				TotalPages: rec.TotalPages,
			})
			remaining--
		}
	}

	return fetched, nil
}

func (r *Retriever) embedQuestion(ctx context.Context, question string) ([]float32, error) {
	var vectors [][]float32
	err := r.exec.Do(ctx, func(ctx context.Context) error {
		var eerr error
		vectors, eerr = r.embedder.Embed(ctx, []string{question})
		return eerr
	})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, ErrNoEmbedding
	}
	return vectors[0], nil
}

// selectNamespaces picks up to max namespaces whose name contains the
// course filter, preserving catalog order.
func selectNamespaces(namespaces []string, filter string, max int) []string {
	var selected []string
	for _, namespace := range namespaces {
		if !strings.Contains(namespace, filter) {
			continue
		}
		selected = append(selected, namespace)
		if len(selected) == max {
			break
		}
	}
	return selected
}
