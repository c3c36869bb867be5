// Package vectorindex defines the vector index service consumed by the
// retriever: a two-step contract of similarity query (returning ids)
// followed by a full-record fetch, both scoped to one namespace.
package vectorindex

import "context"

// Match is one similarity-query hit. Only the id is contractual; the
// similarity score is informational.
type Match struct {
	ID         string
	Similarity float32
}

// Record is one full course-material chunk fetched from the index.
type Record struct {
	Text       string
	Source     string
	PageNumber int
	TotalPages int
}

// Index is the vector index service. A namespace is one logical document
// corpus (a lecture, a syllabus, or a course's "All Materials" aggregate).
type Index interface {
	// Query runs a nearest-neighbour search over the given namespace and
	// returns up to topK matches in similarity-rank order. An unknown or
	// empty namespace yields no matches, not an error.
	Query(ctx context.Context, vector []float32, topK int, namespace string) ([]Match, error)

	// Fetch retrieves the full records for the given ids within a namespace.
	Fetch(ctx context.Context, ids []string, namespace string) (map[string]Record, error)
}
