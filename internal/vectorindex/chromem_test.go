package vectorindex

import (
	"context"
	"math"
	"testing"
)

// mockEmbedder produces deterministic hash-based vectors so tests are
// reproducible without a live embedding service.
type mockEmbedder struct {
	dims int
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		results[i] = m.deterministicVector(text)
	}
	return results, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dims }
func (m *mockEmbedder) Name() string    { return "mock" }

func (m *mockEmbedder) deterministicVector(text string) []float32 {
	vec := make([]float32, m.dims)
	for i, ch := range text {
		idx := (int(ch) + i) % m.dims
		vec[idx] += 1.0
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}

func testRecords() map[string]Record {
	return map[string]Record{
		"lec3-p1": {Text: "Linear regression fits a line through data points", Source: "INFO2950_Lec3.pdf", PageNumber: 1, TotalPages: 3},
		"lec3-p2": {Text: "Residuals measure the distance from the fitted line", Source: "INFO2950_Lec3.pdf", PageNumber: 2, TotalPages: 3},
		"lec3-p3": {Text: "R squared summarizes goodness of fit", Source: "INFO2950_Lec3.pdf", PageNumber: 3, TotalPages: 3},
	}
}

func TestQueryAndFetchRoundTrip(t *testing.T) {
	ctx := context.Background()
	embedder := &mockEmbedder{dims: 64}
	idx := NewChromemIndex(embedder)

	if err := idx.AddRecords(ctx, "INFO 2950 Lecture 3", testRecords()); err != nil {
		t.Fatalf("AddRecords: %v", err)
	}
	if got := idx.Count("INFO 2950 Lecture 3"); got != 3 {
		t.Fatalf("Count = %d, want 3", got)
	}

	vec := embedder.deterministicVector("regression line fitting")
	matches, err := idx.Query(ctx, vec, 2, "INFO 2950 Lecture 3")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}

	ids := []string{matches[0].ID, matches[1].ID}
	records, err := idx.Fetch(ctx, ids, "INFO 2950 Lecture 3")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	for _, id := range ids {
		rec, ok := records[id]
		if !ok {
			t.Fatalf("record %q missing from fetch result", id)
		}
		if rec.Source != "INFO2950_Lec3.pdf" {
			t.Errorf("record %q source = %q", id, rec.Source)
		}
		if rec.TotalPages != 3 {
			t.Errorf("record %q total pages = %d, want 3", id, rec.TotalPages)
		}
	}
}

func TestQueryUnknownNamespace(t *testing.T) {
	idx := NewChromemIndex(&mockEmbedder{dims: 16})

	matches, err := idx.Query(context.Background(), make([]float32, 16), 5, "NOPE 1000")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches for unknown namespace, got %d", len(matches))
	}
}

func TestQueryClampsTopKToCollectionSize(t *testing.T) {
	ctx := context.Background()
	embedder := &mockEmbedder{dims: 32}
	idx := NewChromemIndex(embedder)

	if err := idx.AddRecords(ctx, "ENTOM 2030 Lecture 2", map[string]Record{
		"p1": {Text: "Insects have six legs", Source: "ENTOM2030_Lec2.pdf", PageNumber: 1, TotalPages: 1},
	}); err != nil {
		t.Fatalf("AddRecords: %v", err)
	}

	vec := embedder.deterministicVector("insects")
	matches, err := idx.Query(ctx, vec, 10, "ENTOM 2030 Lecture 2")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("got %d matches, want 1", len(matches))
	}
}

func TestNamespacesListing(t *testing.T) {
	ctx := context.Background()
	idx := NewChromemIndex(&mockEmbedder{dims: 16})

	for _, ns := range []string{"INFO 2950 Lecture 1", "INFO 2950 All Materials"} {
		if err := idx.AddRecords(ctx, ns, map[string]Record{
			"p1": {Text: "content", Source: "x.pdf", PageNumber: 1, TotalPages: 1},
		}); err != nil {
			t.Fatalf("AddRecords(%q): %v", ns, err)
		}
	}

	got := idx.Namespaces()
	want := []string{"INFO 2950 All Materials", "INFO 2950 Lecture 1"}
	if len(got) != len(want) {
		t.Fatalf("Namespaces = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Namespaces[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPersistAndLoad(t *testing.T) {
	ctx := context.Background()
	embedder := &mockEmbedder{dims: 32}
	idx := NewChromemIndex(embedder)

	if err := idx.AddRecords(ctx, "PUBPOL 2350 Quality_2023", testRecords()); err != nil {
		t.Fatalf("AddRecords: %v", err)
	}

	dir := t.TempDir()
	if err := idx.Persist(dir); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	restored := NewChromemIndex(embedder)
	if err := restored.Load(dir); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := restored.Count("PUBPOL 2350 Quality_2023"); got != 3 {
		t.Errorf("restored Count = %d, want 3", got)
	}
}
