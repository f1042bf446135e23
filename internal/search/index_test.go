// AngelaMos | 2026
// index_test.go

package search

import (
	"testing"
	"time"
)

func newPopulatedIndex(t *testing.T) *Index {
	t.Helper()

	index, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	t.Cleanup(func() {
		_ = index.Close()
	})

	docs := []*Document{
		{
			ID:        "q-1",
			Kind:      KindQuestion,
			Title:     "How do goroutines share memory safely",
			Content:   "Channels or mutexes guard state shared by every goroutine.",
			Tags:      []string{"go", "concurrency"},
			Author:    "alice",
			CreatedAt: time.Now(),
		},
		{
			ID:        "q-2",
			Kind:      KindQuestion,
			Title:     "Indexing strategies for postgres",
			Content:   "When does a partial postgres index beat a full btree?",
			Tags:      []string{"postgres"},
			Author:    "bob",
			CreatedAt: time.Now(),
		},
		{
			ID:        "d-1",
			Kind:      KindDoc,
			Title:     "Goroutine leak patterns",
			Content:   "A blocked goroutine with no receiver leaks forever.",
			Tags:      []string{"go"},
			Author:    "alice",
			CreatedAt: time.Now(),
		},
	}

	for _, doc := range docs {
		if err := index.IndexDocument(doc); err != nil {
			t.Fatalf("index %s: %v", doc.ID, err)
		}
	}

	return index
}

func TestSearchMatchesAcrossKinds(t *testing.T) {
	index := newPopulatedIndex(t)

	results, total, err := index.Search("goroutine", "", 10, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}

	found := map[string]bool{}
	for _, result := range results {
		found[result.ID] = true
	}
	if !found["q-1"] || !found["d-1"] {
		t.Fatalf("expected q-1 and d-1 in results, got %v", found)
	}
}

func TestSearchKindFilter(t *testing.T) {
	index := newPopulatedIndex(t)

	results, total, err := index.Search("goroutine", KindDoc, 10, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 {
		t.Fatalf("total = %d, want 1", total)
	}
	if results[0].ID != "d-1" || results[0].Kind != KindDoc {
		t.Fatalf("unexpected hit: %+v", results[0])
	}
}

func TestDeleteRemovesDocument(t *testing.T) {
	index := newPopulatedIndex(t)

	if err := index.Delete("q-2"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, total, err := index.Search("postgres", KindQuestion, 10, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 0 {
		t.Fatalf("total = %d, want 0 after delete", total)
	}
}

func TestReindexReplacesDocument(t *testing.T) {
	index := newPopulatedIndex(t)

	if err := index.IndexDocument(&Document{
		ID:      "q-1",
		Kind:    KindQuestion,
		Title:   "Retitled question",
		Content: "Edited body about channel buffering.",
		Author:  "alice",
	}); err != nil {
		t.Fatalf("reindex: %v", err)
	}

	_, total, err := index.Search("buffering", KindQuestion, 10, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 {
		t.Fatalf("total = %d, want 1 for the replaced document", total)
	}

	count, err := index.DocCount()
	if err != nil {
		t.Fatalf("doc count: %v", err)
	}
	if count != 3 {
		t.Fatalf("doc count = %d, want 3 (replace, not duplicate)", count)
	}
}
