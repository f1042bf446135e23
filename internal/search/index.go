// AngelaMos | 2026
// index.go

package search

import (
	"fmt"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

const (
	KindQuestion = "question"
	KindDoc      = "doc"
)

// Document is the unit stored in the full-text index. Kind distinguishes
// questions from docs so results can link to the right resource.
type Document struct {
	ID        string
	Kind      string
	Title     string
	Content   string
	Tags      []string
	Author    string
	CreatedAt time.Time
}

type Result struct {
	ID        string
	Kind      string
	Title     string
	Author    string
	Score     float64
	Fragments map[string][]string
}

type Index struct {
	index bleve.Index
}

// Open opens the index at path, creating it with the field mapping when it
// does not exist yet.
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	return &Index{index: idx}, nil
}

// OpenInMemory backs the index with RAM only, used in tests.
func OpenInMemory() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create in-memory index: %w", err)
	}

	return &Index{index: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = "en"

	keywordFieldMapping := bleve.NewTextFieldMapping()

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("ID", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("Kind", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("Title", titleFieldMapping)
	docMapping.AddFieldMappingsAt("Content", textFieldMapping)
	docMapping.AddFieldMappingsAt("Tags", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("Author", keywordFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

func (i *Index) Close() error {
	return i.index.Close()
}

// DocCount reports how many documents the index holds. Health checks use
// it as a cheap probe of the underlying store.
func (i *Index) DocCount() (uint64, error) {
	return i.index.DocCount()
}

func (i *Index) IndexDocument(doc *Document) error {
	if err := i.index.Index(doc.ID, doc); err != nil {
		return fmt.Errorf("index document: %w", err)
	}
	return nil
}

func (i *Index) Delete(id string) error {
	if err := i.index.Delete(id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Search runs a query-string query (supports quotes, boolean operators and
// fuzzy ~) with HTML-highlighted fragments. kind narrows results to a single
// document kind when non-empty.
func (i *Index) Search(queryStr, kind string, limit, offset int) ([]*Result, int, error) {
	query := bleve.NewQueryStringQuery(queryStr)

	var req *bleve.SearchRequest
	if kind != "" {
		kindQuery := bleve.NewTermQuery(kind)
		kindQuery.SetField("Kind")
		req = bleve.NewSearchRequestOptions(
			bleve.NewConjunctionQuery(query, kindQuery),
			limit,
			offset,
			false,
		)
	} else {
		req = bleve.NewSearchRequestOptions(query, limit, offset, false)
	}

	req.Highlight = bleve.NewHighlightWithStyle("html")
	req.Fields = []string{"Kind", "Title", "Author"}

	results, err := i.index.Search(req)
	if err != nil {
		return nil, 0, fmt.Errorf("search: %w", err)
	}

	searchResults := make([]*Result, 0, len(results.Hits))
	for _, hit := range results.Hits {
		result := &Result{
			ID:        hit.ID,
			Score:     hit.Score,
			Fragments: hit.Fragments,
		}

		if kind, ok := hit.Fields["Kind"].(string); ok {
			result.Kind = kind
		}
		if title, ok := hit.Fields["Title"].(string); ok {
			result.Title = title
		}
		if author, ok := hit.Fields["Author"].(string); ok {
			result.Author = author
		}

		searchResults = append(searchResults, result)
	}

	//nolint:gosec // G115: total hits bounded well below int range
	return searchResults, int(results.Total), nil
}
