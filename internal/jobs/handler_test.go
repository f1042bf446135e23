// AngelaMos | 2026
// handler_test.go

package jobs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeSearcher struct {
	lastQuery string
	lastPage  int
	listings  []Listing
	err       error
}

func (f *fakeSearcher) Search(
	_ context.Context,
	query string,
	page int,
) ([]Listing, error) {
	f.lastQuery = query
	f.lastPage = page
	return f.listings, f.err
}

func TestSearchJobsRequiresQuery(t *testing.T) {
	handler := NewHandler(&fakeSearcher{})

	req := httptest.NewRequest(http.MethodGet, "/jobs?query=", nil)
	rec := httptest.NewRecorder()
	handler.SearchJobs(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSearchJobsRejectsBadPage(t *testing.T) {
	handler := NewHandler(&fakeSearcher{})

	req := httptest.NewRequest(http.MethodGet, "/jobs?query=go&page=zero", nil)
	rec := httptest.NewRecorder()
	handler.SearchJobs(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSearchJobsProxiesQueryAndPage(t *testing.T) {
	searcher := &fakeSearcher{
		listings: []Listing{
			{ID: "job-1", Title: "Go Engineer", Employer: "Acme"},
		},
	}
	handler := NewHandler(searcher)

	req := httptest.NewRequest(
		http.MethodGet,
		"/jobs?query=go+engineer&page=3",
		nil,
	)
	rec := httptest.NewRecorder()
	handler.SearchJobs(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if searcher.lastQuery != "go engineer" {
		t.Fatalf("query = %q, want %q", searcher.lastQuery, "go engineer")
	}
	if searcher.lastPage != 3 {
		t.Fatalf("page = %d, want 3", searcher.lastPage)
	}

	var body struct {
		Data struct {
			Listings []Listing `json:"listings"`
			Page     int       `json:"page"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Data.Listings) != 1 || body.Data.Listings[0].ID != "job-1" {
		t.Fatalf("unexpected listings: %+v", body.Data.Listings)
	}
}
