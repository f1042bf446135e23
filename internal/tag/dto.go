// AngelaMos | 2026
// dto.go

package tag

import (
	"time"
)

const (
	SortPopular = "popular"
	SortName    = "name"
	SortRecent  = "recent"

	maxPageSize = 100
)

type ListTagsParams struct {
	Page     int
	PageSize int
	Search   string
	Sort     string
}

func (p *ListTagsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > maxPageSize {
		p.PageSize = 20
	}
	if p.Sort != SortName && p.Sort != SortRecent {
		p.Sort = SortPopular
	}
}

func (p *ListTagsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type TagResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

func ToTagResponse(t *Tag) TagResponse {
	return TagResponse{
		ID:            t.ID,
		Name:          t.Name,
		QuestionCount: t.QuestionCount,
		CreatedAt:     t.CreatedAt,
	}
}

func ToTagResponseList(tags []Tag) []TagResponse {
	resp := make([]TagResponse, 0, len(tags))
	for i := range tags {
		resp = append(resp, ToTagResponse(&tags[i]))
	}
	return resp
}
