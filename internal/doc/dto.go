// AngelaMos | 2026
// dto.go

package doc

import (
	"time"
)

const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortPopular = "popular"

	maxPageSize = 50
)

type CreateDocRequest struct {
	Title       string `json:"title"        validate:"required,min=5,max=150"`
	Content     string `json:"content"      validate:"required,min=20"`
	IsPublished *bool  `json:"is_published"`
}

type UpdateDocRequest struct {
	Title       string `json:"title"        validate:"required,min=5,max=150"`
	Content     string `json:"content"      validate:"required,min=20"`
	IsPublished *bool  `json:"is_published"`
}

type ListDocsParams struct {
	Page     int
	PageSize int
	Search   string
	Sort     string
	AuthorID string
}

func (p *ListDocsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > maxPageSize {
		p.PageSize = 20
	}
	if p.Sort != SortOldest && p.Sort != SortPopular {
		p.Sort = SortNewest
	}
}

func (p *ListDocsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type AuthorResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Image    string `json:"image,omitempty"`
}

type DocResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	Author      AuthorResponse `json:"author"`
	Views       int            `json:"views"`
	IsPublished bool           `json:"is_published"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func ToDocResponse(d *DocWithAuthor) DocResponse {
	return DocResponse{
		ID:      d.ID,
		Title:   d.Title,
		Content: d.Content,
		Author: AuthorResponse{
			ID:       d.AuthorID,
			Username: d.AuthorUsername,
			Name:     d.AuthorName,
			Image:    d.AuthorImage,
		},
		Views:       d.Views,
		IsPublished: d.IsPublished,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func ToDocResponseList(docs []DocWithAuthor) []DocResponse {
	resp := make([]DocResponse, 0, len(docs))
	for i := range docs {
		resp = append(resp, ToDocResponse(&docs[i]))
	}
	return resp
}
