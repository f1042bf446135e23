// AngelaMos | 2026
// dto.go

package question

import (
	"time"

	"github.com/querystack/querystack/internal/tag"
)

const (
	FilterNewest     = "newest"
	FilterPopular    = "popular"
	FilterUnanswered = "unanswered"

	maxPageSize = 50
	maxTags     = 5
)

type CreateQuestionRequest struct {
	Title   string   `json:"title"   validate:"required,min=5,max=150"`
	Content string   `json:"content" validate:"required,min=20"`
	Tags    []string `json:"tags"    validate:"required,min=1,max=5,dive,min=1,max=30"`
}

type UpdateQuestionRequest struct {
	Title   string   `json:"title"   validate:"required,min=5,max=150"`
	Content string   `json:"content" validate:"required,min=20"`
	Tags    []string `json:"tags"    validate:"required,min=1,max=5,dive,min=1,max=30"`
}

type ListQuestionsParams struct {
	Page     int
	PageSize int
	Filter   string
	TagID    string
	AuthorID string
	Search   string
}

func (p *ListQuestionsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > maxPageSize {
		p.PageSize = 20
	}
	if p.Filter != FilterPopular && p.Filter != FilterUnanswered {
		p.Filter = FilterNewest
	}
}

func (p *ListQuestionsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type AuthorResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Image      string `json:"image,omitempty"`
	Reputation int    `json:"reputation"`
}

type QuestionResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	Author      AuthorResponse    `json:"author"`
	Tags        []tag.TagResponse `json:"tags"`
	Views       int               `json:"views"`
	Upvotes     int               `json:"upvotes"`
	Downvotes   int               `json:"downvotes"`
	AnswerCount int               `json:"answer_count"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func ToQuestionResponse(q *QuestionWithAuthor, tags []tag.Tag) QuestionResponse {
	return QuestionResponse{
		ID:      q.ID,
		Title:   q.Title,
		Content: q.Content,
		Author: AuthorResponse{
			ID:         q.AuthorID,
			Username:   q.AuthorUsername,
			Name:       q.AuthorName,
			Image:      q.AuthorImage,
			Reputation: q.AuthorReputation,
		},
		Tags:        tag.ToTagResponseList(tags),
		Views:       q.Views,
		Upvotes:     q.Upvotes,
		Downvotes:   q.Downvotes,
		AnswerCount: q.AnswerCount,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}
