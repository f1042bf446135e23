// AngelaMos | 2026
// dto.go

package answer

import (
	"time"
)

const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortPopular = "popular"

	maxPageSize = 50
)

type CreateAnswerRequest struct {
	Content string `json:"content" validate:"required,min=20"`
}

type UpdateAnswerRequest struct {
	Content string `json:"content" validate:"required,min=20"`
}

type ListAnswersParams struct {
	Page     int
	PageSize int
	Sort     string
}

func (p *ListAnswersParams) Normalize() {
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

func (p *ListAnswersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type AuthorResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Image      string `json:"image,omitempty"`
	Reputation int    `json:"reputation"`
}

type AnswerResponse struct {
	ID         string         `json:"id"`
	QuestionID string         `json:"question_id"`
	Content    string         `json:"content"`
	Author     AuthorResponse `json:"author"`
	Upvotes    int            `json:"upvotes"`
	Downvotes  int            `json:"downvotes"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func ToAnswerResponse(a *AnswerWithAuthor) AnswerResponse {
	return AnswerResponse{
		ID:         a.ID,
		QuestionID: a.QuestionID,
		Content:    a.Content,
		Author: AuthorResponse{
			ID:         a.AuthorID,
			Username:   a.AuthorUsername,
			Name:       a.AuthorName,
			Image:      a.AuthorImage,
			Reputation: a.AuthorReputation,
		},
		Upvotes:   a.Upvotes,
		Downvotes: a.Downvotes,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func ToAnswerResponseList(answers []AnswerWithAuthor) []AnswerResponse {
	resp := make([]AnswerResponse, 0, len(answers))
	for i := range answers {
		resp = append(resp, ToAnswerResponse(&answers[i]))
	}
	return resp
}
