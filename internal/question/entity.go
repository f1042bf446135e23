// AngelaMos | 2026
// entity.go

package question

import (
	"time"
)

type Question struct {
	ID          string    `db:"id"`
	AuthorID    string    `db:"author_id"`
	Title       string    `db:"title"`
	Content     string    `db:"content"`
	Views       int       `db:"views"`
	Upvotes     int       `db:"upvotes"`
	Downvotes   int       `db:"downvotes"`
	AnswerCount int       `db:"answer_count"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// QuestionWithAuthor carries the denormalized author fields that list and
// detail views render without a second query.
type QuestionWithAuthor struct {
	Question
	AuthorUsername   string `db:"author_username"`
	AuthorName       string `db:"author_name"`
	AuthorImage      string `db:"author_image"`
	AuthorReputation int    `db:"author_reputation"`
}
