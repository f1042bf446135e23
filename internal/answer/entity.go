// AngelaMos | 2026
// entity.go

package answer

import (
	"time"
)

type Answer struct {
	ID         string    `db:"id"`
	QuestionID string    `db:"question_id"`
	AuthorID   string    `db:"author_id"`
	Content    string    `db:"content"`
	Upvotes    int       `db:"upvotes"`
	Downvotes  int       `db:"downvotes"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type AnswerWithAuthor struct {
	Answer
	AuthorUsername   string `db:"author_username"`
	AuthorName       string `db:"author_name"`
	AuthorImage      string `db:"author_image"`
	AuthorReputation int    `db:"author_reputation"`
}
