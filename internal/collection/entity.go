// AngelaMos | 2026
// entity.go

package collection

import (
	"time"
)

type Collection struct {
	ID         string    `db:"id"`
	AuthorID   string    `db:"author_id"`
	QuestionID string    `db:"question_id"`
	CreatedAt  time.Time `db:"created_at"`
}
