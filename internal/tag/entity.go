// AngelaMos | 2026
// entity.go

package tag

import (
	"time"
)

type Tag struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	QuestionCount int       `db:"question_count"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
