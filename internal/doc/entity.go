// AngelaMos | 2026
// entity.go

package doc

import (
	"time"
)

type Doc struct {
	ID          string    `db:"id"`
	AuthorID    string    `db:"author_id"`
	Title       string    `db:"title"`
	Content     string    `db:"content"`
	Views       int       `db:"views"`
	IsPublished bool      `db:"is_published"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type DocWithAuthor struct {
	Doc
	AuthorUsername string `db:"author_username"`
	AuthorName     string `db:"author_name"`
	AuthorImage    string `db:"author_image"`
}
