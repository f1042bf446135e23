// AngelaMos | 2026
// repository.go

package collection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/querystack/querystack/internal/core"
	"github.com/querystack/querystack/internal/question"
)

type Repository interface {
	Get(ctx context.Context, authorID, questionID string) (*Collection, error)
	Create(ctx context.Context, collection *Collection) error
	Delete(ctx context.Context, id string) error
	ListSavedQuestions(
		ctx context.Context,
		authorID string,
		page, pageSize int,
	) ([]question.QuestionWithAuthor, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Get(
	ctx context.Context,
	authorID, questionID string,
) (*Collection, error) {
	query := `
		SELECT id, author_id, question_id, created_at
		FROM collections
		WHERE author_id = $1 AND question_id = $2`

	var collection Collection
	err := r.db.GetContext(ctx, &collection, query, authorID, questionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get collection: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}

	return &collection, nil
}

func (r *repository) Create(
	ctx context.Context,
	collection *Collection,
) error {
	query := `
		INSERT INTO collections (id, author_id, question_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (author_id, question_id) DO NOTHING
		RETURNING created_at`

	err := r.db.GetContext(ctx, &collection.CreatedAt, query,
		collection.ID,
		collection.AuthorID,
		collection.QuestionID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("create collection: %w", core.ErrDuplicateKey)
	}
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM collections WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete collection: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListSavedQuestions(
	ctx context.Context,
	authorID string,
	page, pageSize int,
) ([]question.QuestionWithAuthor, int, error) {
	countQuery := `SELECT COUNT(*) FROM collections WHERE author_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, authorID); err != nil {
		return nil, 0, fmt.Errorf("count saved questions: %w", err)
	}

	query := `
		SELECT
			q.id, q.author_id, q.title, q.content, q.views, q.upvotes,
			q.downvotes, q.answer_count, q.created_at, q.updated_at,
			u.username AS author_username, u.name AS author_name,
			u.image AS author_image, u.reputation AS author_reputation
		FROM collections c
		JOIN questions q ON q.id = c.question_id
		JOIN users u ON u.id = q.author_id
		WHERE c.author_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3`

	var questions []question.QuestionWithAuthor
	err := r.db.SelectContext(
		ctx,
		&questions,
		query,
		authorID,
		pageSize,
		(page-1)*pageSize,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list saved questions: %w", err)
	}

	return questions, total, nil
}
