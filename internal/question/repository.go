// AngelaMos | 2026
// repository.go

package question

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/querystack/querystack/internal/core"
)

const questionWithAuthorColumns = `
	q.id, q.author_id, q.title, q.content, q.views, q.upvotes, q.downvotes,
	q.answer_count, q.created_at, q.updated_at,
	u.username AS author_username, u.name AS author_name,
	u.image AS author_image, u.reputation AS author_reputation`

type Repository interface {
	Create(ctx context.Context, question *Question) error
	GetByID(ctx context.Context, id string) (*QuestionWithAuthor, error)
	GetAuthorID(ctx context.Context, id string) (string, error)
	Update(ctx context.Context, question *Question) error
	Delete(ctx context.Context, id string) error
	List(
		ctx context.Context,
		params ListQuestionsParams,
	) ([]QuestionWithAuthor, int, error)
	IncrementViews(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, question *Question) error {
	query := `
		INSERT INTO questions (id, author_id, title, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		question.ID,
		question.AuthorID,
		question.Title,
		question.Content,
	).Scan(&question.CreatedAt, &question.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create question: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*QuestionWithAuthor, error) {
	query := `
		SELECT ` + questionWithAuthorColumns + `
		FROM questions q
		JOIN users u ON u.id = q.author_id
		WHERE q.id = $1`

	var question QuestionWithAuthor
	err := r.db.GetContext(ctx, &question, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get question: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}

	return &question, nil
}

func (r *repository) GetAuthorID(
	ctx context.Context,
	id string,
) (string, error) {
	query := `SELECT author_id FROM questions WHERE id = $1`

	var authorID string
	err := r.db.GetContext(ctx, &authorID, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get question author: %w", core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get question author: %w", err)
	}

	return authorID, nil
}

func (r *repository) Update(ctx context.Context, question *Question) error {
	query := `
		UPDATE questions
		SET title = $2, content = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		question.ID,
		question.Title,
		question.Content,
	).Scan(&question.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update question: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM questions WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete question: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListQuestionsParams,
) ([]QuestionWithAuthor, int, error) {
	params.Normalize()

	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if params.TagID != "" {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM question_tags qt WHERE qt.question_id = q.id AND qt.tag_id = $%d)",
			argIdx))
		args = append(args, params.TagID)
		argIdx++
	}

	if params.AuthorID != "" {
		conditions = append(conditions, fmt.Sprintf("q.author_id = $%d", argIdx))
		args = append(args, params.AuthorID)
		argIdx++
	}

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(q.title ILIKE $%d OR q.content ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Filter == FilterUnanswered {
		conditions = append(conditions, "q.answer_count = 0")
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM questions q WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count questions: %w", err)
	}

	orderBy := "q.created_at DESC"
	if params.Filter == FilterPopular {
		orderBy = "(q.upvotes - q.downvotes) DESC, q.views DESC, q.created_at DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM questions q
		JOIN users u ON u.id = q.author_id
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		questionWithAuthorColumns, whereClause, orderBy, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var questions []QuestionWithAuthor
	if err := r.db.SelectContext(ctx, &questions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", err)
	}

	return questions, total, nil
}

func (r *repository) IncrementViews(ctx context.Context, id string) error {
	query := `UPDATE questions SET views = views + 1 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("increment question views: %w", err)
	}

	return nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
