// AngelaMos | 2026
// repository.go

package answer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/querystack/querystack/internal/core"
)

const answerWithAuthorColumns = `
	a.id, a.question_id, a.author_id, a.content, a.upvotes, a.downvotes,
	a.created_at, a.updated_at,
	u.username AS author_username, u.name AS author_name,
	u.image AS author_image, u.reputation AS author_reputation`

type Repository interface {
	Create(ctx context.Context, answer *Answer) error
	GetByID(ctx context.Context, id string) (*AnswerWithAuthor, error)
	GetAuthorID(ctx context.Context, id string) (string, error)
	Update(ctx context.Context, answer *Answer) error
	Delete(ctx context.Context, id string) error
	ListForQuestion(
		ctx context.Context,
		questionID string,
		params ListAnswersParams,
	) ([]AnswerWithAuthor, int, error)
	AdjustQuestionAnswerCount(
		ctx context.Context,
		questionID string,
		delta int,
	) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, answer *Answer) error {
	query := `
		INSERT INTO answers (id, question_id, author_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		answer.ID,
		answer.QuestionID,
		answer.AuthorID,
		answer.Content,
	).Scan(&answer.CreatedAt, &answer.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create answer: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*AnswerWithAuthor, error) {
	query := `
		SELECT ` + answerWithAuthorColumns + `
		FROM answers a
		JOIN users u ON u.id = a.author_id
		WHERE a.id = $1`

	var answer AnswerWithAuthor
	err := r.db.GetContext(ctx, &answer, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get answer: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get answer: %w", err)
	}

	return &answer, nil
}

func (r *repository) GetAuthorID(
	ctx context.Context,
	id string,
) (string, error) {
	query := `SELECT author_id FROM answers WHERE id = $1`

	var authorID string
	err := r.db.GetContext(ctx, &authorID, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get answer author: %w", core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get answer author: %w", err)
	}

	return authorID, nil
}

func (r *repository) Update(ctx context.Context, answer *Answer) error {
	query := `
		UPDATE answers
		SET content = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		answer.ID,
		answer.Content,
	).Scan(&answer.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update answer: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update answer: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM answers WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete answer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete answer: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete answer: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListForQuestion(
	ctx context.Context,
	questionID string,
	params ListAnswersParams,
) ([]AnswerWithAuthor, int, error) {
	params.Normalize()

	countQuery := `SELECT COUNT(*) FROM answers WHERE question_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, questionID); err != nil {
		return nil, 0, fmt.Errorf("count answers: %w", err)
	}

	orderBy := "a.created_at DESC"
	switch params.Sort {
	case SortOldest:
		orderBy = "a.created_at ASC"
	case SortPopular:
		orderBy = "(a.upvotes - a.downvotes) DESC, a.created_at DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM answers a
		JOIN users u ON u.id = a.author_id
		WHERE a.question_id = $1
		ORDER BY %s
		LIMIT $2 OFFSET $3`,
		answerWithAuthorColumns, orderBy)

	var answers []AnswerWithAuthor
	err := r.db.SelectContext(
		ctx,
		&answers,
		query,
		questionID,
		params.PageSize,
		params.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list answers: %w", err)
	}

	return answers, total, nil
}

func (r *repository) AdjustQuestionAnswerCount(
	ctx context.Context,
	questionID string,
	delta int,
) error {
	query := `
		UPDATE questions
		SET answer_count = GREATEST(answer_count + $2, 0)
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, questionID, delta); err != nil {
		return fmt.Errorf("adjust answer count: %w", err)
	}

	return nil
}
