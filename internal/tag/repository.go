// AngelaMos | 2026
// repository.go

package tag

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/querystack/querystack/internal/core"
)

const tagColumns = "id, name, question_count, created_at, updated_at"

type Repository interface {
	UpsertAll(ctx context.Context, names []string) ([]Tag, error)
	GetByID(ctx context.Context, id string) (*Tag, error)
	List(ctx context.Context, params ListTagsParams) ([]Tag, int, error)
	ListForQuestion(ctx context.Context, questionID string) ([]Tag, error)
	ListForQuestions(
		ctx context.Context,
		questionIDs []string,
	) (map[string][]Tag, error)
	AttachQuestion(ctx context.Context, questionID, tagID string) error
	DetachQuestion(ctx context.Context, questionID, tagID string) error
	DetachAllForQuestion(ctx context.Context, questionID string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// UpsertAll resolves tag names to rows, creating missing tags. Names are
// lowercased so "Go" and "go" share one tag.
func (r *repository) UpsertAll(
	ctx context.Context,
	names []string,
) ([]Tag, error) {
	query := `
		INSERT INTO tags (id, name)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET updated_at = NOW()
		RETURNING ` + tagColumns

	seen := make(map[string]bool, len(names))
	tags := make([]Tag, 0, len(names))

	for _, name := range names {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true

		var tag Tag
		err := r.db.GetContext(ctx, &tag, query, uuid.New().String(), normalized)
		if err != nil {
			return nil, fmt.Errorf("upsert tag %q: %w", normalized, err)
		}

		tags = append(tags, tag)
	}

	return tags, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags WHERE id = $1`

	var tag Tag
	err := r.db.GetContext(ctx, &tag, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get tag: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}

	return &tag, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListTagsParams,
) ([]Tag, int, error) {
	params.Normalize()

	whereClause := "TRUE"
	var args []any
	argIdx := 1

	if params.Search != "" {
		whereClause = fmt.Sprintf("name ILIKE $%d", argIdx)
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM tags WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count tags: %w", err)
	}

	orderBy := "question_count DESC, name ASC"
	switch params.Sort {
	case SortName:
		orderBy = "name ASC"
	case SortRecent:
		orderBy = "created_at DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s FROM tags
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		tagColumns, whereClause, orderBy, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var tags []Tag
	if err := r.db.SelectContext(ctx, &tags, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list tags: %w", err)
	}

	return tags, total, nil
}

func (r *repository) ListForQuestion(
	ctx context.Context,
	questionID string,
) ([]Tag, error) {
	query := `
		SELECT t.id, t.name, t.question_count, t.created_at, t.updated_at
		FROM tags t
		JOIN question_tags qt ON qt.tag_id = t.id
		WHERE qt.question_id = $1
		ORDER BY t.name ASC`

	var tags []Tag
	if err := r.db.SelectContext(ctx, &tags, query, questionID); err != nil {
		return nil, fmt.Errorf("list tags for question: %w", err)
	}

	return tags, nil
}

func (r *repository) ListForQuestions(
	ctx context.Context,
	questionIDs []string,
) (map[string][]Tag, error) {
	if len(questionIDs) == 0 {
		return map[string][]Tag{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT qt.question_id, t.id, t.name, t.question_count,
			t.created_at, t.updated_at
		FROM tags t
		JOIN question_tags qt ON qt.tag_id = t.id
		WHERE qt.question_id IN (?)
		ORDER BY t.name ASC`, questionIDs)
	if err != nil {
		return nil, fmt.Errorf("build tags query: %w", err)
	}

	var rows []struct {
		QuestionID string `db:"question_id"`
		Tag
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tags for questions: %w", err)
	}

	result := make(map[string][]Tag, len(questionIDs))
	for _, row := range rows {
		result[row.QuestionID] = append(result[row.QuestionID], row.Tag)
	}

	return result, nil
}

// AttachQuestion links a question to a tag and bumps the tag's question
// count. Re-attaching an existing link is a no-op.
func (r *repository) AttachQuestion(
	ctx context.Context,
	questionID, tagID string,
) error {
	query := `
		INSERT INTO question_tags (question_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, questionID, tagID)
	if err != nil {
		return fmt.Errorf("attach tag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("attach tag: %w", err)
	}

	if rows > 0 {
		if err := r.adjustQuestionCount(ctx, tagID, 1); err != nil {
			return err
		}
	}

	return nil
}

func (r *repository) DetachQuestion(
	ctx context.Context,
	questionID, tagID string,
) error {
	query := `
		DELETE FROM question_tags
		WHERE question_id = $1 AND tag_id = $2`

	result, err := r.db.ExecContext(ctx, query, questionID, tagID)
	if err != nil {
		return fmt.Errorf("detach tag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("detach tag: %w", err)
	}

	if rows > 0 {
		if err := r.adjustQuestionCount(ctx, tagID, -1); err != nil {
			return err
		}
	}

	return nil
}

func (r *repository) DetachAllForQuestion(
	ctx context.Context,
	questionID string,
) error {
	query := `
		UPDATE tags
		SET question_count = GREATEST(question_count - 1, 0), updated_at = NOW()
		WHERE id IN (
			SELECT tag_id FROM question_tags WHERE question_id = $1
		)`

	if _, err := r.db.ExecContext(ctx, query, questionID); err != nil {
		return fmt.Errorf("detach all tags: %w", err)
	}

	deleteQuery := `DELETE FROM question_tags WHERE question_id = $1`
	if _, err := r.db.ExecContext(ctx, deleteQuery, questionID); err != nil {
		return fmt.Errorf("detach all tags: %w", err)
	}

	return nil
}

func (r *repository) adjustQuestionCount(
	ctx context.Context,
	tagID string,
	delta int,
) error {
	query := `
		UPDATE tags
		SET question_count = GREATEST(question_count + $2, 0), updated_at = NOW()
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, tagID, delta); err != nil {
		return fmt.Errorf("adjust tag question count: %w", err)
	}

	return nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
