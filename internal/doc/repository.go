// AngelaMos | 2026
// repository.go

package doc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/querystack/querystack/internal/core"
)

const docWithAuthorColumns = `
	d.id, d.author_id, d.title, d.content, d.views, d.is_published,
	d.created_at, d.updated_at,
	u.username AS author_username, u.name AS author_name,
	u.image AS author_image`

type Repository interface {
	Create(ctx context.Context, doc *Doc) error
	GetByID(ctx context.Context, id string) (*DocWithAuthor, error)
	Update(ctx context.Context, doc *Doc) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListDocsParams) ([]DocWithAuthor, int, error)
	IncrementViews(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, doc *Doc) error {
	query := `
		INSERT INTO docs (id, author_id, title, content, is_published)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		doc.ID,
		doc.AuthorID,
		doc.Title,
		doc.Content,
		doc.IsPublished,
	).Scan(&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create doc: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*DocWithAuthor, error) {
	query := `
		SELECT ` + docWithAuthorColumns + `
		FROM docs d
		JOIN users u ON u.id = d.author_id
		WHERE d.id = $1`

	var doc DocWithAuthor
	err := r.db.GetContext(ctx, &doc, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get doc: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get doc: %w", err)
	}

	return &doc, nil
}

func (r *repository) Update(ctx context.Context, doc *Doc) error {
	query := `
		UPDATE docs
		SET title = $2, content = $3, is_published = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		doc.ID,
		doc.Title,
		doc.Content,
		doc.IsPublished,
	).Scan(&doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update doc: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update doc: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM docs WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete doc: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete doc: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete doc: %w", core.ErrNotFound)
	}

	return nil
}

// List returns published docs; when AuthorID is set it returns that
// author's docs including drafts.
func (r *repository) List(
	ctx context.Context,
	params ListDocsParams,
) ([]DocWithAuthor, int, error) {
	params.Normalize()

	conditions := []string{"d.is_published = TRUE"}
	var args []any
	argIdx := 1

	if params.AuthorID != "" {
		conditions = []string{fmt.Sprintf("d.author_id = $%d", argIdx)}
		args = append(args, params.AuthorID)
		argIdx++
	}

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(d.title ILIKE $%d OR d.content ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM docs d WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count docs: %w", err)
	}

	orderBy := "d.created_at DESC"
	switch params.Sort {
	case SortOldest:
		orderBy = "d.created_at ASC"
	case SortPopular:
		orderBy = "d.views DESC, d.created_at DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM docs d
		JOIN users u ON u.id = d.author_id
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		docWithAuthorColumns, whereClause, orderBy, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var docs []DocWithAuthor
	if err := r.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list docs: %w", err)
	}

	return docs, total, nil
}

func (r *repository) IncrementViews(ctx context.Context, id string) error {
	query := `UPDATE docs SET views = views + 1 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("increment doc views: %w", err)
	}

	return nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
