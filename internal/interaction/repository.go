// AngelaMos | 2026
// repository.go

package interaction

import (
	"context"
	"fmt"

	"github.com/querystack/querystack/internal/core"
)

type Repository interface {
	Create(ctx context.Context, rec *Interaction) error
	ListByUser(
		ctx context.Context,
		userID string,
		limit int,
	) ([]Interaction, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rec *Interaction) error {
	query := `
		INSERT INTO interactions (id, user_id, action, target_kind, target_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &rec.CreatedAt, query,
		rec.ID,
		rec.UserID,
		rec.Action,
		rec.TargetKind,
		rec.TargetID,
	)
	if err != nil {
		return fmt.Errorf("create interaction: %w", err)
	}

	return nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
	limit int,
) ([]Interaction, error) {
	query := `
		SELECT id, user_id, action, target_kind, target_id, created_at
		FROM interactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	var recs []Interaction
	if err := r.db.SelectContext(ctx, &recs, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}

	return recs, nil
}
