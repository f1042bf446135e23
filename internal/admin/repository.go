// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"fmt"

	"github.com/querystack/querystack/internal/core"
)

type ContentStats struct {
	Users      int `db:"users" json:"users"`
	Questions  int `db:"questions" json:"questions"`
	Answers    int `db:"answers" json:"answers"`
	Docs       int `db:"docs" json:"docs"`
	Tags       int `db:"tags" json:"tags"`
	ProMembers int `db:"pro_members" json:"pro_members"`
}

type StatsRepository interface {
	GetContentStats(ctx context.Context) (*ContentStats, error)
}

type statsRepository struct {
	db core.DBTX
}

func NewStatsRepository(db core.DBTX) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) GetContentStats(
	ctx context.Context,
) (*ContentStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM questions) AS questions,
			(SELECT COUNT(*) FROM answers) AS answers,
			(SELECT COUNT(*) FROM docs) AS docs,
			(SELECT COUNT(*) FROM tags) AS tags,
			(SELECT COUNT(*) FROM pro_memberships
				WHERE status = 'active'
				AND current_period_end > NOW()) AS pro_members`

	var stats ContentStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("content stats: %w", err)
	}

	return &stats, nil
}
