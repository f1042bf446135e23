// AngelaMos | 2026
// repository.go

package vote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/querystack/querystack/internal/core"
	"github.com/querystack/querystack/internal/interaction"
)

// Store covers the vote row itself plus the denormalized counters and
// author lookup on the voted content. One implementation per transaction.
type Store interface {
	GetVote(
		ctx context.Context,
		authorID string,
		kind interaction.TargetKind,
		targetID string,
	) (*Vote, error)
	CreateVote(ctx context.Context, vote *Vote) error
	DeleteVote(ctx context.Context, id string) error
	ResolveTargetAuthor(
		ctx context.Context,
		kind interaction.TargetKind,
		targetID string,
	) (string, error)
	AdjustCounts(
		ctx context.Context,
		kind interaction.TargetKind,
		targetID string,
		upDelta, downDelta int,
	) error
	GetCounts(
		ctx context.Context,
		kind interaction.TargetKind,
		targetID string,
	) (Counts, error)
	PurgeForTarget(
		ctx context.Context,
		kind interaction.TargetKind,
		targetID string,
	) error
	PurgeForQuestionAnswers(ctx context.Context, questionID string) error
}

type store struct {
	db core.DBTX
}

func NewStore(db core.DBTX) Store {
	return &store{db: db}
}

// targetTable maps a kind to the table carrying the vote counters. The
// kind is validated before lookup so the format string is never
// attacker-controlled.
func targetTable(kind interaction.TargetKind) string {
	if kind == interaction.KindAnswer {
		return "answers"
	}
	return "questions"
}

func (s *store) GetVote(
	ctx context.Context,
	authorID string,
	kind interaction.TargetKind,
	targetID string,
) (*Vote, error) {
	query := `
		SELECT id, author_id, target_kind, target_id, vote_type, created_at
		FROM votes
		WHERE author_id = $1 AND target_kind = $2 AND target_id = $3`

	var vote Vote
	err := s.db.GetContext(ctx, &vote, query, authorID, kind, targetID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get vote: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get vote: %w", err)
	}

	return &vote, nil
}

func (s *store) CreateVote(ctx context.Context, vote *Vote) error {
	query := `
		INSERT INTO votes (id, author_id, target_kind, target_id, vote_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := s.db.GetContext(ctx, &vote.CreatedAt, query,
		vote.ID,
		vote.AuthorID,
		vote.TargetKind,
		vote.TargetID,
		vote.VoteType,
	)
	if err != nil {
		return fmt.Errorf("create vote: %w", err)
	}

	return nil
}

func (s *store) DeleteVote(ctx context.Context, id string) error {
	query := `DELETE FROM votes WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete vote: %w", core.ErrNotFound)
	}

	return nil
}

func (s *store) ResolveTargetAuthor(
	ctx context.Context,
	kind interaction.TargetKind,
	targetID string,
) (string, error) {
	query := fmt.Sprintf(
		"SELECT author_id FROM %s WHERE id = $1",
		targetTable(kind),
	)

	var authorID string
	err := s.db.GetContext(ctx, &authorID, query, targetID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("resolve vote target: %w", core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("resolve vote target: %w", err)
	}

	return authorID, nil
}

func (s *store) AdjustCounts(
	ctx context.Context,
	kind interaction.TargetKind,
	targetID string,
	upDelta, downDelta int,
) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET upvotes = GREATEST(upvotes + $2, 0),
			downvotes = GREATEST(downvotes + $3, 0)
		WHERE id = $1`,
		targetTable(kind))

	if _, err := s.db.ExecContext(ctx, query, targetID, upDelta, downDelta); err != nil {
		return fmt.Errorf("adjust vote counts: %w", err)
	}

	return nil
}

// PurgeForTarget deletes every vote on one piece of content. The votes
// table has no foreign key to its polymorphic target, so content delete
// transactions run this explicitly.
func (s *store) PurgeForTarget(
	ctx context.Context,
	kind interaction.TargetKind,
	targetID string,
) error {
	query := `DELETE FROM votes WHERE target_kind = $1 AND target_id = $2`

	if _, err := s.db.ExecContext(ctx, query, kind, targetID); err != nil {
		return fmt.Errorf("purge votes: %w", err)
	}

	return nil
}

// PurgeForQuestionAnswers deletes the votes on all answers of a question.
// Must run before the question row is deleted, while the answer rows the
// subquery reads still exist.
func (s *store) PurgeForQuestionAnswers(
	ctx context.Context,
	questionID string,
) error {
	query := `
		DELETE FROM votes
		WHERE target_kind = 'answer'
		AND target_id IN (SELECT id FROM answers WHERE question_id = $1)`

	if _, err := s.db.ExecContext(ctx, query, questionID); err != nil {
		return fmt.Errorf("purge answer votes: %w", err)
	}

	return nil
}

func (s *store) GetCounts(
	ctx context.Context,
	kind interaction.TargetKind,
	targetID string,
) (Counts, error) {
	query := fmt.Sprintf(
		"SELECT upvotes, downvotes FROM %s WHERE id = $1",
		targetTable(kind),
	)

	var counts Counts
	err := s.db.GetContext(ctx, &counts, query, targetID)
	if errors.Is(err, sql.ErrNoRows) {
		return Counts{}, fmt.Errorf("get vote counts: %w", core.ErrNotFound)
	}
	if err != nil {
		return Counts{}, fmt.Errorf("get vote counts: %w", err)
	}

	return counts, nil
}
