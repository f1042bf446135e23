// AngelaMos | 2026
// service.go

package answer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/querystack/querystack/internal/core"
	"github.com/querystack/querystack/internal/interaction"
	"github.com/querystack/querystack/internal/question"
	"github.com/querystack/querystack/internal/user"
	"github.com/querystack/querystack/internal/vote"
)

type Service struct {
	db           *sqlx.DB
	repo         Repository
	questions    question.Repository
	interactions *interaction.Service
	logger       *slog.Logger
}

func NewService(
	db *sqlx.DB,
	interactions *interaction.Service,
	logger *slog.Logger,
) *Service {
	return &Service{
		db:           db,
		repo:         NewRepository(db),
		questions:    question.NewRepository(db),
		interactions: interactions,
		logger:       logger,
	}
}

// CreateAnswer inserts the answer and bumps the question's answer count in
// one transaction, then records the post interaction (+10 author
// reputation).
func (s *Service) CreateAnswer(
	ctx context.Context,
	authorID, questionID string,
	req CreateAnswerRequest,
) (*AnswerWithAuthor, error) {
	if _, err := s.questions.GetAuthorID(ctx, questionID); err != nil {
		return nil, err
	}

	answer := &Answer{
		ID:         uuid.New().String(),
		QuestionID: questionID,
		AuthorID:   authorID,
		Content:    req.Content,
	}

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		if err := repo.Create(ctx, answer); err != nil {
			return err
		}

		return repo.AdjustQuestionAnswerCount(ctx, questionID, 1)
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.interactions.Record(ctx, interaction.Input{
		ActorID:    authorID,
		Action:     interaction.ActionPost,
		TargetKind: interaction.KindAnswer,
		TargetID:   answer.ID,
		AuthorID:   authorID,
	}); err != nil {
		s.logger.Error("record post interaction",
			"answer_id", answer.ID, "error", err)
	}

	return s.repo.GetByID(ctx, answer.ID)
}

func (s *Service) ListAnswers(
	ctx context.Context,
	questionID string,
	params ListAnswersParams,
) ([]AnswerWithAuthor, int, error) {
	return s.repo.ListForQuestion(ctx, questionID, params)
}

func (s *Service) UpdateAnswer(
	ctx context.Context,
	userID, role, id string,
	req UpdateAnswerRequest,
) (*AnswerWithAuthor, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.AuthorID != userID && role != user.RoleAdmin {
		return nil, fmt.Errorf("update answer: %w", core.ErrForbidden)
	}

	answer := &Answer{ID: id, Content: req.Content}
	if err := s.repo.Update(ctx, answer); err != nil {
		return nil, err
	}

	if _, err := s.interactions.Record(ctx, interaction.Input{
		ActorID:    userID,
		Action:     interaction.ActionEdit,
		TargetKind: interaction.KindAnswer,
		TargetID:   id,
		AuthorID:   existing.AuthorID,
	}); err != nil {
		s.logger.Error("record edit interaction",
			"answer_id", id, "error", err)
	}

	return s.repo.GetByID(ctx, id)
}

// DeleteAnswer removes the answer, its votes, and decrements the
// question's answer count in one transaction. The author pays the -10
// reputation delta.
func (s *Service) DeleteAnswer(
	ctx context.Context,
	userID, role, id string,
) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if existing.AuthorID != userID && role != user.RoleAdmin {
		return fmt.Errorf("delete answer: %w", core.ErrForbidden)
	}

	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		if err := vote.NewStore(tx).PurgeForTarget(
			ctx,
			interaction.KindAnswer,
			id,
		); err != nil {
			return err
		}

		if err := repo.Delete(ctx, id); err != nil {
			return err
		}

		return repo.AdjustQuestionAnswerCount(ctx, existing.QuestionID, -1)
	})
	if err != nil {
		return err
	}

	if _, err := s.interactions.Record(ctx, interaction.Input{
		ActorID:    userID,
		Action:     interaction.ActionDelete,
		TargetKind: interaction.KindAnswer,
		TargetID:   id,
		AuthorID:   existing.AuthorID,
	}); err != nil {
		s.logger.Error("record delete interaction",
			"answer_id", id, "error", err)
	}

	return nil
}
