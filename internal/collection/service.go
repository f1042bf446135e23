// AngelaMos | 2026
// service.go

package collection

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/querystack/querystack/internal/core"
	"github.com/querystack/querystack/internal/interaction"
	"github.com/querystack/querystack/internal/question"
	"github.com/querystack/querystack/internal/tag"
)

type Service struct {
	repo         Repository
	questions    question.Repository
	tags         tag.Repository
	interactions *interaction.Service
	logger       *slog.Logger
}

func NewService(
	db *sqlx.DB,
	interactions *interaction.Service,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:         NewRepository(db),
		questions:    question.NewRepository(db),
		tags:         tag.NewRepository(db),
		interactions: interactions,
		logger:       logger,
	}
}

// ToggleSave bookmarks a question, or removes the bookmark when one
// already exists. Saving records a bookmark interaction; unsaving leaves
// the ledger alone.
func (s *Service) ToggleSave(
	ctx context.Context,
	userID, questionID string,
) (saved bool, err error) {
	authorID, err := s.questions.GetAuthorID(ctx, questionID)
	if err != nil {
		return false, err
	}

	existing, err := s.repo.Get(ctx, userID, questionID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return false, err
	}

	if existing != nil {
		if err := s.repo.Delete(ctx, existing.ID); err != nil {
			return false, err
		}
		return false, nil
	}

	collection := &Collection{
		ID:         uuid.New().String(),
		AuthorID:   userID,
		QuestionID: questionID,
	}
	if err := s.repo.Create(ctx, collection); err != nil {
		// A concurrent save already landed; treat it as saved.
		if errors.Is(err, core.ErrDuplicateKey) {
			return true, nil
		}
		return false, err
	}

	if _, err := s.interactions.Record(ctx, interaction.Input{
		ActorID:    userID,
		Action:     interaction.ActionBookmark,
		TargetKind: interaction.KindQuestion,
		TargetID:   questionID,
		AuthorID:   authorID,
	}); err != nil {
		s.logger.Error("record bookmark interaction",
			"question_id", questionID, "error", err)
	}

	return true, nil
}

func (s *Service) IsSaved(
	ctx context.Context,
	userID, questionID string,
) (bool, error) {
	_, err := s.repo.Get(ctx, userID, questionID)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) ListSaved(
	ctx context.Context,
	userID string,
	page, pageSize int,
) ([]question.QuestionWithAuthor, map[string][]tag.Tag, int, error) {
	questions, total, err := s.repo.ListSavedQuestions(ctx, userID, page, pageSize)
	if err != nil {
		return nil, nil, 0, err
	}

	ids := make([]string, 0, len(questions))
	for i := range questions {
		ids = append(ids, questions[i].ID)
	}

	tagsByQuestion, err := s.tags.ListForQuestions(ctx, ids)
	if err != nil {
		return nil, nil, 0, err
	}

	return questions, tagsByQuestion, total, nil
}
