// AngelaMos | 2026
// service.go

package question

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/querystack/querystack/internal/core"
	"github.com/querystack/querystack/internal/interaction"
	"github.com/querystack/querystack/internal/search"
	"github.com/querystack/querystack/internal/tag"
	"github.com/querystack/querystack/internal/user"
	"github.com/querystack/querystack/internal/vote"
	"github.com/querystack/querystack/internal/worker"
)

type Service struct {
	db           *sqlx.DB
	repo         Repository
	tags         tag.Repository
	interactions *interaction.Service
	index        *search.Index
	pool         *worker.Pool
	logger       *slog.Logger
}

func NewService(
	db *sqlx.DB,
	interactions *interaction.Service,
	index *search.Index,
	pool *worker.Pool,
	logger *slog.Logger,
) *Service {
	return &Service{
		db:           db,
		repo:         NewRepository(db),
		tags:         tag.NewRepository(db),
		interactions: interactions,
		index:        index,
		pool:         pool,
		logger:       logger,
	}
}

// CreateQuestion inserts the question and its tag links in one transaction,
// then records the post interaction (+5 author reputation) and schedules
// indexing.
func (s *Service) CreateQuestion(
	ctx context.Context,
	authorID string,
	req CreateQuestionRequest,
) (*QuestionWithAuthor, []tag.Tag, error) {
	question := &Question{
		ID:       uuid.New().String(),
		AuthorID: authorID,
		Title:    req.Title,
		Content:  req.Content,
	}

	var tags []tag.Tag

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)
		tagRepo := tag.NewRepository(tx)

		if err := repo.Create(ctx, question); err != nil {
			return err
		}

		upserted, err := tagRepo.UpsertAll(ctx, req.Tags)
		if err != nil {
			return err
		}

		for _, t := range upserted {
			if err := tagRepo.AttachQuestion(ctx, question.ID, t.ID); err != nil {
				return err
			}
		}

		tags = upserted
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.interactions.Record(ctx, interaction.Input{
		ActorID:    authorID,
		Action:     interaction.ActionPost,
		TargetKind: interaction.KindQuestion,
		TargetID:   question.ID,
		AuthorID:   authorID,
	}); err != nil {
		s.logger.Error("record post interaction",
			"question_id", question.ID, "error", err)
	}

	created, err := s.repo.GetByID(ctx, question.ID)
	if err != nil {
		return nil, nil, err
	}

	s.scheduleIndex(created, tags)

	return created, tags, nil
}

// GetQuestion returns the question with its tags. The view count bump and
// the view interaction run off the request path; anonymous views still
// count but leave no interaction.
func (s *Service) GetQuestion(
	ctx context.Context,
	id, viewerID string,
) (*QuestionWithAuthor, []tag.Tag, error) {
	question, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	tags, err := s.tags.ListForQuestion(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	authorID := question.AuthorID
	s.pool.Submit(worker.Task{
		Name: "question.view",
		Run: func(taskCtx context.Context) error {
			if err := s.repo.IncrementViews(taskCtx, id); err != nil {
				return err
			}

			if viewerID == "" {
				return nil
			}

			_, err := s.interactions.Record(taskCtx, interaction.Input{
				ActorID:    viewerID,
				Action:     interaction.ActionView,
				TargetKind: interaction.KindQuestion,
				TargetID:   id,
				AuthorID:   authorID,
			})
			return err
		},
	})

	return question, tags, nil
}

func (s *Service) ListQuestions(
	ctx context.Context,
	params ListQuestionsParams,
) ([]QuestionWithAuthor, map[string][]tag.Tag, int, error) {
	questions, total, err := s.repo.List(ctx, params)
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

func (s *Service) UpdateQuestion(
	ctx context.Context,
	userID, role, id string,
	req UpdateQuestionRequest,
) (*QuestionWithAuthor, []tag.Tag, error) {
	authorID, err := s.repo.GetAuthorID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if authorID != userID && role != user.RoleAdmin {
		return nil, nil, fmt.Errorf("update question: %w", core.ErrForbidden)
	}

	var tags []tag.Tag

	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)
		tagRepo := tag.NewRepository(tx)

		question := &Question{ID: id, Title: req.Title, Content: req.Content}
		if err := repo.Update(ctx, question); err != nil {
			return err
		}

		// Retag from scratch; the count adjustments cancel out for tags
		// that stay attached.
		if err := tagRepo.DetachAllForQuestion(ctx, id); err != nil {
			return err
		}

		upserted, err := tagRepo.UpsertAll(ctx, req.Tags)
		if err != nil {
			return err
		}

		for _, t := range upserted {
			if err := tagRepo.AttachQuestion(ctx, id, t.ID); err != nil {
				return err
			}
		}

		tags = upserted
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.interactions.Record(ctx, interaction.Input{
		ActorID:    userID,
		Action:     interaction.ActionEdit,
		TargetKind: interaction.KindQuestion,
		TargetID:   id,
		AuthorID:   authorID,
	}); err != nil {
		s.logger.Error("record edit interaction",
			"question_id", id, "error", err)
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	s.scheduleIndex(updated, tags)

	return updated, tags, nil
}

// DeleteQuestion removes the question, its tag links, the votes on it and
// on its answers, and, through cascades, the answers and collection rows.
// The author pays the -5 reputation delta.
func (s *Service) DeleteQuestion(
	ctx context.Context,
	userID, role, id string,
) error {
	authorID, err := s.repo.GetAuthorID(ctx, id)
	if err != nil {
		return err
	}

	if authorID != userID && role != user.RoleAdmin {
		return fmt.Errorf("delete question: %w", core.ErrForbidden)
	}

	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)
		tagRepo := tag.NewRepository(tx)
		voteStore := vote.NewStore(tx)

		if err := tagRepo.DetachAllForQuestion(ctx, id); err != nil {
			return err
		}

		// Answer votes first: the subquery needs the answer rows that
		// the question delete cascades away.
		if err := voteStore.PurgeForQuestionAnswers(ctx, id); err != nil {
			return err
		}

		if err := voteStore.PurgeForTarget(
			ctx,
			interaction.KindQuestion,
			id,
		); err != nil {
			return err
		}

		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if _, err := s.interactions.Record(ctx, interaction.Input{
		ActorID:    userID,
		Action:     interaction.ActionDelete,
		TargetKind: interaction.KindQuestion,
		TargetID:   id,
		AuthorID:   authorID,
	}); err != nil {
		s.logger.Error("record delete interaction",
			"question_id", id, "error", err)
	}

	s.pool.Submit(worker.Task{
		Name: "search.delete",
		Run: func(context.Context) error {
			return s.index.Delete(id)
		},
	})

	return nil
}

func (s *Service) scheduleIndex(q *QuestionWithAuthor, tags []tag.Tag) {
	doc := &search.Document{
		ID:        q.ID,
		Kind:      search.KindQuestion,
		Title:     q.Title,
		Content:   q.Content,
		Author:    q.AuthorUsername,
		CreatedAt: q.CreatedAt,
	}
	for _, t := range tags {
		doc.Tags = append(doc.Tags, t.Name)
	}

	s.pool.Submit(worker.Task{
		Name: "search.index",
		Run: func(context.Context) error {
			return s.index.IndexDocument(doc)
		},
	})
}
