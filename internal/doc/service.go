// AngelaMos | 2026
// service.go

package doc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/querystack/querystack/internal/core"
	"github.com/querystack/querystack/internal/interaction"
	"github.com/querystack/querystack/internal/search"
	"github.com/querystack/querystack/internal/user"
	"github.com/querystack/querystack/internal/worker"
)

type Service struct {
	repo         Repository
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
		repo:         NewRepository(db),
		interactions: interactions,
		index:        index,
		pool:         pool,
		logger:       logger,
	}
}

func (s *Service) CreateDoc(
	ctx context.Context,
	authorID string,
	req CreateDocRequest,
) (*DocWithAuthor, error) {
	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}

	doc := &Doc{
		ID:          uuid.New().String(),
		AuthorID:    authorID,
		Title:       req.Title,
		Content:     req.Content,
		IsPublished: published,
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}

	// Doc activity shares the question target kind in the ledger.
	if _, err := s.interactions.Record(ctx, interaction.Input{
		ActorID:    authorID,
		Action:     interaction.ActionPost,
		TargetKind: interaction.KindQuestion,
		TargetID:   doc.ID,
		AuthorID:   authorID,
	}); err != nil {
		s.logger.Error("record post interaction",
			"doc_id", doc.ID, "error", err)
	}

	created, err := s.repo.GetByID(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	s.scheduleIndex(created)

	return created, nil
}

// GetDoc enforces the publication gate: drafts are visible to the owner
// only. Views bump off the request path.
func (s *Service) GetDoc(
	ctx context.Context,
	id, viewerID string,
) (*DocWithAuthor, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !doc.IsPublished && doc.AuthorID != viewerID {
		return nil, fmt.Errorf("get doc: %w", core.ErrNotFound)
	}

	s.pool.Submit(worker.Task{
		Name: "doc.view",
		Run: func(taskCtx context.Context) error {
			return s.repo.IncrementViews(taskCtx, id)
		},
	})

	return doc, nil
}

func (s *Service) ListDocs(
	ctx context.Context,
	params ListDocsParams,
) ([]DocWithAuthor, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) UpdateDoc(
	ctx context.Context,
	userID, role, id string,
	req UpdateDocRequest,
) (*DocWithAuthor, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.AuthorID != userID && role != user.RoleAdmin {
		return nil, fmt.Errorf("update doc: %w", core.ErrForbidden)
	}

	published := existing.IsPublished
	if req.IsPublished != nil {
		published = *req.IsPublished
	}

	doc := &Doc{
		ID:          id,
		Title:       req.Title,
		Content:     req.Content,
		IsPublished: published,
	}
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}

	if _, err := s.interactions.Record(ctx, interaction.Input{
		ActorID:    userID,
		Action:     interaction.ActionEdit,
		TargetKind: interaction.KindQuestion,
		TargetID:   id,
		AuthorID:   existing.AuthorID,
	}); err != nil {
		s.logger.Error("record edit interaction", "doc_id", id, "error", err)
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.scheduleIndex(updated)

	return updated, nil
}

func (s *Service) DeleteDoc(ctx context.Context, userID, role, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if existing.AuthorID != userID && role != user.RoleAdmin {
		return fmt.Errorf("delete doc: %w", core.ErrForbidden)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.pool.Submit(worker.Task{
		Name: "search.delete",
		Run: func(context.Context) error {
			return s.index.Delete(id)
		},
	})

	return nil
}

// scheduleIndex keeps the full-text index in step with publication state:
// published docs are indexed, drafts are removed.
func (s *Service) scheduleIndex(d *DocWithAuthor) {
	if !d.IsPublished {
		id := d.ID
		s.pool.Submit(worker.Task{
			Name: "search.delete",
			Run: func(context.Context) error {
				return s.index.Delete(id)
			},
		})
		return
	}

	docCopy := &search.Document{
		ID:        d.ID,
		Kind:      search.KindDoc,
		Title:     d.Title,
		Content:   d.Content,
		Author:    d.AuthorUsername,
		CreatedAt: d.CreatedAt,
	}

	s.pool.Submit(worker.Task{
		Name: "search.index",
		Run: func(context.Context) error {
			return s.index.IndexDocument(docCopy)
		},
	})
}
