// AngelaMos | 2026
// service.go

package tag

import (
	"context"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListTags(
	ctx context.Context,
	params ListTagsParams,
) ([]Tag, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) GetTag(ctx context.Context, id string) (*Tag, error) {
	return s.repo.GetByID(ctx, id)
}
