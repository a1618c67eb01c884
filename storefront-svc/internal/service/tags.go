package service

import (
	"context"
	"errors"
	"strings"

	"ironxpress/storefront-svc/internal/domain"
)

var ErrServiceNameRequired = errors.New("service name is required")

type TagRepository interface {
	UpdateServiceTag(ctx context.Context, name, tag string) ([]domain.Service, error)
	AllServices(ctx context.Context) ([]domain.Service, error)
}

// TagResult holds the rows a tag update touched, or every service when the
// name matched nothing.
type TagResult struct {
	Updated   []domain.Service
	Available []domain.Service
}

type TagService struct {
	repo TagRepository
}

func NewTagService(repo TagRepository) *TagService {
	return &TagService{repo: repo}
}

func (s *TagService) SetTag(ctx context.Context, name, tag string) (*TagResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrServiceNameRequired
	}

	updated, err := s.repo.UpdateServiceTag(ctx, name, strings.TrimSpace(tag))
	if err != nil {
		return nil, err
	}
	if len(updated) > 0 {
		return &TagResult{Updated: updated}, nil
	}

	available, err := s.repo.AllServices(ctx)
	if err != nil {
		return nil, err
	}
	return &TagResult{Available: available}, nil
}
