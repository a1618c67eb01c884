package service

import (
	"context"

	"ironxpress/storefront-svc/internal/domain"
)

type CatalogService struct {
	repo CatalogRepository
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *CatalogService) Products(ctx context.Context, categoryID string) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, categoryID)
}

func (s *CatalogService) Services(ctx context.Context) ([]domain.Service, error) {
	return s.repo.ListServices(ctx)
}

func (s *CatalogService) Banners(ctx context.Context) ([]domain.Banner, error) {
	return s.repo.ListBanners(ctx)
}

var _ CatalogServiceInterface = (*CatalogService)(nil)
