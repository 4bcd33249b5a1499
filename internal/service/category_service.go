package service

import (
	"context"

	"github.com/sefazor/cityevents-backend/internal/apperror"
	"github.com/sefazor/cityevents-backend/internal/auth"
	"github.com/sefazor/cityevents-backend/internal/models"
	"github.com/sefazor/cityevents-backend/pkg/sanitize"
)

type CategoryService struct {
	categoryRepo CategoryStore
}

func NewCategoryService(categoryRepo CategoryStore) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, internalError("list categories", err)
	}
	return categories, nil
}

// Create is ADMIN-only. Names are stored as plain text.
func (s *CategoryService) Create(ctx context.Context, caller *auth.Identity, req models.CategoryRequest) (*models.Category, error) {
	if err := auth.Authorize(caller, auth.AdminOnly); err != nil {
		return nil, err
	}

	name := sanitize.Text(req.Name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}

	category := &models.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, internalError("create category", err)
	}
	return category, nil
}
