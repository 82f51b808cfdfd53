package services

import (
	"context"

	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/SscSPs/partsledger/internal/dto"
)

// CategorySvcFacade manages the item category tree.
type CategorySvcFacade interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, userID string) (*domain.Category, error)
	GetCategory(ctx context.Context, categoryID string) (*domain.CategoryDetail, error)
	ListCategories(ctx context.Context, params dto.ListCategoriesParams) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest, userID string) (*domain.Category, error)
	DeactivateCategory(ctx context.Context, categoryID string, userID string) error
}
