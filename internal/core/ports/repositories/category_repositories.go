package repositories

import (
	"context"

	"github.com/SscSPs/partsledger/internal/core/domain"
)

// CategoryReader defines read operations for item categories.
// Returned categories carry their parent's name and active item count.
type CategoryReader interface {
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)
	// FindCategoryByName matches case-insensitively.
	FindCategoryByName(ctx context.Context, name string) (*domain.Category, error)
	ListCategories(ctx context.Context, filter domain.CategoryFilter) ([]domain.Category, error)
}

// CategoryWriter defines write operations for item categories.
type CategoryWriter interface {
	SaveCategory(ctx context.Context, category domain.Category) error
	UpdateCategory(ctx context.Context, category domain.Category) error
}

// CategoryRepositoryFacade combines all category-related repository interfaces.
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
