package dto

import (
	"github.com/SscSPs/partsledger/internal/core/domain"
)

// CreateCategoryRequest defines an item category, optionally nested under a parent.
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=128"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	ParentID    *string `json:"parentID"`
}

// UpdateCategoryRequest defines editable category fields. An empty parentID
// moves the category to the top level.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=128"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	ParentID    *string `json:"parentID"`
}

// ListCategoriesParams defines query parameters for listing categories.
type ListCategoriesParams struct {
	Search          string `form:"search"`
	IncludeInactive bool   `form:"includeInactive"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	domain.Category
}

// ListCategoriesResponse wraps a category listing.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// CategoryDetailResponse is a category with its active items.
type CategoryDetailResponse struct {
	Category CategoryResponse    `json:"category"`
	Items    []StockItemResponse `json:"items"`
}

// ToCategoryResponse converts a domain.Category.
func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{Category: *c}
}

// ToListCategoriesResponse converts a slice of domain.Category.
func ToListCategoriesResponse(categories []domain.Category) ListCategoriesResponse {
	res := make([]CategoryResponse, len(categories))
	for i := range categories {
		res[i] = ToCategoryResponse(&categories[i])
	}
	return ListCategoriesResponse{Categories: res}
}

// ToCategoryDetailResponse converts a domain.CategoryDetail.
func ToCategoryDetailResponse(d *domain.CategoryDetail) CategoryDetailResponse {
	return CategoryDetailResponse{
		Category: ToCategoryResponse(&d.Category),
		Items:    ToListStockItemsResponse(d.Items).Items,
	}
}
