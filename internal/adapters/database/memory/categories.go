package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
)

// withTree fills the parent name and the active item count.
func (t *txStore) withTree(c domain.Category) domain.Category {
	c.ParentName = nil
	if c.ParentID != nil {
		if p, ok := t.st.categories[*c.ParentID]; ok {
			name := p.Name
			c.ParentName = &name
		}
	}
	c.ItemCount = 0
	for _, item := range t.st.items {
		if item.IsActive && item.Category != nil && strings.EqualFold(*item.Category, c.Name) {
			c.ItemCount++
		}
	}
	return c
}

func (t *txStore) FindCategoryByID(_ context.Context, categoryID string) (*domain.Category, error) {
	c, ok := t.st.categories[categoryID]
	if !ok {
		return nil, apperrors.NewNotFoundError("category", categoryID)
	}
	c = t.withTree(c)
	return &c, nil
}

func (t *txStore) FindCategoryByName(_ context.Context, name string) (*domain.Category, error) {
	for _, c := range t.st.categories {
		if strings.EqualFold(c.Name, name) {
			c = t.withTree(c)
			return &c, nil
		}
	}
	return nil, apperrors.NewNotFoundError("category", name)
}

func (t *txStore) ListCategories(_ context.Context, filter domain.CategoryFilter) ([]domain.Category, error) {
	result := make([]domain.Category, 0)
	for _, c := range t.st.categories {
		if !filter.IncludeInactive && !c.IsActive {
			continue
		}
		if filter.Search != "" && !containsFold(c.Name, filter.Search) {
			continue
		}
		result = append(result, t.withTree(c))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (t *txStore) checkCategory(c domain.Category) error {
	for id, other := range t.st.categories {
		if id != c.CategoryID && strings.EqualFold(other.Name, c.Name) {
			return fmt.Errorf("%w: category named %s", apperrors.ErrDuplicate, c.Name)
		}
	}
	if c.ParentID != nil {
		if _, ok := t.st.categories[*c.ParentID]; !ok {
			return apperrors.NewNotFoundError("category", *c.ParentID)
		}
	}
	return nil
}

func (t *txStore) SaveCategory(_ context.Context, category domain.Category) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, exists := t.st.categories[category.CategoryID]; exists {
		return fmt.Errorf("%w: category %s", apperrors.ErrDuplicate, category.CategoryID)
	}
	if err := t.checkCategory(category); err != nil {
		return err
	}
	category.ParentName = nil
	category.ItemCount = 0
	t.st.categories[category.CategoryID] = category
	return nil
}

func (t *txStore) UpdateCategory(_ context.Context, category domain.Category) error {
	if err := t.writable(); err != nil {
		return err
	}
	current, ok := t.st.categories[category.CategoryID]
	if !ok {
		return apperrors.NewNotFoundError("category", category.CategoryID)
	}
	if err := t.checkCategory(category); err != nil {
		return err
	}
	category.CreatedAt = current.CreatedAt
	category.CreatedBy = current.CreatedBy
	category.ParentName = nil
	category.ItemCount = 0
	t.st.categories[category.CategoryID] = category
	return nil
}
