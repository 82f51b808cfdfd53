package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/partsledger/internal/core/ports/services"
	"github.com/SscSPs/partsledger/internal/dto"
	"github.com/google/uuid"
)

type categoryService struct {
	BaseService
}

// NewCategoryService creates the item category service.
func NewCategoryService(uow portsrepo.UnitOfWork) portssvc.CategorySvcFacade {
	return &categoryService{BaseService: BaseService{UOW: uow}}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, userID string) (*domain.Category, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	name, err := requireName("name", req.Name)
	if err != nil {
		return nil, err
	}

	now := s.now()
	category := domain.Category{
		CategoryID:  uuid.NewString(),
		Name:        name,
		Description: normalizeOptional(req.Description),
		ParentID:    normalizeOptional(req.ParentID),
		IsActive:    true,
		AuditFields: domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID},
	}

	var created *domain.Category
	err = s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		if err := checkCategoryParent(ctx, store, category.CategoryID, category.ParentID); err != nil {
			return err
		}
		if err := store.Categories().SaveCategory(ctx, category); err != nil {
			return err
		}
		if err := writeAudit(ctx, store, userID, domain.AuditCreate, tableCategories, category.CategoryID, nil, category, now); err != nil {
			return err
		}
		var err error
		created, err = store.Categories().FindCategoryByID(ctx, category.CategoryID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create category", slog.String("name", name))
		return nil, err
	}

	s.LogInfo(ctx, "Category created successfully",
		slog.String("category_id", created.CategoryID),
		slog.String("name", created.Name))
	return created, nil
}

// GetCategory returns the category with its active items.
func (s *categoryService) GetCategory(ctx context.Context, categoryID string) (*domain.CategoryDetail, error) {
	var detail domain.CategoryDetail
	err := s.UOW.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		category, err := store.Categories().FindCategoryByID(ctx, categoryID)
		if err != nil {
			return err
		}
		items, err := store.Stock().ListItems(ctx, domain.StockItemFilter{Category: category.Name})
		if err != nil {
			return err
		}
		detail = domain.CategoryDetail{Category: *category, Items: items}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *categoryService) ListCategories(ctx context.Context, params dto.ListCategoriesParams) ([]domain.Category, error) {
	var categories []domain.Category
	err := s.UOW.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		var err error
		categories, err = store.Categories().ListCategories(ctx, domain.CategoryFilter{
			Search:          params.Search,
			IncludeInactive: params.IncludeInactive,
		})
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories")
		return nil, err
	}
	return categories, nil
}

// UpdateCategory edits the category. A rename relabels every item filed under
// the old name in the same transaction.
func (s *categoryService) UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest, userID string) (*domain.Category, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var updated *domain.Category
	err := s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		category, err := store.Categories().FindCategoryByID(ctx, categoryID)
		if err != nil {
			return err
		}
		before := *category
		if req.Name != nil {
			if category.Name, err = requireName("name", *req.Name); err != nil {
				return err
			}
		}
		if req.Description != nil {
			category.Description = normalizeOptional(req.Description)
		}
		if req.ParentID != nil {
			category.ParentID = normalizeOptional(req.ParentID)
			if err := checkCategoryParent(ctx, store, category.CategoryID, category.ParentID); err != nil {
				return err
			}
		}

		now := s.now()
		category.LastUpdatedAt = now
		category.LastUpdatedBy = userID
		if err := store.Categories().UpdateCategory(ctx, *category); err != nil {
			return err
		}
		if err := writeAudit(ctx, store, userID, domain.AuditUpdate, tableCategories, category.CategoryID, before, *category, now); err != nil {
			return err
		}
		if category.Name != before.Name {
			if err := relabelItems(ctx, store, before.Name, category.Name, userID, now); err != nil {
				return err
			}
		}
		updated, err = store.Categories().FindCategoryByID(ctx, categoryID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update category", slog.String("category_id", categoryID))
		return nil, err
	}
	return updated, nil
}

// DeactivateCategory refuses while active items or active subcategories remain.
func (s *categoryService) DeactivateCategory(ctx context.Context, categoryID string, userID string) error {
	err := s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		category, err := store.Categories().FindCategoryByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if !category.IsActive {
			return nil
		}
		if category.ItemCount > 0 {
			return fmt.Errorf("%w: category %s still holds %d active item(s)", apperrors.ErrConflict, category.Name, category.ItemCount)
		}
		children, err := store.Categories().ListCategories(ctx, domain.CategoryFilter{})
		if err != nil {
			return err
		}
		for _, c := range children {
			if c.ParentID != nil && *c.ParentID == categoryID {
				return fmt.Errorf("%w: category %s still has active subcategory %s", apperrors.ErrConflict, category.Name, c.Name)
			}
		}

		now := s.now()
		before := *category
		category.IsActive = false
		category.LastUpdatedAt = now
		category.LastUpdatedBy = userID
		if err := store.Categories().UpdateCategory(ctx, *category); err != nil {
			return err
		}
		return writeAudit(ctx, store, userID, domain.AuditDeactivate, tableCategories, categoryID, before, *category, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to deactivate category", slog.String("category_id", categoryID))
		return err
	}
	s.LogInfo(ctx, "Category deactivated", slog.String("category_id", categoryID))
	return nil
}

// checkCategoryParent requires an active parent whose ancestry does not pass
// through categoryID.
func checkCategoryParent(ctx context.Context, store portsrepo.Store, categoryID string, parentID *string) error {
	if parentID == nil {
		return nil
	}
	parent, err := store.Categories().FindCategoryByID(ctx, *parentID)
	if err != nil {
		return err
	}
	if !parent.IsActive {
		return fmt.Errorf("%w: parent category %s is inactive", apperrors.ErrValidation, parent.Name)
	}
	seen := map[string]bool{}
	for id := parentID; id != nil; {
		if *id == categoryID {
			return fmt.Errorf("%w: category cannot be nested under itself", apperrors.ErrValidation)
		}
		if seen[*id] {
			break
		}
		seen[*id] = true
		c, err := store.Categories().FindCategoryByID(ctx, *id)
		if err != nil {
			return err
		}
		id = c.ParentID
	}
	return nil
}

// relabelItems moves every item filed under oldName to newName.
func relabelItems(ctx context.Context, store portsrepo.Store, oldName, newName, userID string, now time.Time) error {
	items, err := store.Stock().ListItems(ctx, domain.StockItemFilter{Category: oldName, IncludeInactive: true})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ItemID
	}
	sort.Strings(ids)
	locked, err := store.Stock().LockItems(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		item, ok := locked[id]
		if !ok {
			return apperrors.NewNotFoundError("stock item", id)
		}
		before := item
		label := newName
		item.Category = &label
		item.LastUpdatedAt = now
		item.LastUpdatedBy = userID
		if err := store.Stock().UpdateItemMaster(ctx, item); err != nil {
			return err
		}
		if err := writeAudit(ctx, store, userID, domain.AuditUpdate, tableStockItems, id, before, item, now); err != nil {
			return err
		}
	}
	return nil
}

// resolveCategory maps an item's category label to the name of an active
// category. A blank label clears the category.
func resolveCategory(ctx context.Context, store portsrepo.Store, label *string) (*string, error) {
	label = normalizeOptional(label)
	if label == nil {
		return nil, nil
	}
	category, err := store.Categories().FindCategoryByName(ctx, *label)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, *label)
		}
		return nil, err
	}
	if !category.IsActive {
		return nil, fmt.Errorf("%w: category %s is inactive", apperrors.ErrValidation, category.Name)
	}
	name := category.Name
	return &name, nil
}
