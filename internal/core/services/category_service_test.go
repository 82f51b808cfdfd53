package services_test

import (
	"errors"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/SscSPs/partsledger/internal/dto"
)

func (s *LedgerSuite) createCategory(name string, parentID *string) *domain.Category {
	c, err := s.svc.Category.CreateCategory(s.ctx, dto.CreateCategoryRequest{Name: name, ParentID: parentID}, testOperator)
	s.Require().NoError(err)
	return c
}

func (s *LedgerSuite) TestCategoryTreeAndItemCounts() {
	brakes := s.createCategory("Brakes", nil)
	pads := s.createCategory("  Brake Pads ", &brakes.CategoryID)
	s.Equal("Brake Pads", pads.Name)
	s.Require().NotNil(pads.ParentName)
	s.Equal("Brakes", *pads.ParentName)

	_, err := s.svc.Category.CreateCategory(s.ctx, dto.CreateCategoryRequest{Name: "brakes"}, testOperator)
	s.True(errors.Is(err, apperrors.ErrDuplicate), "names are unique regardless of case")

	for _, sku := range []string{"PAD-1", "PAD-2"} {
		_, err := s.svc.Stock.CreateStockItem(s.ctx, dto.CreateStockItemRequest{
			Name:     "Pad " + sku,
			SKU:      sku,
			Category: ptr("brake pads"),
		}, testOperator)
		s.Require().NoError(err)
	}

	categories, err := s.svc.Category.ListCategories(s.ctx, dto.ListCategoriesParams{})
	s.Require().NoError(err)
	s.Require().Len(categories, 2)
	s.Equal("Brake Pads", categories[0].Name)
	s.Equal(2, categories[0].ItemCount)
	s.Equal(0, categories[1].ItemCount)

	detail, err := s.svc.Category.GetCategory(s.ctx, pads.CategoryID)
	s.Require().NoError(err)
	s.Require().Len(detail.Items, 2)
	s.Require().NotNil(detail.Items[0].Category)
	s.Equal("Brake Pads", *detail.Items[0].Category, "item labels take the category's spelling")
}

func (s *LedgerSuite) TestStockItemCategoryMustBeActive() {
	_, err := s.svc.Stock.CreateStockItem(s.ctx, dto.CreateStockItemRequest{Name: "Horn", SKU: "HRN-1", Category: ptr("Electricals")}, testOperator)
	s.True(errors.Is(err, apperrors.ErrValidation), "unknown category")

	electricals := s.createCategory("Electricals", nil)
	item, err := s.svc.Stock.CreateStockItem(s.ctx, dto.CreateStockItemRequest{Name: "Horn", SKU: "HRN-1", Category: ptr("Electricals")}, testOperator)
	s.Require().NoError(err)

	lamps := s.createCategory("Lamps", nil)
	s.Require().NoError(s.svc.Category.DeactivateCategory(s.ctx, lamps.CategoryID, testOperator))
	_, err = s.svc.Stock.UpdateStockItem(s.ctx, item.ItemID, dto.UpdateStockItemRequest{Category: ptr("Lamps")}, testOperator)
	s.True(errors.Is(err, apperrors.ErrValidation), "inactive category")

	updated, err := s.svc.Stock.UpdateStockItem(s.ctx, item.ItemID, dto.UpdateStockItemRequest{Category: ptr("")}, testOperator)
	s.Require().NoError(err)
	s.Nil(updated.Category, "a blank label clears the category")

	err = s.svc.Category.DeactivateCategory(s.ctx, electricals.CategoryID, testOperator)
	s.Require().NoError(err, "no active items left in the category")
}

func (s *LedgerSuite) TestDeactivateCategoryWithItemsOrChildren() {
	engine := s.createCategory("Engine", nil)
	filters := s.createCategory("Filters", &engine.CategoryID)
	item, err := s.svc.Stock.CreateStockItem(s.ctx, dto.CreateStockItemRequest{Name: "Oil Filter", SKU: "OF-1", Category: ptr("Filters")}, testOperator)
	s.Require().NoError(err)

	err = s.svc.Category.DeactivateCategory(s.ctx, engine.CategoryID, testOperator)
	s.True(errors.Is(err, apperrors.ErrConflict), "active subcategory")

	err = s.svc.Category.DeactivateCategory(s.ctx, filters.CategoryID, testOperator)
	s.True(errors.Is(err, apperrors.ErrConflict), "active item")

	s.Require().NoError(s.svc.Stock.DeactivateStockItem(s.ctx, item.ItemID, testOperator))
	s.Require().NoError(s.svc.Category.DeactivateCategory(s.ctx, filters.CategoryID, testOperator))
	s.Require().NoError(s.svc.Category.DeactivateCategory(s.ctx, engine.CategoryID, testOperator))

	active, err := s.svc.Category.ListCategories(s.ctx, dto.ListCategoriesParams{})
	s.Require().NoError(err)
	s.Empty(active)

	_, err = s.svc.Category.CreateCategory(s.ctx, dto.CreateCategoryRequest{Name: "Gaskets", ParentID: &engine.CategoryID}, testOperator)
	s.True(errors.Is(err, apperrors.ErrValidation), "inactive parent")
}

func (s *LedgerSuite) TestCategoryParentCycleIsRejected() {
	a := s.createCategory("Body", nil)
	b := s.createCategory("Mirrors", &a.CategoryID)
	c := s.createCategory("Mirror Glass", &b.CategoryID)

	_, err := s.svc.Category.UpdateCategory(s.ctx, a.CategoryID, dto.UpdateCategoryRequest{ParentID: &c.CategoryID}, testOperator)
	s.True(errors.Is(err, apperrors.ErrValidation), "grandchild as parent")

	_, err = s.svc.Category.UpdateCategory(s.ctx, a.CategoryID, dto.UpdateCategoryRequest{ParentID: &a.CategoryID}, testOperator)
	s.True(errors.Is(err, apperrors.ErrValidation), "self as parent")

	moved, err := s.svc.Category.UpdateCategory(s.ctx, c.CategoryID, dto.UpdateCategoryRequest{ParentID: ptr("")}, testOperator)
	s.Require().NoError(err)
	s.Nil(moved.ParentID)
	s.Nil(moved.ParentName)
}

func (s *LedgerSuite) TestRenameCategoryRelabelsItems() {
	c := s.createCategory("Suspension", nil)
	item, err := s.svc.Stock.CreateStockItem(s.ctx, dto.CreateStockItemRequest{Name: "Shock Absorber", SKU: "SHK-1", Category: ptr("Suspension")}, testOperator)
	s.Require().NoError(err)
	auditBefore := s.auditCount()

	renamed, err := s.svc.Category.UpdateCategory(s.ctx, c.CategoryID, dto.UpdateCategoryRequest{Name: ptr("Suspension & Steering")}, testOperator)
	s.Require().NoError(err)
	s.Equal("Suspension & Steering", renamed.Name)
	s.Equal(1, renamed.ItemCount)

	got, err := s.svc.Stock.GetStockItemByID(s.ctx, item.ItemID)
	s.Require().NoError(err)
	s.Require().NotNil(got.Category)
	s.Equal("Suspension & Steering", *got.Category)
	s.Equal(auditBefore+2, s.auditCount(), "category and item updates are both audited")
}
