package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/partsledger/internal/core/ports/services"
	"github.com/SscSPs/partsledger/internal/dto"
	"github.com/SscSPs/partsledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// categoryHandler handles HTTP requests related to item categories.
type categoryHandler struct {
	categoryService portssvc.CategorySvcFacade
}

// RegisterCategoryRoutes registers routes related to item categories.
func RegisterCategoryRoutes(rg *gin.RouterGroup, categoryService portssvc.CategorySvcFacade) {
	h := &categoryHandler{categoryService: categoryService}

	categories := rg.Group("/categories")
	{
		categories.POST("", h.createCategory)
		categories.GET("", h.listCategories)
		categories.GET("/:id", h.getCategory)
		categories.PUT("/:id", h.updateCategory)
		categories.DELETE("/:id", h.deactivateCategory)
	}
}

// createCategory godoc
// @Summary Create an item category
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   category body dto.CreateCategoryRequest true "Category details"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or inactive parent"
// @Failure 404 {object} dto.ErrorResponse "Parent not found"
// @Failure 409 {object} dto.ErrorResponse "Category name already exists"
// @Security BearerAuth
// @Router /categories [post]
func (h *categoryHandler) createCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	category, err := h.categoryService.CreateCategory(c.Request.Context(), req, middleware.OperatorOrSystem(c))
	if err != nil {
		respondError(c, err, "create category")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCategoryResponse(category))
}

// listCategories godoc
// @Summary List item categories
// @Description Every category carries its parent's name and its active item count
// @Tags categories
// @Produce  json
// @Param   search query string false "Name contains"
// @Param   includeInactive query bool false "Include deactivated categories"
// @Success 200 {object} dto.ListCategoriesResponse
// @Security BearerAuth
// @Router /categories [get]
func (h *categoryHandler) listCategories(c *gin.Context) {
	var params dto.ListCategoriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	categories, err := h.categoryService.ListCategories(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCategoriesResponse(categories))
}

// getCategory godoc
// @Summary Get a category with its items
// @Tags categories
// @Produce  json
// @Param   id path string true "Category ID"
// @Success 200 {object} dto.CategoryDetailResponse
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Security BearerAuth
// @Router /categories/{id} [get]
func (h *categoryHandler) getCategory(c *gin.Context) {
	detail, err := h.categoryService.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "get category")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryDetailResponse(detail))
}

// updateCategory godoc
// @Summary Update a category
// @Description Renaming a category relabels its items
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   id path string true "Category ID"
// @Param   category body dto.UpdateCategoryRequest true "Fields to change"
// @Success 200 {object} dto.CategoryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or parent cycle"
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Failure 409 {object} dto.ErrorResponse "Category name already exists"
// @Security BearerAuth
// @Router /categories/{id} [put]
func (h *categoryHandler) updateCategory(c *gin.Context) {
	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	category, err := h.categoryService.UpdateCategory(c.Request.Context(), c.Param("id"), req, middleware.OperatorOrSystem(c))
	if err != nil {
		respondError(c, err, "update category")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponse(category))
}

// deactivateCategory godoc
// @Summary Deactivate a category
// @Tags categories
// @Param   id path string true "Category ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Failure 409 {object} dto.ErrorResponse "Category still holds active items or subcategories"
// @Security BearerAuth
// @Router /categories/{id} [delete]
func (h *categoryHandler) deactivateCategory(c *gin.Context) {
	if err := h.categoryService.DeactivateCategory(c.Request.Context(), c.Param("id"), middleware.OperatorOrSystem(c)); err != nil {
		respondError(c, err, "deactivate category")
		return
	}
	c.Status(http.StatusNoContent)
}
