package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/partsledger/internal/core/ports/services"
	"github.com/SscSPs/partsledger/internal/dto"
	"github.com/SscSPs/partsledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// vehicleHandler handles the vehicle catalogue and item compatibility.
type vehicleHandler struct {
	vehicleService portssvc.VehicleSvcFacade
}

// RegisterVehicleRoutes registers routes related to vehicles.
func RegisterVehicleRoutes(rg *gin.RouterGroup, vehicleService portssvc.VehicleSvcFacade) {
	h := &vehicleHandler{vehicleService: vehicleService}

	rg.POST("/vehicle-makes", h.createMake)
	rg.GET("/vehicle-makes", h.listMakes)
	rg.POST("/vehicle-models", h.createModel)
	rg.GET("/vehicle-models", h.listModels)
	rg.GET("/vehicle-search", h.searchVehicles)
	rg.GET("/vehicle-items", h.itemsForVehicle)

	compat := rg.Group("/item-compatibility")
	{
		compat.POST("", h.addCompatibility)
		compat.GET("/:id", h.listCompatibility)
		compat.DELETE("/:id", h.removeCompatibility)
	}
}

// createMake godoc
// @Summary Add a vehicle make
// @Tags vehicles
// @Accept  json
// @Produce  json
// @Param   make body dto.CreateMakeRequest true "Make details"
// @Success 201 {object} domain.CarMake
// @Failure 409 {object} dto.ErrorResponse "Make already exists"
// @Security BearerAuth
// @Router /vehicle-makes [post]
func (h *vehicleHandler) createMake(c *gin.Context) {
	var req dto.CreateMakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	carMake, err := h.vehicleService.CreateMake(c.Request.Context(), req, middleware.OperatorOrSystem(c))
	if err != nil {
		respondError(c, err, "create vehicle make")
		return
	}
	c.JSON(http.StatusCreated, carMake)
}

// listMakes godoc
// @Summary List vehicle makes
// @Tags vehicles
// @Produce  json
// @Success 200 {object} dto.ListMakesResponse
// @Security BearerAuth
// @Router /vehicle-makes [get]
func (h *vehicleHandler) listMakes(c *gin.Context) {
	makes, err := h.vehicleService.ListMakes(c.Request.Context())
	if err != nil {
		respondError(c, err, "list vehicle makes")
		return
	}
	c.JSON(http.StatusOK, dto.ListMakesResponse{Makes: makes})
}

// createModel godoc
// @Summary Add a vehicle model
// @Tags vehicles
// @Accept  json
// @Produce  json
// @Param   model body dto.CreateModelRequest true "Model details"
// @Success 201 {object} domain.CarModel
// @Failure 404 {object} dto.ErrorResponse "Make not found"
// @Failure 409 {object} dto.ErrorResponse "Model already exists for the make"
// @Security BearerAuth
// @Router /vehicle-models [post]
func (h *vehicleHandler) createModel(c *gin.Context) {
	var req dto.CreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	model, err := h.vehicleService.CreateModel(c.Request.Context(), req, middleware.OperatorOrSystem(c))
	if err != nil {
		respondError(c, err, "create vehicle model")
		return
	}
	c.JSON(http.StatusCreated, model)
}

// listModels godoc
// @Summary List vehicle models
// @Tags vehicles
// @Produce  json
// @Param   makeID query string false "Only models of this make"
// @Success 200 {object} dto.ListModelsResponse
// @Security BearerAuth
// @Router /vehicle-models [get]
func (h *vehicleHandler) listModels(c *gin.Context) {
	var params dto.ListModelsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	models, err := h.vehicleService.ListModels(c.Request.Context(), params.MakeID)
	if err != nil {
		respondError(c, err, "list vehicle models")
		return
	}
	c.JSON(http.StatusOK, dto.ListModelsResponse{Models: models})
}

// searchVehicles godoc
// @Summary Search makes and models
// @Tags vehicles
// @Produce  json
// @Param   q query string true "At least two characters of a make or model name"
// @Success 200 {object} dto.SearchVehiclesResponse
// @Failure 400 {object} dto.ErrorResponse "Query too short"
// @Security BearerAuth
// @Router /vehicle-search [get]
func (h *vehicleHandler) searchVehicles(c *gin.Context) {
	var params dto.SearchVehiclesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	results, err := h.vehicleService.SearchVehicles(c.Request.Context(), params.Query)
	if err != nil {
		respondError(c, err, "search vehicles")
		return
	}
	c.JSON(http.StatusOK, dto.SearchVehiclesResponse{Results: results})
}

// itemsForVehicle godoc
// @Summary Items that fit a vehicle
// @Tags vehicles
// @Produce  json
// @Param   makeID query string true "Make ID"
// @Param   modelID query string false "Model ID"
// @Param   year query int false "Model year"
// @Success 200 {object} dto.ListStockItemsResponse
// @Failure 404 {object} dto.ErrorResponse "Make not found"
// @Security BearerAuth
// @Router /vehicle-items [get]
func (h *vehicleHandler) itemsForVehicle(c *gin.Context) {
	var params dto.VehicleItemsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	items, err := h.vehicleService.FindItemsForVehicle(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "find items for vehicle")
		return
	}
	c.JSON(http.StatusOK, dto.ToListStockItemsResponse(items))
}

// addCompatibility godoc
// @Summary Link an item to a vehicle
// @Tags vehicles
// @Accept  json
// @Produce  json
// @Param   compatibility body dto.AddCompatibilityRequest true "Compatibility rule"
// @Success 201 {object} domain.ItemCompatibility
// @Failure 400 {object} dto.ErrorResponse "Invalid year range or model of another make"
// @Failure 404 {object} dto.ErrorResponse "Item, make or model not found"
// @Security BearerAuth
// @Router /item-compatibility [post]
func (h *vehicleHandler) addCompatibility(c *gin.Context) {
	var req dto.AddCompatibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	rule, err := h.vehicleService.AddCompatibility(c.Request.Context(), req, middleware.OperatorOrSystem(c))
	if err != nil {
		respondError(c, err, "add compatibility")
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// listCompatibility godoc
// @Summary List an item's compatibility rules
// @Tags vehicles
// @Produce  json
// @Param   id path string true "Item ID"
// @Success 200 {object} dto.ListCompatibilityResponse
// @Failure 404 {object} dto.ErrorResponse "Item not found"
// @Security BearerAuth
// @Router /item-compatibility/{id} [get]
func (h *vehicleHandler) listCompatibility(c *gin.Context) {
	rules, err := h.vehicleService.ListCompatibility(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "list compatibility")
		return
	}
	c.JSON(http.StatusOK, dto.ListCompatibilityResponse{Compatibility: rules})
}

// removeCompatibility godoc
// @Summary Remove a compatibility rule
// @Tags vehicles
// @Param   id path string true "Compatibility ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Rule not found"
// @Security BearerAuth
// @Router /item-compatibility/{id} [delete]
func (h *vehicleHandler) removeCompatibility(c *gin.Context) {
	if err := h.vehicleService.RemoveCompatibility(c.Request.Context(), c.Param("id"), middleware.OperatorOrSystem(c)); err != nil {
		respondError(c, err, "remove compatibility")
		return
	}
	c.Status(http.StatusNoContent)
}
