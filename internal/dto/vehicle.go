package dto

import (
	"github.com/SscSPs/partsledger/internal/core/domain"
)

// CreateMakeRequest defines a vehicle manufacturer.
type CreateMakeRequest struct {
	Name    string  `json:"name" binding:"required,max=128"`
	Country *string `json:"country" binding:"omitempty,max=64"`
}

// CreateModelRequest defines a model of an existing make.
type CreateModelRequest struct {
	MakeID string `json:"makeID" binding:"required"`
	Name   string `json:"name" binding:"required,max=128"`
}

// AddCompatibilityRequest links an item to a vehicle.
type AddCompatibilityRequest struct {
	ItemID   string  `json:"itemID" binding:"required"`
	MakeID   string  `json:"makeID" binding:"required"`
	ModelID  *string `json:"modelID"`
	YearFrom *int    `json:"yearFrom" binding:"omitempty,min=1900,max=2100"`
	YearTo   *int    `json:"yearTo" binding:"omitempty,min=1900,max=2100"`
	Notes    *string `json:"notes" binding:"omitempty,max=1000"`
}

// ListModelsParams filters models by make.
type ListModelsParams struct {
	MakeID string `form:"makeID"`
}

// SearchVehiclesParams is the free-text vehicle search.
type SearchVehiclesParams struct {
	Query string `form:"q" binding:"required,min=2"`
}

// VehicleItemsParams selects items fitting a vehicle.
type VehicleItemsParams struct {
	MakeID  string  `form:"makeID" binding:"required"`
	ModelID *string `form:"modelID"`
	Year    *int    `form:"year" binding:"omitempty,min=1900,max=2100"`
}

// ListMakesResponse wraps a make listing.
type ListMakesResponse struct {
	Makes []domain.CarMake `json:"makes"`
}

// ListModelsResponse wraps a model listing.
type ListModelsResponse struct {
	Models []domain.CarModel `json:"models"`
}

// SearchVehiclesResponse wraps vehicle search results.
type SearchVehiclesResponse struct {
	Results []domain.VehicleMatch `json:"results"`
}

// ListCompatibilityResponse wraps an item's compatibility rules.
type ListCompatibilityResponse struct {
	Compatibility []domain.ItemCompatibility `json:"compatibility"`
}
