package services

import (
	"context"

	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/SscSPs/partsledger/internal/dto"
)

// VehicleSvcFacade manages the vehicle catalogue and item compatibility.
type VehicleSvcFacade interface {
	CreateMake(ctx context.Context, req dto.CreateMakeRequest, userID string) (*domain.CarMake, error)
	ListMakes(ctx context.Context) ([]domain.CarMake, error)
	CreateModel(ctx context.Context, req dto.CreateModelRequest, userID string) (*domain.CarModel, error)
	ListModels(ctx context.Context, makeID string) ([]domain.CarModel, error)
	SearchVehicles(ctx context.Context, query string) ([]domain.VehicleMatch, error)
	AddCompatibility(ctx context.Context, req dto.AddCompatibilityRequest, userID string) (*domain.ItemCompatibility, error)
	ListCompatibility(ctx context.Context, itemID string) ([]domain.ItemCompatibility, error)
	RemoveCompatibility(ctx context.Context, compatibilityID string, userID string) error
	FindItemsForVehicle(ctx context.Context, params dto.VehicleItemsParams) ([]domain.StockItem, error)
}
