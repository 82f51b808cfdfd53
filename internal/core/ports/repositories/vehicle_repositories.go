package repositories

import (
	"context"

	"github.com/SscSPs/partsledger/internal/core/domain"
)

// VehicleReader defines read operations for the vehicle catalogue.
type VehicleReader interface {
	FindMakeByID(ctx context.Context, makeID string) (*domain.CarMake, error)
	ListMakes(ctx context.Context) ([]domain.CarMake, error)
	FindModelByID(ctx context.Context, modelID string) (*domain.CarModel, error)
	ListModels(ctx context.Context, makeID string) ([]domain.CarModel, error)
	SearchVehicles(ctx context.Context, query string, limit int) ([]domain.VehicleMatch, error)
	FindCompatibilityByID(ctx context.Context, compatibilityID string) (*domain.ItemCompatibility, error)
	ListCompatibilityByItem(ctx context.Context, itemID string) ([]domain.ItemCompatibility, error)
	ListCompatibilityByMake(ctx context.Context, makeID string) ([]domain.ItemCompatibility, error)
}

// VehicleWriter defines write operations for the vehicle catalogue.
type VehicleWriter interface {
	SaveMake(ctx context.Context, carMake domain.CarMake) error
	SaveModel(ctx context.Context, model domain.CarModel) error
	SaveCompatibility(ctx context.Context, c domain.ItemCompatibility) error
	DeleteCompatibility(ctx context.Context, compatibilityID string) error
}

// VehicleRepositoryFacade combines all vehicle-related repository interfaces.
type VehicleRepositoryFacade interface {
	VehicleReader
	VehicleWriter
}
