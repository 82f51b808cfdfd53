package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/partsledger/internal/core/ports/services"
	"github.com/SscSPs/partsledger/internal/dto"
	"github.com/google/uuid"
)

const minVehicleSearchLength = 2

type vehicleService struct {
	BaseService
}

// NewVehicleService creates the vehicle catalogue service.
func NewVehicleService(uow portsrepo.UnitOfWork) portssvc.VehicleSvcFacade {
	return &vehicleService{BaseService: BaseService{UOW: uow}}
}

var _ portssvc.VehicleSvcFacade = (*vehicleService)(nil)

func (s *vehicleService) CreateMake(ctx context.Context, req dto.CreateMakeRequest, userID string) (*domain.CarMake, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	name, err := requireName("name", req.Name)
	if err != nil {
		return nil, err
	}
	now := s.now()
	carMake := domain.CarMake{MakeID: uuid.NewString(), Name: name, Country: normalizeOptional(req.Country), CreatedAt: now}

	err = s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		if err := store.Vehicles().SaveMake(ctx, carMake); err != nil {
			return err
		}
		return writeAudit(ctx, store, userID, domain.AuditCreate, tableCarMakes, carMake.MakeID, nil, carMake, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create car make", slog.String("name", name))
		return nil, err
	}
	s.LogInfo(ctx, "Car make created", slog.String("make_id", carMake.MakeID), slog.String("name", name))
	return &carMake, nil
}

func (s *vehicleService) ListMakes(ctx context.Context) ([]domain.CarMake, error) {
	var makes []domain.CarMake
	err := s.UOW.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		var err error
		makes, err = store.Vehicles().ListMakes(ctx)
		return err
	})
	return makes, err
}

func (s *vehicleService) CreateModel(ctx context.Context, req dto.CreateModelRequest, userID string) (*domain.CarModel, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	name, err := requireName("name", req.Name)
	if err != nil {
		return nil, err
	}
	now := s.now()
	model := domain.CarModel{ModelID: uuid.NewString(), MakeID: req.MakeID, Name: name, CreatedAt: now}

	err = s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		if _, err := store.Vehicles().FindMakeByID(ctx, req.MakeID); err != nil {
			return err
		}
		if err := store.Vehicles().SaveModel(ctx, model); err != nil {
			return err
		}
		return writeAudit(ctx, store, userID, domain.AuditCreate, tableCarModels, model.ModelID, nil, model, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create car model", slog.String("make_id", req.MakeID), slog.String("name", name))
		return nil, err
	}
	return &model, nil
}

func (s *vehicleService) ListModels(ctx context.Context, makeID string) ([]domain.CarModel, error) {
	var models []domain.CarModel
	err := s.UOW.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		var err error
		models, err = store.Vehicles().ListModels(ctx, makeID)
		return err
	})
	return models, err
}

func (s *vehicleService) SearchVehicles(ctx context.Context, query string) ([]domain.VehicleMatch, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minVehicleSearchLength {
		return nil, fmt.Errorf("%w: search needs at least %d characters", apperrors.ErrValidation, minVehicleSearchLength)
	}
	var matches []domain.VehicleMatch
	err := s.UOW.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		var err error
		matches, err = store.Vehicles().SearchVehicles(ctx, query, domain.MaxVehicleSearchResults)
		return err
	})
	return matches, err
}

func (s *vehicleService) AddCompatibility(ctx context.Context, req dto.AddCompatibilityRequest, userID string) (*domain.ItemCompatibility, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.YearFrom != nil && req.YearTo != nil && *req.YearFrom > *req.YearTo {
		return nil, fmt.Errorf("%w: yearFrom must not be after yearTo", apperrors.ErrValidation)
	}
	now := s.now()
	rule := domain.ItemCompatibility{
		CompatibilityID: uuid.NewString(),
		ItemID:          req.ItemID,
		MakeID:          req.MakeID,
		ModelID:         normalizeOptional(req.ModelID),
		YearFrom:        req.YearFrom,
		YearTo:          req.YearTo,
		Notes:           normalizeOptional(req.Notes),
		CreatedAt:       now,
		CreatedBy:       userID,
	}

	err := s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		if _, err := store.Stock().FindItemByID(ctx, rule.ItemID); err != nil {
			return err
		}
		if _, err := store.Vehicles().FindMakeByID(ctx, rule.MakeID); err != nil {
			return err
		}
		if rule.ModelID != nil {
			model, err := store.Vehicles().FindModelByID(ctx, *rule.ModelID)
			if err != nil {
				return err
			}
			if model.MakeID != rule.MakeID {
				return fmt.Errorf("%w: model %s does not belong to make %s", apperrors.ErrValidation, model.Name, rule.MakeID)
			}
		}
		if err := store.Vehicles().SaveCompatibility(ctx, rule); err != nil {
			return err
		}
		return writeAudit(ctx, store, userID, domain.AuditCreate, tableCompatibility, rule.CompatibilityID, nil, rule, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to add compatibility", slog.String("item_id", req.ItemID), slog.String("make_id", req.MakeID))
		return nil, err
	}
	return &rule, nil
}

func (s *vehicleService) ListCompatibility(ctx context.Context, itemID string) ([]domain.ItemCompatibility, error) {
	var rules []domain.ItemCompatibility
	err := s.UOW.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		if _, err := store.Stock().FindItemByID(ctx, itemID); err != nil {
			return err
		}
		var err error
		rules, err = store.Vehicles().ListCompatibilityByItem(ctx, itemID)
		return err
	})
	return rules, err
}

func (s *vehicleService) RemoveCompatibility(ctx context.Context, compatibilityID string, userID string) error {
	err := s.UOW.WithinTx(ctx, func(ctx context.Context, store portsrepo.Store) error {
		rule, err := store.Vehicles().FindCompatibilityByID(ctx, compatibilityID)
		if err != nil {
			return err
		}
		if err := store.Vehicles().DeleteCompatibility(ctx, compatibilityID); err != nil {
			return err
		}
		return writeAudit(ctx, store, userID, domain.AuditDelete, tableCompatibility, compatibilityID, *rule, nil, s.now())
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to remove compatibility", slog.String("compatibility_id", compatibilityID))
	}
	return err
}

// FindItemsForVehicle returns the active items with a compatibility rule that fits the vehicle, by name.
func (s *vehicleService) FindItemsForVehicle(ctx context.Context, params dto.VehicleItemsParams) ([]domain.StockItem, error) {
	if err := validateRequest(params); err != nil {
		return nil, err
	}
	modelID := normalizeOptional(params.ModelID)

	var items []domain.StockItem
	err := s.UOW.View(ctx, func(ctx context.Context, store portsrepo.Store) error {
		if _, err := store.Vehicles().FindMakeByID(ctx, params.MakeID); err != nil {
			return err
		}
		rules, err := store.Vehicles().ListCompatibilityByMake(ctx, params.MakeID)
		if err != nil {
			return err
		}
		seen := make(map[string]bool)
		for _, rule := range rules {
			if seen[rule.ItemID] || !rule.Fits(modelID, params.Year) {
				continue
			}
			seen[rule.ItemID] = true
			item, err := store.Stock().FindItemByID(ctx, rule.ItemID)
			if err != nil {
				return err
			}
			if item.IsActive {
				items = append(items, *item)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}
