package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
)

func (t *txStore) FindMakeByID(_ context.Context, makeID string) (*domain.CarMake, error) {
	m, ok := t.st.makes[makeID]
	if !ok {
		return nil, apperrors.NewNotFoundError("car make", makeID)
	}
	return &m, nil
}

func (t *txStore) ListMakes(_ context.Context) ([]domain.CarMake, error) {
	result := make([]domain.CarMake, 0, len(t.st.makes))
	for _, m := range t.st.makes {
		result = append(result, m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (t *txStore) FindModelByID(_ context.Context, modelID string) (*domain.CarModel, error) {
	m, ok := t.st.models[modelID]
	if !ok {
		return nil, apperrors.NewNotFoundError("car model", modelID)
	}
	return &m, nil
}

// ListModels lists the models of makeID, or every model when makeID is empty.
func (t *txStore) ListModels(_ context.Context, makeID string) ([]domain.CarModel, error) {
	result := make([]domain.CarModel, 0)
	for _, m := range t.st.models {
		if makeID == "" || m.MakeID == makeID {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// SearchVehicles mirrors a LEFT JOIN of makes and models filtered on either name.
func (t *txStore) SearchVehicles(_ context.Context, query string, limit int) ([]domain.VehicleMatch, error) {
	modelsByMake := make(map[string][]domain.CarModel)
	for _, m := range t.st.models {
		modelsByMake[m.MakeID] = append(modelsByMake[m.MakeID], m)
	}

	result := make([]domain.VehicleMatch, 0)
	for _, mk := range t.st.makes {
		makeMatches := containsFold(mk.Name, query)
		models := modelsByMake[mk.MakeID]
		if len(models) == 0 {
			if makeMatches {
				result = append(result, domain.VehicleMatch{MakeID: mk.MakeID, MakeName: mk.Name})
			}
			continue
		}
		for _, mo := range models {
			if makeMatches || containsFold(mo.Name, query) {
				modelID, modelName := mo.ModelID, mo.Name
				result = append(result, domain.VehicleMatch{MakeID: mk.MakeID, MakeName: mk.Name, ModelID: &modelID, ModelName: &modelName})
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].MakeName != result[j].MakeName {
			return result[i].MakeName < result[j].MakeName
		}
		return modelName(result[i]) < modelName(result[j])
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func modelName(m domain.VehicleMatch) string {
	if m.ModelName == nil {
		return ""
	}
	return *m.ModelName
}

func (t *txStore) FindCompatibilityByID(_ context.Context, compatibilityID string) (*domain.ItemCompatibility, error) {
	c, ok := t.st.compatibility[compatibilityID]
	if !ok {
		return nil, apperrors.NewNotFoundError("compatibility", compatibilityID)
	}
	return &c, nil
}

func (t *txStore) ListCompatibilityByItem(_ context.Context, itemID string) ([]domain.ItemCompatibility, error) {
	return t.listCompatibility(func(c domain.ItemCompatibility) bool { return c.ItemID == itemID }), nil
}

func (t *txStore) ListCompatibilityByMake(_ context.Context, makeID string) ([]domain.ItemCompatibility, error) {
	return t.listCompatibility(func(c domain.ItemCompatibility) bool { return c.MakeID == makeID }), nil
}

func (t *txStore) listCompatibility(keep func(domain.ItemCompatibility) bool) []domain.ItemCompatibility {
	result := make([]domain.ItemCompatibility, 0)
	for _, c := range t.st.compatibility {
		if keep(c) {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result
}

func (t *txStore) SaveMake(_ context.Context, carMake domain.CarMake) error {
	if err := t.writable(); err != nil {
		return err
	}
	for _, m := range t.st.makes {
		if m.MakeID == carMake.MakeID || strings.EqualFold(m.Name, carMake.Name) {
			return fmt.Errorf("%w: car make %s", apperrors.ErrDuplicate, carMake.Name)
		}
	}
	t.st.makes[carMake.MakeID] = carMake
	return nil
}

func (t *txStore) SaveModel(_ context.Context, model domain.CarModel) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.st.makes[model.MakeID]; !ok {
		return apperrors.NewNotFoundError("car make", model.MakeID)
	}
	for _, m := range t.st.models {
		if m.ModelID == model.ModelID || (m.MakeID == model.MakeID && strings.EqualFold(m.Name, model.Name)) {
			return fmt.Errorf("%w: car model %s", apperrors.ErrDuplicate, model.Name)
		}
	}
	t.st.models[model.ModelID] = model
	return nil
}

func (t *txStore) SaveCompatibility(_ context.Context, c domain.ItemCompatibility) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, exists := t.st.compatibility[c.CompatibilityID]; exists {
		return fmt.Errorf("%w: compatibility %s", apperrors.ErrDuplicate, c.CompatibilityID)
	}
	t.st.compatibility[c.CompatibilityID] = c
	return nil
}

func (t *txStore) DeleteCompatibility(_ context.Context, compatibilityID string) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.st.compatibility[compatibilityID]; !ok {
		return apperrors.NewNotFoundError("compatibility", compatibilityID)
	}
	delete(t.st.compatibility, compatibilityID)
	return nil
}
