package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/core/domain"
	portsrepo "github.com/SscSPs/partsledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type vehicleRepository struct {
	db DBTX
}

var _ portsrepo.VehicleRepositoryFacade = (*vehicleRepository)(nil)

const compatibilityColumns = `compatibility_id, item_id, make_id, model_id, year_from, year_to, notes, created_at, created_by`

func (r *vehicleRepository) FindMakeByID(ctx context.Context, makeID string) (*domain.CarMake, error) {
	var m domain.CarMake
	err := r.db.QueryRow(ctx, `SELECT make_id, name, country, created_at FROM car_makes WHERE make_id = $1`, makeID).
		Scan(&m.MakeID, &m.Name, &m.Country, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("car make", makeID)
		}
		return nil, fmt.Errorf("failed to find car make %s: %w", makeID, err)
	}
	return &m, nil
}

func (r *vehicleRepository) ListMakes(ctx context.Context) ([]domain.CarMake, error) {
	rows, err := r.db.Query(ctx, `SELECT make_id, name, country, created_at FROM car_makes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list car makes: %w", err)
	}
	defer rows.Close()

	makes := make([]domain.CarMake, 0)
	for rows.Next() {
		var m domain.CarMake
		if err := rows.Scan(&m.MakeID, &m.Name, &m.Country, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan car make row: %w", err)
		}
		makes = append(makes, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating car make rows: %w", err)
	}
	return makes, nil
}

func (r *vehicleRepository) FindModelByID(ctx context.Context, modelID string) (*domain.CarModel, error) {
	var m domain.CarModel
	err := r.db.QueryRow(ctx, `SELECT model_id, make_id, name, created_at FROM car_models WHERE model_id = $1`, modelID).
		Scan(&m.ModelID, &m.MakeID, &m.Name, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("car model", modelID)
		}
		return nil, fmt.Errorf("failed to find car model %s: %w", modelID, err)
	}
	return &m, nil
}

// ListModels lists the models of makeID, or every model when makeID is empty.
func (r *vehicleRepository) ListModels(ctx context.Context, makeID string) ([]domain.CarModel, error) {
	var w whereBuilder
	if makeID != "" {
		w.add("make_id = ?", makeID)
	}
	rows, err := r.db.Query(ctx, `SELECT model_id, make_id, name, created_at FROM car_models`+w.clause()+` ORDER BY name`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list car models: %w", err)
	}
	defer rows.Close()

	models := make([]domain.CarModel, 0)
	for rows.Next() {
		var m domain.CarModel
		if err := rows.Scan(&m.ModelID, &m.MakeID, &m.Name, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan car model row: %w", err)
		}
		models = append(models, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating car model rows: %w", err)
	}
	return models, nil
}

// SearchVehicles matches query against make and model names. A make without
// models yields one row with no model.
func (r *vehicleRepository) SearchVehicles(ctx context.Context, query string, limit int) ([]domain.VehicleMatch, error) {
	var w whereBuilder
	p := w.arg(likePattern(query))
	sql := fmt.Sprintf(`
		SELECT mk.make_id, mk.name, mo.model_id, mo.name
		FROM car_makes mk
		LEFT JOIN car_models mo ON mo.make_id = mk.make_id
		WHERE mk.name ILIKE %[1]s OR mo.name ILIKE %[1]s
		ORDER BY mk.name, mo.name NULLS FIRST`, p)
	if limit > 0 {
		sql += " LIMIT " + w.arg(limit)
	}

	rows, err := r.db.Query(ctx, sql, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search vehicles: %w", err)
	}
	defer rows.Close()

	matches := make([]domain.VehicleMatch, 0)
	for rows.Next() {
		var m domain.VehicleMatch
		if err := rows.Scan(&m.MakeID, &m.MakeName, &m.ModelID, &m.ModelName); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vehicle matches: %w", err)
	}
	return matches, nil
}

func scanCompatibility(row rowScanner) (domain.ItemCompatibility, error) {
	var c domain.ItemCompatibility
	err := row.Scan(&c.CompatibilityID, &c.ItemID, &c.MakeID, &c.ModelID, &c.YearFrom, &c.YearTo, &c.Notes, &c.CreatedAt, &c.CreatedBy)
	return c, err
}

func (r *vehicleRepository) FindCompatibilityByID(ctx context.Context, compatibilityID string) (*domain.ItemCompatibility, error) {
	query := `SELECT ` + compatibilityColumns + ` FROM item_vehicle_compatibility WHERE compatibility_id = $1`
	c, err := scanCompatibility(r.db.QueryRow(ctx, query, compatibilityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("compatibility", compatibilityID)
		}
		return nil, fmt.Errorf("failed to find compatibility %s: %w", compatibilityID, err)
	}
	return &c, nil
}

func (r *vehicleRepository) ListCompatibilityByItem(ctx context.Context, itemID string) ([]domain.ItemCompatibility, error) {
	return r.listCompatibility(ctx, "item_id", itemID)
}

func (r *vehicleRepository) ListCompatibilityByMake(ctx context.Context, makeID string) ([]domain.ItemCompatibility, error) {
	return r.listCompatibility(ctx, "make_id", makeID)
}

func (r *vehicleRepository) listCompatibility(ctx context.Context, column, value string) ([]domain.ItemCompatibility, error) {
	query := `SELECT ` + compatibilityColumns + ` FROM item_vehicle_compatibility WHERE ` + column + ` = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, value)
	if err != nil {
		return nil, fmt.Errorf("failed to list compatibility by %s: %w", column, err)
	}
	defer rows.Close()

	rules := make([]domain.ItemCompatibility, 0)
	for rows.Next() {
		c, err := scanCompatibility(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan compatibility row: %w", err)
		}
		rules = append(rules, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating compatibility rows: %w", err)
	}
	return rules, nil
}

func (r *vehicleRepository) SaveMake(ctx context.Context, carMake domain.CarMake) error {
	_, err := r.db.Exec(ctx, `INSERT INTO car_makes (make_id, name, country, created_at) VALUES ($1, $2, $3, $4)`,
		carMake.MakeID, carMake.Name, carMake.Country, carMake.CreatedAt)
	return mapPgError(err, "save car make "+carMake.Name)
}

func (r *vehicleRepository) SaveModel(ctx context.Context, model domain.CarModel) error {
	_, err := r.db.Exec(ctx, `INSERT INTO car_models (model_id, make_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		model.ModelID, model.MakeID, model.Name, model.CreatedAt)
	return mapPgError(err, "save car model "+model.Name)
}

func (r *vehicleRepository) SaveCompatibility(ctx context.Context, c domain.ItemCompatibility) error {
	query := `INSERT INTO item_vehicle_compatibility (` + compatibilityColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query, c.CompatibilityID, c.ItemID, c.MakeID, c.ModelID, c.YearFrom, c.YearTo, c.Notes, c.CreatedAt, c.CreatedBy)
	return mapPgError(err, "save compatibility for item "+c.ItemID)
}

func (r *vehicleRepository) DeleteCompatibility(ctx context.Context, compatibilityID string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM item_vehicle_compatibility WHERE compatibility_id = $1`, compatibilityID)
	if err != nil {
		return mapPgError(err, "delete compatibility "+compatibilityID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("compatibility", compatibilityID)
	}
	return nil
}
