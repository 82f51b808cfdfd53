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

type categoryRepository struct {
	db DBTX
}

var _ portsrepo.CategoryRepositoryFacade = (*categoryRepository)(nil)

// selectCategories joins the parent row and counts active items by name.
const selectCategories = `
	SELECT c.category_id, c.name, c.description, c.parent_id, p.name,
		(SELECT COUNT(*) FROM stock_items si WHERE LOWER(si.category) = LOWER(c.name) AND si.is_active),
		c.is_active, c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
	FROM categories c
	LEFT JOIN categories p ON p.category_id = c.parent_id`

func scanCategory(row rowScanner) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(
		&c.CategoryID,
		&c.Name,
		&c.Description,
		&c.ParentID,
		&c.ParentName,
		&c.ItemCount,
		&c.IsActive,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	return c, err
}

func (r *categoryRepository) findOne(ctx context.Context, where string, arg any, label string) (*domain.Category, error) {
	c, err := scanCategory(r.db.QueryRow(ctx, selectCategories+` WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("category", label)
		}
		return nil, fmt.Errorf("failed to find category %s: %w", label, err)
	}
	return &c, nil
}

func (r *categoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	return r.findOne(ctx, `c.category_id = $1`, categoryID, categoryID)
}

func (r *categoryRepository) FindCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	return r.findOne(ctx, `LOWER(c.name) = LOWER($1)`, name, name)
}

func (r *categoryRepository) ListCategories(ctx context.Context, filter domain.CategoryFilter) ([]domain.Category, error) {
	var w whereBuilder
	if !filter.IncludeInactive {
		w.add("c.is_active")
	}
	if filter.Search != "" {
		w.add("c.name ILIKE ?", likePattern(filter.Search))
	}
	query := selectCategories + w.clause() + ` ORDER BY c.name`

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	query := `
		INSERT INTO categories (category_id, name, description, parent_id, is_active,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.db.Exec(ctx, query,
		category.CategoryID,
		category.Name,
		category.Description,
		category.ParentID,
		category.IsActive,
		category.CreatedAt,
		category.CreatedBy,
		category.LastUpdatedAt,
		category.LastUpdatedBy,
	)
	return mapPgError(err, "save category "+category.Name)
}

func (r *categoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	query := `
		UPDATE categories
		SET name = $2, description = $3, parent_id = $4, is_active = $5, last_updated_at = $6, last_updated_by = $7
		WHERE category_id = $1;
	`
	ct, err := r.db.Exec(ctx, query,
		category.CategoryID,
		category.Name,
		category.Description,
		category.ParentID,
		category.IsActive,
		category.LastUpdatedAt,
		category.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "update category "+category.CategoryID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("category", category.CategoryID)
	}
	return nil
}
