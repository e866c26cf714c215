package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/safar/food-order/internal/database"
	"github.com/safar/food-order/internal/models"
)

func CreateCategory(ctx context.Context, db *sql.DB, name, description, imageURL string, isActive bool) (*models.Category, error) {
	category := &models.Category{}

	query := `
		INSERT INTO categories (name, description, image_url, is_active)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		RETURNING id, name, COALESCE(description, ''), COALESCE(image_url, ''), is_active`

	err := db.QueryRowContext(ctx, query, name, description, imageURL, isActive).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.ImageURL,
		&category.IsActive,
	)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	return category, nil
}

func GetCategory(ctx context.Context, db *sql.DB, id int64) (*models.Category, error) {
	category := &models.Category{}

	query := `
		SELECT id, name, COALESCE(description, ''), COALESCE(image_url, ''), is_active
		FROM categories
		WHERE id = $1`

	err := db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.ImageURL,
		&category.IsActive,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	return category, nil
}

// ListCategories returns menu categories ordered by name. Inactive ones are
// excluded unless asked for.
func ListCategories(ctx context.Context, db *sql.DB, includeInactive bool) ([]models.Category, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), COALESCE(image_url, ''), is_active
		FROM categories`
	if !includeInactive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Description,
			&category.ImageURL,
			&category.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return categories, nil
}
