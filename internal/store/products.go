package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/safar/food-order/internal/database"
	"github.com/safar/food-order/internal/models"
	"github.com/shopspring/decimal"
)

// ProductFilter narrows the menu listing. The zero value lists every
// available product.
type ProductFilter struct {
	CategoryID    int64
	Search        string
	IncludeHidden bool
}

const productColumns = `
	id, sku, name, COALESCE(description, ''), price, COALESCE(image_url, ''),
	COALESCE(category_id, 0), is_available, is_featured, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }, p *models.Product) error {
	return row.Scan(
		&p.ID,
		&p.SKU,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.ImageURL,
		&p.CategoryID,
		&p.IsAvailable,
		&p.IsFeatured,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

type CreateProductParams struct {
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	CategoryID  int64
	IsAvailable bool
	IsFeatured  bool
}

func CreateProduct(ctx context.Context, db *sql.DB, params CreateProductParams) (*models.Product, error) {
	product := &models.Product{}

	query := `
		INSERT INTO products (sku, name, description, price, image_url, category_id, is_available, is_featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, 0), $7, $8, NOW(), NOW())
		RETURNING ` + productColumns

	row := db.QueryRowContext(ctx, query,
		params.SKU, params.Name, params.Description, params.Price,
		params.ImageURL, params.CategoryID, params.IsAvailable, params.IsFeatured)
	if err := scanProduct(row, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

func GetProduct(ctx context.Context, db *sql.DB, id int64) (*models.Product, error) {
	product := &models.Product{}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	if err := scanProduct(db.QueryRowContext(ctx, query, id), product); err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return product, nil
}

// ListProducts pages through the menu, optionally filtered by category and a
// case-insensitive name search. Hidden (unavailable) products are excluded
// unless the filter says otherwise.
func ListProducts(ctx context.Context, db *sql.DB, filter ProductFilter, page, pageSize int) (*OffsetPage, error) {
	where := "WHERE 1=1"
	args := []any{}

	if !filter.IncludeHidden {
		where += " AND is_available"
	}
	if filter.CategoryID != 0 {
		args = append(args, filter.CategoryID)
		where += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}

	var total int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products `+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	args = append(args, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY name LIMIT $%d OFFSET $%d`,
		productColumns, where, len(args)-1, len(args))

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var product models.Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &OffsetPage{
		Items:      products,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// ListFeaturedProducts returns up to limit available products flagged as
// featured, for the home screen carousel.
func ListFeaturedProducts(ctx context.Context, db *sql.DB, limit int) ([]models.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE is_available AND is_featured
		ORDER BY name
		LIMIT $1`

	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list featured products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var product models.Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return products, nil
}
