package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/safar/food-order/internal/database"
	"github.com/safar/food-order/internal/models"
)

// GetCartItems returns the user's cart joined with current product details.
// An unresolved identity is not an error for reads: it is an empty cart.
func GetCartItems(ctx context.Context, db *sql.DB, userID int64) ([]models.CartItem, error) {
	if userID == 0 {
		return nil, nil
	}

	query := `
		SELECT c.id, c.user_id, c.product_id, p.name, p.price, c.quantity, COALESCE(p.image_url, '')
		FROM cart c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at`

	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var item models.CartItem
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
			&item.Name,
			&item.UnitPrice,
			&item.Quantity,
			&item.ImageURL,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}

// AddToCart inserts a line item or increments the existing one for the same
// (user, product) pair. The upsert is a single conditional write, so two
// concurrent adds from different devices cannot produce duplicate rows or
// lose an increment.
func AddToCart(ctx context.Context, db *sql.DB, userID, productID int64, quantity int) error {
	if userID == 0 {
		return database.ErrUnauthenticated
	}
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}

	query := `
		INSERT INTO cart (user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart.quantity + EXCLUDED.quantity, updated_at = NOW()`

	_, err := db.ExecContext(ctx, query, userID, productID, quantity)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return database.ErrProductNotFound
		}
		return fmt.Errorf("add to cart: %w", err)
	}

	return nil
}

// UpdateCartItemQuantity sets the quantity of a cart line. A quantity below
// one deletes the line instead. Updating a line that no longer exists is a
// no-op.
func UpdateCartItemQuantity(ctx context.Context, db *sql.DB, userID, itemID int64, quantity int) error {
	if userID == 0 {
		return database.ErrUnauthenticated
	}
	if quantity < 1 {
		return RemoveCartItem(ctx, db, userID, itemID)
	}

	_, err := db.ExecContext(ctx,
		`UPDATE cart
		 SET quantity = $1, updated_at = NOW()
		 WHERE id = $2 AND user_id = $3`,
		quantity, itemID, userID)
	if err != nil {
		return fmt.Errorf("update cart quantity: %w", err)
	}

	return nil
}

// RemoveCartItem deletes a cart line. Removing a non-existent line is not an
// error.
func RemoveCartItem(ctx context.Context, db *sql.DB, userID, itemID int64) error {
	if userID == 0 {
		return database.ErrUnauthenticated
	}

	_, err := db.ExecContext(ctx,
		`DELETE FROM cart WHERE id = $1 AND user_id = $2`,
		itemID, userID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}

	return nil
}

// ClearCart removes every cart line for the user within a transaction. Order
// placement calls this as its final step so the clear commits (or rolls back)
// together with the order rows.
func ClearCart(ctx context.Context, tx *sql.Tx, userID int64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM cart WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
