package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/safar/food-order/internal/database"
	"github.com/safar/food-order/internal/models"
	"github.com/safar/food-order/internal/pricing"
)

type PlaceOrderRequest struct {
	UserID        int64
	Address       string
	PaymentMethod string
	Notes         string
	Pricing       pricing.Options
}

func generateOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

// PlaceOrder turns the user's current cart into an order. The whole
// sequence — read cart, price it, insert the order row, snapshot line items,
// clear the cart — runs in one serializable transaction, so a failure at any
// step leaves no orphaned order and an untouched cart. Serialization
// conflicts with a concurrent placement from another device are retried.
func PlaceOrder(ctx context.Context, db *sql.DB, req PlaceOrderRequest) (*models.Order, error) {
	if req.UserID == 0 {
		return nil, database.ErrUnauthenticated
	}

	var order *models.Order

	err := database.WithRetry(ctx, db, database.TxOptions{
		IsolationLevel: sql.LevelSerializable,
		MaxRetries:     3,
	}, func(tx *sql.Tx) error {
		// Lock the product rows backing the cart so the price snapshot
		// cannot move between pricing and the order_items insert.
		rows, err := tx.QueryContext(ctx,
			`SELECT c.product_id, c.quantity, p.price
			 FROM cart c
			 JOIN products p ON p.id = c.product_id
			 WHERE c.user_id = $1
			 ORDER BY c.product_id
			 FOR UPDATE OF p`,
			req.UserID)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}

		var items []pricing.LineItem
		for rows.Next() {
			var item pricing.LineItem
			if err := rows.Scan(&item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
				rows.Close()
				return fmt.Errorf("scan cart line: %w", err)
			}
			items = append(items, item)
		}
		if err := rows.Close(); err != nil {
			return fmt.Errorf("close cart rows: %w", err)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("rows error: %w", err)
		}

		if len(items) == 0 {
			return database.ErrEmptyCart
		}

		quote, err := pricing.Calculate(items, req.Pricing)
		if err != nil {
			return fmt.Errorf("price cart: %w", err)
		}

		var orderID int64
		err = tx.QueryRowContext(ctx,
			`INSERT INTO orders (user_id, order_number, address, status, payment_status, payment_method,
			                     subtotal, delivery_fee, tax, discount, total, notes, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
			 RETURNING id`,
			req.UserID, generateOrderNumber(), req.Address,
			models.OrderStatusPending, models.PaymentStatusPending, req.PaymentMethod,
			quote.Subtotal, quote.DeliveryFee, quote.Tax, quote.Discount, quote.Total,
			req.Notes).Scan(&orderID)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, item := range items {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal, created_at)
				 VALUES ($1, $2, $3, $4, $5, NOW())`,
				orderID, item.ProductID, item.Quantity, item.UnitPrice,
				pricing.LineSubtotal(item.UnitPrice, item.Quantity))
			if err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
		}

		if err := ClearCart(ctx, tx, req.UserID); err != nil {
			return err
		}

		order = &models.Order{ID: orderID}
		err = tx.QueryRowContext(ctx,
			`SELECT user_id, order_number, address, status, payment_status, payment_method,
			        subtotal, delivery_fee, tax, discount, total, COALESCE(notes, ''), created_at, updated_at
			 FROM orders WHERE id = $1`,
			orderID).Scan(
			&order.UserID,
			&order.OrderNumber,
			&order.Address,
			&order.Status,
			&order.PaymentStatus,
			&order.PaymentMethod,
			&order.Subtotal,
			&order.DeliveryFee,
			&order.Tax,
			&order.Discount,
			&order.Total,
			&order.Notes,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("fetch created order: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return order, nil
}

// ListOrders returns the user's order history, newest first, with the product
// names and quantities denormalized for display. No identity or no orders is
// an empty list, not an error.
func ListOrders(ctx context.Context, db *sql.DB, userID int64) ([]models.OrderSummary, error) {
	if userID == 0 {
		return nil, nil
	}

	query := `
		SELECT id, status, total, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var summaries []models.OrderSummary
	var orderIDs []int64
	index := make(map[int64]int)

	for rows.Next() {
		var s models.OrderSummary
		if err := rows.Scan(&s.ID, &s.Status, &s.Total, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		index[s.ID] = len(summaries)
		summaries = append(summaries, s)
		orderIDs = append(orderIDs, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if len(summaries) == 0 {
		return nil, nil
	}

	itemsQuery := `
		SELECT oi.order_id, COALESCE(p.name, 'Unknown Product'), oi.quantity
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id`

	itemRows, err := db.QueryContext(ctx, itemsQuery, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID int64
		var item models.OrderSummaryItem
		if err := itemRows.Scan(&orderID, &item.Name, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if i, ok := index[orderID]; ok {
			summaries[i].Items = append(summaries[i].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return summaries, nil
}

// ListOrdersCursor pages through the user's orders with a keyset cursor.
func ListOrdersCursor(ctx context.Context, db *sql.DB, userID int64, cursor string, limit int) (*CursorPage, error) {
	cursorData, err := DecodeCursor(cursor)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}

	query := `
		SELECT id, user_id, order_number, address, status, payment_status, payment_method,
		       subtotal, delivery_fee, tax, discount, total, COALESCE(notes, ''), created_at, updated_at
		FROM orders
		WHERE user_id = $1
		  AND (created_at, id) < ($2, $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4`

	rows, err := db.QueryContext(ctx, query, userID, cursorData.CreatedAt, cursorData.ID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.OrderNumber,
			&order.Address,
			&order.Status,
			&order.PaymentStatus,
			&order.PaymentMethod,
			&order.Subtotal,
			&order.DeliveryFee,
			&order.Tax,
			&order.Discount,
			&order.Total,
			&order.Notes,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	hasMore := len(orders) > limit
	if hasMore {
		orders = orders[:limit]
	}

	var nextCursor string
	if hasMore && len(orders) > 0 {
		lastOrder := orders[len(orders)-1]
		nextCursor = EncodeCursor(OrderCursor{
			CreatedAt: lastOrder.CreatedAt,
			ID:        lastOrder.ID,
		})
	}

	return &CursorPage{
		Items:      orders,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

// GetOrder returns the full order detail scoped to its owner. An order id
// belonging to another user behaves as not-found, never as a data leak.
func GetOrder(ctx context.Context, db *sql.DB, userID, orderID int64) (*models.Order, error) {
	if userID == 0 {
		return nil, database.ErrOrderNotFound
	}

	order := &models.Order{}

	query := `
		SELECT id, user_id, order_number, address, status, payment_status, payment_method,
		       subtotal, delivery_fee, tax, discount, total, COALESCE(notes, ''), created_at, updated_at
		FROM orders
		WHERE id = $1 AND user_id = $2`

	err := db.QueryRowContext(ctx, query, orderID, userID).Scan(
		&order.ID,
		&order.UserID,
		&order.OrderNumber,
		&order.Address,
		&order.Status,
		&order.PaymentStatus,
		&order.PaymentMethod,
		&order.Subtotal,
		&order.DeliveryFee,
		&order.Tax,
		&order.Discount,
		&order.Total,
		&order.Notes,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	itemsQuery := `
		SELECT oi.id, oi.order_id, oi.product_id, COALESCE(p.name, 'Unknown Product'),
		       oi.quantity, oi.unit_price, oi.subtotal, oi.created_at
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`

	rows, err := db.QueryContext(ctx, itemsQuery, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
			&item.Subtotal,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	order.Items = items

	return order, nil
}
