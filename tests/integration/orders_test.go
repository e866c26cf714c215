package integration

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/safar/food-order/internal/database"
	"github.com/safar/food-order/internal/models"
	"github.com/safar/food-order/internal/store"
	"github.com/shopspring/decimal"
)

func placeOrder(t *testing.T, db *sql.DB, userID int64) *models.Order {
	t.Helper()
	order, err := store.PlaceOrder(context.Background(), db, store.PlaceOrderRequest{
		UserID:        userID,
		Address:       "12 Pho Hue, Hanoi",
		PaymentMethod: models.PaymentMethodCash,
		Pricing:       testPricingOptions(),
	})
	if err != nil {
		t.Fatalf("Place order: %v", err)
	}
	return order
}

func TestPlaceOrder(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, db, "order1@example.com")
	product1 := createTestProduct(t, db, "ORD-001", "Pho Bo", "8.99")
	product2 := createTestProduct(t, db, "ORD-002", "Banh Mi", "6.99")

	if err := store.AddToCart(ctx, db, user.ID, product1.ID, 2); err != nil {
		t.Fatalf("Add product 1: %v", err)
	}
	if err := store.AddToCart(ctx, db, user.ID, product2.ID, 1); err != nil {
		t.Fatalf("Add product 2: %v", err)
	}

	order := placeOrder(t, db, user.ID)

	if order.ID == 0 {
		t.Error("Order ID should not be 0")
	}
	if order.Status != models.OrderStatusPending {
		t.Errorf("Expected status pending, got %s", order.Status)
	}
	if order.PaymentStatus != models.PaymentStatusPending {
		t.Errorf("Expected payment status pending, got %s", order.PaymentStatus)
	}

	// The worked example: 8.99*2 + 6.99 = 24.97; tax 2.497; total 32.467.
	if !order.Subtotal.Equal(decimal.RequireFromString("24.97")) {
		t.Errorf("Expected subtotal 24.97, got %s", order.Subtotal)
	}
	if !order.Tax.Equal(decimal.RequireFromString("2.497")) {
		t.Errorf("Expected tax 2.497, got %s", order.Tax)
	}
	if !order.Total.Equal(decimal.RequireFromString("32.467")) {
		t.Errorf("Expected total 32.467, got %s", order.Total)
	}

	want := order.Subtotal.Add(order.DeliveryFee).Add(order.Tax).Sub(order.Discount)
	if !order.Total.Equal(want) {
		t.Errorf("Total %s does not equal subtotal+fee+tax-discount %s", order.Total, want)
	}

	full, err := store.GetOrder(ctx, db, user.ID, order.ID)
	if err != nil {
		t.Fatalf("Get order: %v", err)
	}
	if len(full.Items) != 2 {
		t.Fatalf("Expected 2 order items, got %d", len(full.Items))
	}

	items, err := store.GetCartItems(ctx, db, user.ID)
	if err != nil {
		t.Fatalf("Get cart items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected empty cart after order, got %d items", len(items))
	}
}

func TestPlaceOrderSnapshotsPrices(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, db, "order2@example.com")
	product := createTestProduct(t, db, "ORD-003", "Com Tam", "9.50")

	if err := store.AddToCart(ctx, db, user.ID, product.ID, 1); err != nil {
		t.Fatalf("Add to cart: %v", err)
	}

	order := placeOrder(t, db, user.ID)

	// A later price change must not alter the historical order.
	_, err := db.ExecContext(ctx, `UPDATE products SET price = 99.99 WHERE id = $1`, product.ID)
	if err != nil {
		t.Fatalf("Update price: %v", err)
	}

	full, err := store.GetOrder(ctx, db, user.ID, order.ID)
	if err != nil {
		t.Fatalf("Get order: %v", err)
	}
	if !full.Items[0].UnitPrice.Equal(decimal.RequireFromString("9.50")) {
		t.Errorf("Expected snapshotted unit price 9.50, got %s", full.Items[0].UnitPrice)
	}
	if !full.Items[0].Subtotal.Equal(decimal.RequireFromString("9.50")) {
		t.Errorf("Expected line subtotal 9.50, got %s", full.Items[0].Subtotal)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, db, "order3@example.com")

	_, err := store.PlaceOrder(ctx, db, store.PlaceOrderRequest{
		UserID:        user.ID,
		Address:       "12 Pho Hue, Hanoi",
		PaymentMethod: models.PaymentMethodCash,
		Pricing:       testPricingOptions(),
	})
	if !errors.Is(err, database.ErrEmptyCart) {
		t.Fatalf("Expected ErrEmptyCart, got %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, user.ID).Scan(&count); err != nil {
		t.Fatalf("Count orders: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no orders created, got %d", count)
	}
}

func TestPlaceOrderRequiresIdentity(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := store.PlaceOrder(context.Background(), db, store.PlaceOrderRequest{
		UserID:        0,
		Address:       "12 Pho Hue, Hanoi",
		PaymentMethod: models.PaymentMethodCash,
		Pricing:       testPricingOptions(),
	})
	if !errors.Is(err, database.ErrUnauthenticated) {
		t.Errorf("Expected ErrUnauthenticated, got %v", err)
	}
}

func TestGetOrderScopedToOwner(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	alice := createTestUser(t, db, "alice-orders@example.com")
	bob := createTestUser(t, db, "bob-orders@example.com")
	product := createTestProduct(t, db, "ORD-004", "Bun Cha", "10.00")

	if err := store.AddToCart(ctx, db, alice.ID, product.ID, 1); err != nil {
		t.Fatalf("Add to cart: %v", err)
	}
	order := placeOrder(t, db, alice.ID)

	_, err := store.GetOrder(ctx, db, bob.ID, order.ID)
	if !errors.Is(err, database.ErrOrderNotFound) {
		t.Errorf("Expected ErrOrderNotFound for foreign order, got %v", err)
	}

	bobOrders, err := store.ListOrders(ctx, db, bob.ID)
	if err != nil {
		t.Fatalf("List orders: %v", err)
	}
	if len(bobOrders) != 0 {
		t.Errorf("Expected no orders for bob, got %d", len(bobOrders))
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, db, "order5@example.com")
	product := createTestProduct(t, db, "ORD-005", "Goi Cuon", "4.50")

	var lastOrderID int64
	for i := 0; i < 3; i++ {
		if err := store.AddToCart(ctx, db, user.ID, product.ID, 1); err != nil {
			t.Fatalf("Add to cart: %v", err)
		}
		lastOrderID = placeOrder(t, db, user.ID).ID
	}

	orders, err := store.ListOrders(ctx, db, user.ID)
	if err != nil {
		t.Fatalf("List orders: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("Expected 3 orders, got %d", len(orders))
	}
	if orders[0].ID != lastOrderID {
		t.Errorf("Expected newest order %d first, got %d", lastOrderID, orders[0].ID)
	}

	// Each summary carries denormalized product names for display.
	for _, o := range orders {
		if len(o.Items) != 1 {
			t.Fatalf("Expected 1 summary item, got %d", len(o.Items))
		}
		if o.Items[0].Name != "Goi Cuon" || o.Items[0].Quantity != 1 {
			t.Errorf("Unexpected summary item %+v", o.Items[0])
		}
	}
}

func TestListOrdersCursor(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, db, "order6@example.com")
	product := createTestProduct(t, db, "ORD-006", "Ca Phe Sua Da", "3.50")

	for i := 0; i < 15; i++ {
		if err := store.AddToCart(ctx, db, user.ID, product.ID, 1); err != nil {
			t.Fatalf("Add to cart: %v", err)
		}
		placeOrder(t, db, user.ID)
	}

	page1, err := store.ListOrdersCursor(ctx, db, user.ID, "", 10)
	if err != nil {
		t.Fatalf("List orders page 1: %v", err)
	}
	if !page1.HasMore {
		t.Error("Page 1 should have more results")
	}
	if page1.NextCursor == "" {
		t.Error("Page 1 should have a next cursor")
	}

	page2, err := store.ListOrdersCursor(ctx, db, user.ID, page1.NextCursor, 10)
	if err != nil {
		t.Fatalf("List orders page 2: %v", err)
	}
	if page2.HasMore {
		t.Error("Page 2 should not have more results")
	}
}

func TestListOrdersAnonymousIsEmpty(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	orders, err := store.ListOrders(context.Background(), db, 0)
	if err != nil {
		t.Fatalf("List orders: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("Expected empty list for anonymous caller, got %d", len(orders))
	}
}
