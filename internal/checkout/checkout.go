// Package checkout drives the place-order flow: validate the request, then
// hand the cart-to-order conversion to the order store, which performs it in
// a single transaction. A failed attempt leaves no partial state, so the
// caller can simply retry against the current cart.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/safar/food-order/internal/config"
	"github.com/safar/food-order/internal/database"
	"github.com/safar/food-order/internal/models"
	"github.com/safar/food-order/internal/pricing"
	"github.com/safar/food-order/internal/store"
)

var (
	ErrAddressRequired  = errors.New("delivery address is required")
	ErrBadPaymentMethod = errors.New("unknown payment method")
)

// OrderPlacer is the port the workflow hands the validated request to.
// The production implementation is store.PlaceOrder.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req store.PlaceOrderRequest) (*models.Order, error)
}

type OrderPlacerFunc func(ctx context.Context, req store.PlaceOrderRequest) (*models.Order, error)

func (f OrderPlacerFunc) PlaceOrder(ctx context.Context, req store.PlaceOrderRequest) (*models.Order, error) {
	return f(ctx, req)
}

type Service struct {
	placer  OrderPlacer
	pricing config.PricingConfig
}

func NewService(placer OrderPlacer, pricingCfg config.PricingConfig) *Service {
	return &Service{placer: placer, pricing: pricingCfg}
}

type Request struct {
	UserID        int64
	Address       string
	PaymentMethod string
	Notes         string
}

// PlaceOrder validates the request and places the order. Validation failures
// and an empty cart surface as typed errors; anything else is a storage
// failure wrapped for logging.
func (s *Service) PlaceOrder(ctx context.Context, req Request) (*models.Order, error) {
	if req.UserID == 0 {
		return nil, database.ErrUnauthenticated
	}
	if strings.TrimSpace(req.Address) == "" {
		return nil, ErrAddressRequired
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("%w: %q", ErrBadPaymentMethod, req.PaymentMethod)
	}

	order, err := s.placer.PlaceOrder(ctx, store.PlaceOrderRequest{
		UserID:        req.UserID,
		Address:       strings.TrimSpace(req.Address),
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		Pricing: pricing.Options{
			DeliveryFee: s.pricing.DeliveryFee,
			TaxRate:     s.pricing.TaxRate,
		},
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}
