// Package api exposes the ordering service over HTTP. Routing and
// middleware use chi; handlers translate between JSON requests and the store
// and checkout packages.
package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/safar/food-order/internal/auth"
	"github.com/safar/food-order/internal/cache"
	"github.com/safar/food-order/internal/checkout"
	"github.com/safar/food-order/internal/config"
	"github.com/safar/food-order/internal/logging"
	"github.com/safar/food-order/internal/storage"
)

type Server struct {
	db       *sql.DB
	cfg      *config.Config
	tokens   *auth.TokenIssuer
	checkout *checkout.Service
	cache    cache.Cache
	avatars  *storage.AvatarStore
	log      *slog.Logger
}

func NewServer(
	db *sql.DB,
	cfg *config.Config,
	tokens *auth.TokenIssuer,
	checkoutSvc *checkout.Service,
	menuCache cache.Cache,
	avatars *storage.AvatarStore,
) *Server {
	return &Server{
		db:       db,
		cfg:      cfg,
		tokens:   tokens,
		checkout: checkoutSvc,
		cache:    menuCache,
		avatars:  avatars,
		log:      logging.New("api"),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.resolveIdentity)

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	r.Get("/categories", s.handleListCategories)
	r.Get("/categories/{id}", s.handleGetCategory)
	r.Get("/products", s.handleListProducts)
	r.Get("/products/featured", s.handleFeaturedProducts)
	r.Get("/products/{id}", s.handleGetProduct)

	r.Get("/cart", s.handleGetCart)
	r.Post("/cart/items", s.handleAddToCart)
	r.Put("/cart/items/{id}", s.handleUpdateCartItem)
	r.Delete("/cart/items/{id}", s.handleRemoveCartItem)

	r.Post("/checkout", s.handleCheckout)
	r.Get("/orders", s.handleListOrders)
	r.Get("/orders/{id}", s.handleGetOrder)

	r.Get("/profile", s.handleGetProfile)
	r.Put("/profile", s.handleUpdateProfile)
	r.Post("/profile/avatar", s.handleUploadAvatar)
	r.Get("/avatars/{key}", s.handleGetAvatar)

	return r
}
