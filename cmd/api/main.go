package main

import (
	"context"
	"log"
	"net/http"

	"github.com/safar/food-order/internal/api"
	"github.com/safar/food-order/internal/auth"
	"github.com/safar/food-order/internal/cache"
	"github.com/safar/food-order/internal/checkout"
	"github.com/safar/food-order/internal/config"
	"github.com/safar/food-order/internal/database"
	"github.com/safar/food-order/internal/logging"
	"github.com/safar/food-order/internal/models"
	"github.com/safar/food-order/internal/storage"
	"github.com/safar/food-order/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	logger := logging.Init("food-order", cfg.Logging.FilePath)

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	logger.Info("connected to database")

	var menuCache cache.Cache = cache.Noop{}
	if cfg.Redis.Addr != "" {
		menuCache = cache.NewRedisCache(cfg.Redis.Addr, "food-order")
		logger.Info("menu cache enabled", "addr", cfg.Redis.Addr)
	}

	avatars, err := storage.NewAvatarStore(cfg.Storage.AvatarDir)
	if err != nil {
		log.Fatalf("Init avatar store: %v", err)
	}

	tokens := auth.NewTokenIssuer(cfg.Auth)

	placer := checkout.OrderPlacerFunc(func(ctx context.Context, req store.PlaceOrderRequest) (*models.Order, error) {
		return store.PlaceOrder(ctx, db, req)
	})
	checkoutSvc := checkout.NewService(placer, cfg.Pricing)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      api.NewServer(db, cfg, tokens, checkoutSvc, menuCache, avatars).Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Info("server starting", "port", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
