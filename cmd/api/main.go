package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-cart/internal/api"
	"recipe-cart/internal/api/handlers/health"
	"recipe-cart/internal/core/ai/cache"
	"recipe-cart/internal/core/ai/openrouter"
	"recipe-cart/internal/core/ai/queue"
	"recipe-cart/internal/core/ai/service"
	"recipe-cart/internal/core/cart"
	"recipe-cart/internal/core/catalog"
	"recipe-cart/internal/core/ingredient"
	"recipe-cart/internal/core/order"
	"recipe-cart/internal/core/pricing"
	"recipe-cart/internal/core/recipe"
	"recipe-cart/internal/infrastructure/config"
	"recipe-cart/internal/infrastructure/postgres"
	"recipe-cart/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("openrouter_key", config.MaskAPIKey(cfg.OpenRouter.APIKey)),
		zap.String("openrouter_model", cfg.OpenRouter.Model),
		zap.String("cart_store", cfg.Cart.Store),
		zap.Bool("postgres", cfg.Postgres.Enabled),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	synonyms := ingredient.DefaultSynonyms()
	index := pricing.NewInfoIndex(pricing.DefaultProductInfo(), synonyms)
	checks := map[string]health.Checker{}

	// 商品目錄與訂單儲存
	var (
		products    catalog.Store
		orderStore  order.Store
		suggestions recipe.SuggestionStore
	)
	if cfg.Postgres.Enabled {
		db, err := postgres.NewClient(startCtx, cfg.Postgres)
		if err != nil {
			common.LogFatal("Failed to connect to Postgres", zap.Error(err))
		}
		defer db.Close()

		if err := db.EnsureSchema(startCtx); err != nil {
			common.LogFatal("Failed to apply schema", zap.Error(err))
		}
		pgCatalog := postgres.NewCatalog(db)
		seeded, err := pgCatalog.Seed(startCtx, index.Products())
		if err != nil {
			common.LogFatal("Failed to seed catalog", zap.Error(err))
		}
		if seeded > 0 {
			common.LogInfo("商品目錄已初始化", zap.Int("products", seeded))
		}
		products = pgCatalog
		orderStore = postgres.NewOrderStore(db)
		suggestions = postgres.NewSuggestionStore(db)
		checks["postgres"] = db.Ping
	} else {
		products = catalog.NewMemoryCatalog(index.Products()...)
		orderStore = order.NewMemoryStore()
		suggestions = recipe.NewMemorySuggestionLog()
	}

	// 購物車儲存
	var cartStore cart.Store
	switch cfg.Cart.Store {
	case "redis":
		rs, err := cart.NewRedisStore(startCtx, &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Cart.TTL)
		if err != nil {
			common.LogFatal("Failed to connect to Redis", zap.Error(err))
		}
		defer rs.Close()
		cartStore = rs
		checks["redis"] = rs.Ping
	default:
		cartStore = cart.NewMemoryStore()
	}

	// 初始化快取
	cacheManager := cache.NewManager(cfg.Cache)
	defer cacheManager.Close()

	aiQueue := queue.NewManager(openrouter.NewClient(cfg.OpenRouter), cfg.Queue)
	defer aiQueue.Close()

	aiService := service.NewService(aiQueue, cacheManager)
	matcher := ingredient.NewMatcher(products, synonyms)
	calc := pricing.NewCalculator(index, products)
	cartService := cart.NewService(cartStore, products, calc)

	router := api.SetupRouter(cfg, api.Dependencies{
		Catalog:    products,
		Matcher:    matcher,
		Calculator: calc,
		Planner: recipe.NewPlanner(
			recipe.NewGenerator(aiService), matcher, calc, products, suggestions,
		),
		Suggestions: suggestions,
		Carts:       cartService,
		Orders: order.NewService(orderStore, cartService),
		Checks: checks,
		Stats: map[string]func() interface{}{
			"cache": func() interface{} { return cacheManager.GetStats() },
			"queue": func() interface{} { return aiQueue.GetStatus() },
		},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}
