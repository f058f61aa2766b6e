package api

import (
	"time"

	cartHandler "recipe-cart/internal/api/handlers/cart"
	"recipe-cart/internal/api/handlers/health"
	orderHandler "recipe-cart/internal/api/handlers/order"
	productHandler "recipe-cart/internal/api/handlers/product"
	recipeHandler "recipe-cart/internal/api/handlers/recipe"
	"recipe-cart/internal/api/middleware"
	"recipe-cart/internal/core/cart"
	"recipe-cart/internal/core/catalog"
	"recipe-cart/internal/core/ingredient"
	"recipe-cart/internal/core/order"
	"recipe-cart/internal/core/pricing"
	"recipe-cart/internal/core/recipe"
	"recipe-cart/internal/infrastructure/config"
	"recipe-cart/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies 路由所需的服務
type Dependencies struct {
	Catalog     catalog.Store
	Matcher     *ingredient.Matcher
	Calculator  *pricing.Calculator
	Planner     *recipe.Planner
	Suggestions recipe.SuggestionStore
	Carts       *cart.Service
	Orders      *order.Service
	Checks      map[string]health.Checker
	Stats       map[string]func() interface{}
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg.App.Version, deps.Checks, deps.Stats)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API 路由組
	api := router.Group("/api/v1")
	api.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	dedup := middleware.NewDeduplicator(cfg.DedupWindow)
	recipes := recipeHandler.NewHandler(deps.Planner, deps.Suggestions)
	api.POST("/recipes/ingredients", dedup.Handler(), recipes.HandleIngredients)
	api.GET("/suggestions", recipes.ListSuggestions)

	products := productHandler.NewHandler(deps.Catalog, deps.Matcher, deps.Calculator)
	api.GET("/products/search", products.Search)
	api.GET("/products/categories", products.Categories)
	api.GET("/products/:id", products.Get)
	api.POST("/products/match", products.Match)

	carts := cartHandler.NewHandler(deps.Carts)
	orders := orderHandler.NewHandler(deps.Orders)
	cartGroup := api.Group("/cart/:session")
	{
		cartGroup.GET("", carts.Get)
		cartGroup.DELETE("", carts.Clear)
		cartGroup.POST("/items", carts.Add)
		cartGroup.PUT("/items/:id", carts.UpdateQuantity)
		cartGroup.DELETE("/items/:id", carts.Remove)
		cartGroup.POST("/checkout", orders.Checkout)
	}

	orderGroup := api.Group("/orders")
	{
		orderGroup.GET("/:id", orders.Get)
		orderGroup.PUT("/:id/status", orders.UpdateStatus)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
	)

	return router
}
