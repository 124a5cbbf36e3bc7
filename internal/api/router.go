package api

import (
	"time"

	"pantrify/internal/api/handlers"
	"pantrify/internal/api/handlers/health"
	"pantrify/internal/api/middleware"
	"pantrify/internal/core/account"
	"pantrify/internal/core/classifier"
	"pantrify/internal/core/export"
	"pantrify/internal/core/pantry"
	"pantrify/internal/core/recipe"
	"pantrify/internal/infrastructure/cache"
	"pantrify/internal/infrastructure/config"
	"pantrify/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services 路由所需的服務
type Services struct {
	Accounts   *account.Service
	Pantry     *pantry.Service
	Recipes    *recipe.Service
	Export     *export.Service
	Classifier classifier.Classifier
	Cache      cache.Cache
	// Ping 資料庫連線檢查，可為 nil
	Ping health.Pinger
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc Services) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg, svc.Ping, svc.Cache, svc.Recipes.SearchStatus, svc.Pantry.ClassifyStatus)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	accounts := handlers.NewAccountHandler(svc.Accounts)
	pantryHandler := handlers.NewPantryHandler(svc.Pantry)
	recipes := handlers.NewRecipeHandler(svc.Recipes)
	units := handlers.NewUnitHandler(svc.Classifier)
	exporter := handlers.NewExportHandler(svc.Export)

	// API 路由組
	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	// 只用於建立資源的請求；增減數量與匯入可合法重複送出
	dedup := middleware.Deduplication(cfg.DedupWindow)
	{
		api.POST("/signup", dedup, accounts.Signup)
		api.POST("/login", accounts.Login)

		unitGroup := api.Group("/units")
		{
			unitGroup.GET("", units.Options)
			unitGroup.GET("/classify", units.Classify)
			unitGroup.POST("/convert", units.Convert)
		}

		api.GET("/categories", recipes.Categories)

		userGroup := api.Group("/users/:userID")
		{
			userGroup.GET("", accounts.Get)
			userGroup.PUT("", accounts.UpdateProfile)
			userGroup.DELETE("", accounts.Delete)
			userGroup.PUT("/password", accounts.ChangePassword)
			userGroup.POST("/sessions", accounts.RecordSession)
			userGroup.GET("/stats", accounts.Stats)
			userGroup.GET("/export", exporter.Workbook)

			pantryGroup := userGroup.Group("/pantry")
			{
				pantryGroup.GET("", pantryHandler.List)
				pantryGroup.POST("", dedup, pantryHandler.Add)
				pantryGroup.GET("/keys", pantryHandler.Keys)
				pantryGroup.POST("/classify", pantryHandler.Classify)
				pantryGroup.POST("/:ingredientID/increment", pantryHandler.Increment)
				pantryGroup.POST("/:ingredientID/decrement", pantryHandler.Decrement)
				pantryGroup.PUT("/:ingredientID/sub-unit", pantryHandler.ChangeSubUnit)
				pantryGroup.DELETE("/:ingredientID", pantryHandler.Remove)
			}

			recipeGroup := userGroup.Group("/recipes")
			{
				recipeGroup.GET("", recipes.Library)
				recipeGroup.POST("", dedup, recipes.Create)
				recipeGroup.GET("/search", recipes.Search)
				recipeGroup.POST("/import", recipes.Import)
				recipeGroup.GET("/:recipeID", recipes.Detail)
				recipeGroup.PUT("/:recipeID/cooked", recipes.SetCooked)
				recipeGroup.PUT("/:recipeID/planned", recipes.SetPlanned)
				recipeGroup.DELETE("/:recipeID", recipes.Delete)
			}
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}
