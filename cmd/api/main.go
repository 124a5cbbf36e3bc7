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

	"pantrify/internal/api"
	"pantrify/internal/core/account"
	"pantrify/internal/core/classifier"
	"pantrify/internal/core/export"
	"pantrify/internal/core/mealdb"
	"pantrify/internal/core/pantry"
	"pantrify/internal/core/recipe"
	"pantrify/internal/core/store"
	"pantrify/internal/infrastructure/cache"
	"pantrify/internal/infrastructure/config"
	"pantrify/internal/infrastructure/database"
	"pantrify/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
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
		zap.String("database_driver", cfg.Database.Driver),
		zap.Bool("classifier_enabled", cfg.Classifier.Enabled),
		zap.String("classifier_model", cfg.Classifier.Model),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
	)

	// 初始化資料庫
	db, err := database.Open(cfg.Database)
	if err != nil {
		common.LogFatal("Failed to open database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		common.LogFatal("Failed to migrate database", zap.Error(err))
	}

	// 初始化快取
	appCache, err := cache.New(cfg)
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}
	defer appCache.Close()

	// 初始化服務
	st := store.New(db)
	unitClassifier := classifier.NewClient(cfg.Classifier, appCache)
	searcher := mealdb.NewClient(cfg.MealDB, appCache, cfg.Cache.SearchTTL)
	recipeSvc := recipe.NewService(st, searcher, cfg.Task.SearchTimeout)

	router := api.SetupRouter(cfg, api.Services{
		Accounts:   account.NewService(st),
		Pantry:     pantry.NewService(st, unitClassifier, cfg.Task.ClassifyTimeout),
		Recipes:    recipeSvc,
		Export:     export.NewService(st, recipeSvc),
		Classifier: unitClassifier,
		Cache:      appCache,
		Ping:       func() error { return database.Ping(db) },
	})

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
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
		return
	}

	common.LogInfo("Server exited")
}
