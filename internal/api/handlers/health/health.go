package health

import (
	"net/http"
	"runtime"
	"time"

	"pantrify/internal/core/task"
	"pantrify/internal/infrastructure/cache"
	"pantrify/internal/infrastructure/config"
	"pantrify/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger 可檢查連線的依賴，例如資料庫
type Pinger func() error

// Handler 健康檢查處理器
type Handler struct {
	cfg     *config.Config
	ping    Pinger
	cache   cache.Cache
	runners []func() task.Status
	started time.Time
}

// NewHandler 創建健康檢查處理器，runners 提供各背景任務的狀態
func NewHandler(cfg *config.Config, ping Pinger, c cache.Cache, runners ...func() task.Status) *Handler {
	return &Handler{
		cfg:     cfg,
		ping:    ping,
		cache:   c,
		runners: runners,
		started: time.Now(),
	}
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// ReadinessResponse 就緒檢查響應
type ReadinessResponse struct {
	Status   string                 `json:"status"`
	Database string                 `json:"database"`
	Tasks    []task.Status          `json:"tasks"`
	Cache    map[string]interface{} `json:"cache,omitempty"`
}

// HealthCheck 健康檢查
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.cfg.App.Version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	})
}

// ReadinessCheck 就緒檢查：資料庫、背景任務與快取
func (h *Handler) ReadinessCheck(c *gin.Context) {
	resp := ReadinessResponse{Status: "ready", Database: "ok"}
	status := http.StatusOK

	if h.ping != nil {
		if err := h.ping(); err != nil {
			common.LogWarn("Database not ready", zap.Error(err))
			resp.Status = "unavailable"
			resp.Database = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	resp.Tasks = make([]task.Status, 0, len(h.runners))
	for _, r := range h.runners {
		resp.Tasks = append(resp.Tasks, r())
	}
	if h.cache != nil {
		resp.Cache = h.cache.Stats()
	}

	c.JSON(status, resp)
}

// LivenessCheck 存活檢查
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
