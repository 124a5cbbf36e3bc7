package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"pantrify/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// purgeThreshold 紀錄數超過此值時順便清除過期紀錄
const purgeThreshold = 1024

// Deduplicator 攔截時間窗內重複送出的寫入請求（例如連點兩次匯入）
type Deduplicator struct {
	window time.Duration
	mu     sync.Mutex
	seen   map[string]time.Time
}

// NewDeduplicator 創建去重器，window <= 0 時使用 1 秒
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = time.Second
	}
	return &Deduplicator{window: window, seen: make(map[string]time.Time)}
}

// Deduplication 只處理 POST，指紋為來源 IP、路徑與請求體雜湊
func Deduplication(window time.Duration) gin.HandlerFunc {
	d := NewDeduplicator(window)
	return d.Handle
}

// Handle gin 中間件
func (d *Deduplicator) Handle(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.Next()
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		common.LogWarn("Failed to read request body", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: common.ErrInvalidRequest.Message,
		})
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	sum := sha256.Sum256(body)
	fingerprint := c.ClientIP() + ":" + c.Request.URL.Path + ":" + hex.EncodeToString(sum[:])

	if d.duplicate(fingerprint, time.Now()) {
		common.LogInfo("Duplicate request rejected", zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
			Code:    common.ErrCodeTooManyRequests,
			Message: "Request too frequent",
		})
		return
	}

	c.Next()
}

// duplicate 記錄指紋，時間窗內已出現過則回傳 true
func (d *Deduplicator) duplicate(fingerprint string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if last, ok := d.seen[fingerprint]; ok && now.Sub(last) <= d.window {
		return true
	}
	d.seen[fingerprint] = now

	if len(d.seen) > purgeThreshold {
		for k, t := range d.seen {
			if now.Sub(t) > d.window {
				delete(d.seen, k)
			}
		}
	}
	return false
}
