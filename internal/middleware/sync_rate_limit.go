package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== 同步限流中间件 ====================

// 手动触发同步的冷却间隔，挡住前台连点与脚本滥打
var syncCooldowns sync.Map

// SyncRateLimit 按路由维度限流
//
// 使用示例:
//
//	api.POST("/sync/b2b", middleware.SyncRateLimit(time.Minute), syncCtl.TriggerSync)
func SyncRateLimit(interval time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.FullPath()
		now := time.Now()

		if val, ok := syncCooldowns.Load(key); ok {
			last := val.(time.Time)
			if remaining := interval - now.Sub(last); remaining > 0 {
				c.JSON(http.StatusTooManyRequests, gin.H{
					"success": false,
					"error":   fmt.Sprintf("同步冷却中，请 %d 秒后再试", int(remaining.Seconds())+1),
				})
				c.Abort()
				return
			}
		}

		syncCooldowns.Store(key, now)
		c.Next()
	}
}
