package controller

import (
	"github.com/gin-gonic/gin"
)

// 对外统一 {success, error} 信封
// 内部错误转成 message 字符串，不外泄堆栈

func respondOK(ctx *gin.Context, data interface{}) {
	ctx.JSON(200, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(ctx *gin.Context, status int, err error) {
	ctx.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}
