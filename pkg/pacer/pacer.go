package pacer

import (
	"context"
	"time"
)

// Pacer 固定节奏器
// 取代散落在循环里的 time.Sleep，让测试可以注入零等待实现
type Pacer interface {
	// Wait 阻塞一个节拍，或在 ctx 取消时提前返回
	Wait(ctx context.Context)
}

// ==================== 固定间隔实现 ====================

type fixedInterval struct {
	interval time.Duration
}

// NewFixedInterval 创建固定间隔节奏器
func NewFixedInterval(interval time.Duration) Pacer {
	return &fixedInterval{interval: interval}
}

func (p *fixedInterval) Wait(ctx context.Context) {
	if p.interval <= 0 {
		return
	}

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// ==================== 空实现 (测试用) ====================

type noop struct{}

// NewNoop 创建不等待的节奏器
func NewNoop() Pacer {
	return noop{}
}

func (noop) Wait(context.Context) {}
