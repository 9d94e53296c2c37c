package service

import (
	"context"
	"fmt"
	"time"

	"retail_sync_v1_202608/internal/config"

	"github.com/go-resty/resty/v2"
)

// ==================== Notifier 通知接口 ====================

// Notifier 发后不理的消息发送者
// 发送失败由调用方记 log，永远不当成同步的致命错误
type Notifier interface {
	PushMessage(ctx context.Context, recipient config.Recipient, text string) error
}

// ==================== NotifyService ====================

const (
	defaultLineAPIBase     = "https://api.line.me"
	defaultTelegramAPIBase = "https://api.telegram.org"
)

// NotifyService LINE / Telegram 推送通道
type NotifyService struct {
	cfg    config.NotifyConfig
	client *resty.Client

	lineBase     string
	telegramBase string
}

var _ Notifier = (*NotifyService)(nil)

// NewNotifyService 创建通知服务
func NewNotifyService(cfg config.NotifyConfig) *NotifyService {
	return &NotifyService{
		cfg:          cfg,
		client:       resty.New().SetTimeout(10 * time.Second),
		lineBase:     defaultLineAPIBase,
		telegramBase: defaultTelegramAPIBase,
	}
}

// PushMessage 按收件人通道分发消息
func (s *NotifyService) PushMessage(ctx context.Context, recipient config.Recipient, text string) error {
	switch recipient.Channel {
	case "line":
		return s.pushLine(ctx, recipient.ID, text)
	case "telegram":
		return s.pushTelegram(ctx, recipient.ID, text)
	default:
		return fmt.Errorf("未知的通知通道: %s", recipient.Channel)
	}
}

// pushLine LINE Messaging API push
func (s *NotifyService) pushLine(ctx context.Context, to, text string) error {
	if s.cfg.LineToken == "" {
		return fmt.Errorf("LINE Channel Token 未配置")
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(s.cfg.LineToken).
		SetBody(map[string]interface{}{
			"to": to,
			"messages": []map[string]string{
				{"type": "text", "text": text},
			},
		}).
		Post(s.lineBase + "/v2/bot/message/push")
	if err != nil {
		return fmt.Errorf("LINE 推送失败: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("LINE 推送回应异常: HTTP %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// pushTelegram Telegram Bot sendMessage
func (s *NotifyService) pushTelegram(ctx context.Context, chatID, text string) error {
	if s.cfg.TelegramBotToken == "" {
		return fmt.Errorf("Telegram Bot Token 未配置")
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"chat_id": chatID,
			"text":    text,
		}).
		Post(s.telegramBase + "/bot" + s.cfg.TelegramBotToken + "/sendMessage")
	if err != nil {
		return fmt.Errorf("Telegram 推送失败: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("Telegram 推送回应异常: HTTP %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// SetAPIBases 覆写通道端点 (测试用)
func (s *NotifyService) SetAPIBases(lineBase, telegramBase string) {
	s.lineBase = lineBase
	s.telegramBase = telegramBase
}
