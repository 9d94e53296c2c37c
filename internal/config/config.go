package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ==================== 配置结构 ====================

// Config 全局配置
type Config struct {
	ServerPort  string
	DatabaseDSN string

	Erp    ErpConfig
	B2B    B2BConfig
	Notify NotifyConfig

	// 推送同步端点的静态共享密钥
	PushSyncSecret string

	// 全量同步排程 (cron 表达式，支持秒级)
	SyncCron string

	// 种子门市配置，格式: "T01:台北門市:1,T02:台中門市:2" (代码:名称:orgId)
	StoreSeed string
}

// ErpConfig 旧 ERP 系统配置 (Cookie Session + HTML)
type ErpConfig struct {
	BaseURL    string
	Username   string
	Password   string
	SessionTTL time.Duration
}

// B2BConfig B2B 采购入口网站配置 (SAML -> OAuth)
type B2BConfig struct {
	IdentityURL    string // 身份提供方端点 (返回含 SAML 断言的 HTML)
	IdentityAPIKey string
	Username       string
	Password       string
	TokenURL       string // 入口网站 Token 端点
	PortalBaseURL  string
	PageSize       int
	PageInterval   time.Duration // 翻页间隔
	StoreInterval  time.Duration // 门市间隔
}

// NotifyConfig 通知通道配置 (LINE / Telegram)
type NotifyConfig struct {
	LineToken        string
	TelegramBotToken string
	// 收件人列表，格式: "line:U1234,telegram:987654"
	Recipients []Recipient
}

// Recipient 通知收件人
type Recipient struct {
	Channel string // line / telegram
	ID      string
}

// ==================== 加载 ====================

// Load 从 .env / 环境变量加载配置
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=retail password=retail dbname=retail_sync port=5432 sslmode=disable"),
		Erp: ErpConfig{
			BaseURL:    getEnv("ERP_BASE_URL", ""),
			Username:   getEnv("ERP_USERNAME", ""),
			Password:   getEnv("ERP_PASSWORD", ""),
			SessionTTL: time.Duration(getEnvInt("ERP_SESSION_TTL_MIN", 30)) * time.Minute,
		},
		B2B: B2BConfig{
			IdentityURL:    getEnv("B2B_IDENTITY_URL", ""),
			IdentityAPIKey: getEnv("B2B_IDENTITY_API_KEY", ""),
			Username:       getEnv("B2B_USERNAME", ""),
			Password:       getEnv("B2B_PASSWORD", ""),
			TokenURL:       getEnv("B2B_TOKEN_URL", ""),
			PortalBaseURL:  getEnv("B2B_PORTAL_BASE_URL", ""),
			PageSize:       getEnvInt("B2B_PAGE_SIZE", 50),
			PageInterval:   time.Duration(getEnvInt("B2B_PAGE_INTERVAL_MS", 200)) * time.Millisecond,
			StoreInterval:  time.Duration(getEnvInt("B2B_STORE_INTERVAL_MS", 500)) * time.Millisecond,
		},
		Notify: NotifyConfig{
			LineToken:        getEnv("LINE_CHANNEL_TOKEN", ""),
			TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			Recipients:       parseRecipients(getEnv("NOTIFY_RECIPIENTS", "")),
		},
		PushSyncSecret: getEnv("PUSH_SYNC_SECRET", ""),
		SyncCron:       getEnv("SYNC_CRON", "0 */30 * * * *"),
		StoreSeed:      getEnv("STORE_SEED", ""),
	}

	return cfg
}

// parseRecipients 解析收件人列表
// 非法条目仅告警跳过，不阻断启动
func parseRecipients(raw string) []Recipient {
	if raw == "" {
		return nil
	}

	var recipients []Recipient
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 || parts[1] == "" {
			log.Printf("[Config] 无效的通知收件人配置，已跳过: %s", entry)
			continue
		}
		recipients = append(recipients, Recipient{Channel: parts[0], ID: parts[1]})
	}
	return recipients
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
