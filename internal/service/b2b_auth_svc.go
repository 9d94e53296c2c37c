package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sync"
	"time"

	"retail_sync_v1_202608/internal/config"
	"retail_sync_v1_202608/pkg/metrics"

	"github.com/go-resty/resty/v2"
)

// ==================== 常量与错误 ====================

// Token 到期前的安全边际，避免在途请求撞上刚好过期的 Token
const tokenSafetyMargin = 300 * time.Second

// SAML2 断言换 Token 的 grant type
const samlBearerGrantType = "urn:ietf:params:oauth:grant-type:saml2-bearer"

var (
	// ErrB2BNotConfigured 帐密或端点未设定
	ErrB2BNotConfigured = errors.New("B2B 入口网站帐密未配置")
	// ErrAssertionNotFound 身份端点的 HTML 里找不到断言栏位
	ErrAssertionNotFound = errors.New("身份回应中找不到 SAML 断言")
)

// 身份端点回传的是一个 HTML form，断言藏在 input 的 value 属性里
var samlAssertionPattern = regexp.MustCompile(`name="SAMLResponse"[^>]*\bvalue="([^"]+)"`)

// parseAssertion 从身份端点的 HTML 取出 SAML 断言
func parseAssertion(html string) (string, error) {
	matches := samlAssertionPattern.FindStringSubmatch(html)
	if len(matches) < 2 {
		return "", ErrAssertionNotFound
	}
	return matches[1], nil
}

// ==================== B2BAuthService ====================

// cachedToken 进程内唯一一份 Token 快取，续期时整体替换
type cachedToken struct {
	value      string
	expiresIn  int // 秒
	acquiredAt time.Time
}

// usable 在 (有效期 - 安全边际) 内视为可用
func (t *cachedToken) usable(now time.Time) bool {
	if t.value == "" {
		return false
	}
	elapsed := now.Sub(t.acquiredAt)
	return elapsed < time.Duration(t.expiresIn)*time.Second-tokenSafetyMargin
}

// B2BAuthService B2B 入口网站鉴权桥接
// 两段式换发：身份端点取 SAML 断言 -> Token 端点换 Bearer Token
// 快取在锁内续期，并发调用共享同一次网络换发
type B2BAuthService struct {
	cfg    config.B2BConfig
	client *resty.Client

	mu    sync.Mutex
	token cachedToken

	nowFn func() time.Time
}

// NewB2BAuthService 创建鉴权桥接服务
func NewB2BAuthService(cfg config.B2BConfig) *B2BAuthService {
	return &B2BAuthService{
		cfg:    cfg,
		client: resty.New().SetTimeout(30 * time.Second),
		nowFn:  time.Now,
	}
}

// Authenticate 取得一个当前有效的 Bearer Token
// 快取命中时零网络调用
func (s *B2BAuthService) Authenticate(ctx context.Context) (string, error) {
	if s.cfg.Username == "" || s.cfg.Password == "" {
		return "", ErrB2BNotConfigured
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token.usable(s.nowFn()) {
		return s.token.value, nil
	}

	assertion, err := s.fetchAssertion(ctx)
	if err != nil {
		return "", err
	}

	token, expiresIn, err := s.exchangeToken(ctx, assertion)
	if err != nil {
		return "", err
	}

	s.token = cachedToken{
		value:      token,
		expiresIn:  expiresIn,
		acquiredAt: s.nowFn(),
	}
	metrics.B2BTokenRenewals.Inc()
	log.Printf("[B2B] Token 已换发，有效期 %d 秒", expiresIn)

	return token, nil
}

// fetchAssertion 第一段：向身份提供方换 SAML 断言
// 这是一个刮取依赖：端点回传 HTML form，不是 JSON API
func (s *B2BAuthService) fetchAssertion(ctx context.Context) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("x-api-key", s.cfg.IdentityAPIKey).
		SetBody(map[string]string{
			"username": s.cfg.Username,
			"password": s.cfg.Password,
		}).
		Post(s.cfg.IdentityURL)
	if err != nil {
		return "", fmt.Errorf("身份端点请求失败: %w", err)
	}

	if !resp.IsSuccess() {
		return "", fmt.Errorf("身份端点回应异常: HTTP %d: %s", resp.StatusCode(), resp.String())
	}

	return parseAssertion(resp.String())
}

// tokenResponse Token 端点的 JSON 回应
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// exchangeToken 第二段：以断言向入口网站换 Bearer Token
func (s *B2BAuthService) exchangeToken(ctx context.Context, assertion string) (string, int, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type": samlBearerGrantType,
			"assertion":  assertion,
		}).
		Post(s.cfg.TokenURL)
	if err != nil {
		return "", 0, fmt.Errorf("Token 端点请求失败: %w", err)
	}

	if !resp.IsSuccess() {
		return "", 0, fmt.Errorf("Token 端点回应异常: HTTP %d: %s", resp.StatusCode(), resp.String())
	}

	var tr tokenResponse
	if err := json.Unmarshal(resp.Body(), &tr); err != nil {
		return "", 0, fmt.Errorf("解析 Token 回应失败: %w", err)
	}
	if tr.AccessToken == "" {
		return "", 0, fmt.Errorf("Token 回应缺少 access_token")
	}

	return tr.AccessToken, tr.ExpiresIn, nil
}
