package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"retail_sync_v1_202608/internal/config"
	"retail_sync_v1_202608/internal/model"
	"retail_sync_v1_202608/pkg/metrics"

	"golang.org/x/text/encoding/traditionalchinese"
)

// ==================== 常量与错误 ====================

// ERP 固定端点路径
const (
	erpLoginPath       = "/login.aspx"
	erpMemberQueryPath = "/member/query.aspx"
	erpRepairPath      = "/repair/create.aspx"
)

var (
	// ErrErpNotConfigured 帐密未设定，所有 ERP 操作直接拒绝
	ErrErpNotConfigured = errors.New("ERP 帐密未配置")
	// ErrErpUnavailable 登入后既无 Set-Cookie 也无转址，视为 ERP 不可用
	ErrErpUnavailable = errors.New("ERP 登入失败：未取得会话")
	// ErrErpSessionRejected 回应出现登入页特征，当前请求失败且会话已清除
	ErrErpSessionRejected = errors.New("ERP 会话已失效")
)

// ERP 的营业时区固定为 UTC+8，单号生成不跟随主机时区
var erpTimezone = time.FixedZone("Asia/Taipei", 8*60*60)

// ==================== ErpService ====================

// ErpService 旧 ERP 会话管理
// 全进程共用一份 Cookie 会话，锁内续期让并发冷启动只打一次登入
type ErpService struct {
	cfg        config.ErpConfig
	httpClient *http.Client

	mu         sync.Mutex
	cookie     string
	acquiredAt time.Time

	nowFn func() time.Time
}

// NewErpService 创建 ERP 服务
func NewErpService(cfg config.ErpConfig) *ErpService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}

	return &ErpService{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// 登入成功以 302 表达，不能让 client 自动跟随
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		nowFn: time.Now,
	}
}

// ==================== 会话管理 ====================

// EnsureAuthenticated 取得一个有效会话 Cookie，逾期自动重新登入
func (s *ErpService) EnsureAuthenticated(ctx context.Context) (string, error) {
	if s.cfg.Username == "" || s.cfg.Password == "" {
		return "", ErrErpNotConfigured
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cookie != "" && s.nowFn().Sub(s.acquiredAt) < s.cfg.SessionTTL {
		return s.cookie, nil
	}

	return s.loginLocked(ctx)
}

// loginLocked 执行登入，调用方必须持有 s.mu
func (s *ErpService) loginLocked(ctx context.Context) (string, error) {
	metrics.ErpLogins.Inc()

	form := url.Values{}
	form.Set("account", s.cfg.Username)
	form.Set("password", s.cfg.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.cfg.BaseURL+erpLoginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ERP 登入请求失败: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	cookie := joinCookies(resp.Cookies())
	redirected := resp.StatusCode == http.StatusMovedPermanently ||
		resp.StatusCode == http.StatusFound ||
		resp.StatusCode == http.StatusSeeOther

	// 既无 Cookie 也无转址：登入没有成立，不自动重试
	if cookie == "" && !redirected {
		return "", ErrErpUnavailable
	}

	if cookie != "" {
		s.cookie = cookie
	}
	s.acquiredAt = s.nowFn()

	log.Printf("[ERP] 登入成功，会话已更新")
	return s.cookie, nil
}

// invalidateSession 清除快取会话，下一个调用会触发重新登入
func (s *ErpService) invalidateSession() {
	s.mu.Lock()
	s.cookie = ""
	s.acquiredAt = time.Time{}
	s.mu.Unlock()
}

// joinCookies 把 Set-Cookie 组合成请求用的 Cookie 头
func joinCookies(cookies []*http.Cookie) string {
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

// ==================== 通用调用 ====================

// Call 以快取会话对 ERP 端点发出表单 POST，回传解码后的 HTML
// 侦测到登入页特征或 401/403 时清除会话并回报失败，当前请求不重试
func (s *ErpService) Call(ctx context.Context, endpoint string, form url.Values) (string, error) {
	cookie, err := s.EnsureAuthenticated(ctx)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.cfg.BaseURL+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cookie", cookie)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ERP 请求失败 [%s]: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取 ERP 回应失败: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		s.invalidateSession()
		return "", ErrErpSessionRejected
	}

	html := decodeErpBody(body, resp.Header.Get("Content-Type"))

	if isErpLoginPage(html) {
		s.invalidateSession()
		return "", ErrErpSessionRejected
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("ERP 回应异常 [%s]: HTTP %d", endpoint, resp.StatusCode)
	}

	return html, nil
}

// decodeErpBody 旧 ERP 部分页面仍输出 Big5，按 Content-Type 转成 UTF-8
func decodeErpBody(body []byte, contentType string) string {
	if strings.Contains(strings.ToLower(contentType), "big5") {
		if decoded, err := traditionalchinese.Big5.NewDecoder().Bytes(body); err == nil {
			return string(decoded)
		}
	}
	return string(body)
}

// ==================== 业务操作 ====================

// LookupMember 依电话查询会员，查无会员回 (nil, nil)
func (s *ErpService) LookupMember(ctx context.Context, phone string) (*model.ErpMember, error) {
	form := url.Values{}
	form.Set("phone", phone)

	html, err := s.Call(ctx, erpMemberQueryPath, form)
	if err != nil {
		return nil, err
	}

	return parseMemberLookup(html), nil
}

// RepairOrderRequest 维修单建立请求
type RepairOrderRequest struct {
	StoreCode   string  `json:"store_code" binding:"required"`
	MemberPhone string  `json:"member_phone"`
	ProductName string  `json:"product_name" binding:"required"`
	IssueDesc   string  `json:"issue_desc"`
	Amount      float64 `json:"amount"`
}

// CreateRepairOrder 在 ERP 建立维修单
// 单号为 门市代码 + 营业时区的 YYYYMMDDHHMMSS
// ERP 没有结构化成功回传，结果以三态 ErpWriteOutcome 表达
func (s *ErpService) CreateRepairOrder(ctx context.Context, req *RepairOrderRequest) (string, ErpWriteOutcome, error) {
	orderNo := req.StoreCode + s.nowFn().In(erpTimezone).Format("20060102150405")

	form := url.Values{}
	form.Set("orderNo", orderNo)
	form.Set("storeCode", req.StoreCode)
	form.Set("memberPhone", req.MemberPhone)
	form.Set("productName", req.ProductName)
	form.Set("issueDesc", req.IssueDesc)
	form.Set("amount", fmt.Sprintf("%.0f", req.Amount))

	html, err := s.Call(ctx, erpRepairPath, form)
	if err != nil {
		return "", WriteOutcomeUnknown, err
	}

	outcome := classifyErpWrite(html)
	if outcome == WriteOutcomeLikelyFailed {
		log.Printf("[ERP] 维修单 %s 建立回应带有失败特征，需人工确认", orderNo)
	}

	return orderNo, outcome, nil
}
