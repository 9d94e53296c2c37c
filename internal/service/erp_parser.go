package service

import (
	"regexp"
	"strconv"
	"strings"

	"retail_sync_v1_202608/internal/model"
)

// 旧 ERP 没有结构化回传：业务结果全部藏在 HTML 里。
// 这里集中所有的页面特征与栏位解析，维持纯函数，方便用固定 HTML 测试。

// ==================== 登入页特征 ====================

// 回应出现这些特征代表会话已失效、被导回登入页
var erpLoginMarkers = []string{
	`id="loginForm"`,
	"請先登入",
	"重新登入",
}

// isErpLoginPage 判断回应是否为登入页
func isErpLoginPage(html string) bool {
	for _, marker := range erpLoginMarkers {
		if strings.Contains(html, marker) {
			return true
		}
	}
	return false
}

// ==================== 会员查询解析 ====================

// 查询结果页固定输出 "共 N 筆" 的笔数标记
var erpRecordCountPattern = regexp.MustCompile(`共\s*(\d+)\s*筆`)

// extractErpField 取出指定 name 的 input value，取不到回空字符串
// 栏位以 <input name="xxx" ... value="yyy"> 形式回传
func extractErpField(html, name string) string {
	pattern := regexp.MustCompile(`name="` + regexp.QuoteMeta(name) + `"[^>]*\bvalue="([^"]*)"`)
	matches := pattern.FindStringSubmatch(html)
	if len(matches) < 2 {
		return ""
	}
	return matches[1]
}

// parseMemberLookup 解析会员查询页
// 笔数标记缺失或为 0 都视为 "查无会员" (回 nil)，不是错误
func parseMemberLookup(html string) *model.ErpMember {
	matches := erpRecordCountPattern.FindStringSubmatch(html)
	if len(matches) < 2 {
		return nil
	}

	count, err := strconv.Atoi(matches[1])
	if err != nil || count == 0 {
		return nil
	}

	member := &model.ErpMember{
		Name:  extractErpField(html, "memberName"),
		Phone: extractErpField(html, "memberPhone"),
		Level: extractErpField(html, "memberLevel"),
	}
	if points, err := strconv.Atoi(extractErpField(html, "memberPoints")); err == nil {
		member.Points = points
	}

	return member
}

// ==================== 写入结果分类 ====================

// ErpWriteOutcome 写入操作的结果分类
// ERP 的写入端点一律回 HTTP 200，成败只能从页面文字推断。
// 把 "没看到失败字样" 跟 "明确看到成功字样" 区分开，交由调用方决策。
type ErpWriteOutcome int

const (
	// WriteOutcomeUnknown 页面既无成功也无失败特征
	WriteOutcomeUnknown ErpWriteOutcome = iota
	// WriteOutcomeConfirmed 页面出现明确成功特征
	WriteOutcomeConfirmed
	// WriteOutcomeLikelyFailed 页面出现失败/错误特征
	WriteOutcomeLikelyFailed
)

func (o ErpWriteOutcome) String() string {
	switch o {
	case WriteOutcomeConfirmed:
		return "confirmed"
	case WriteOutcomeLikelyFailed:
		return "likely_failed"
	default:
		return "unknown"
	}
}

var (
	erpFailureMarkers = []string{"失敗", "錯誤", "error", "fail"}
	erpSuccessMarkers = []string{"成功", "已建立"}
)

// classifyErpWrite 对写入回应做三态分类，失败特征优先
func classifyErpWrite(html string) ErpWriteOutcome {
	lower := strings.ToLower(html)
	for _, marker := range erpFailureMarkers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return WriteOutcomeLikelyFailed
		}
	}
	for _, marker := range erpSuccessMarkers {
		if strings.Contains(html, marker) {
			return WriteOutcomeConfirmed
		}
	}
	return WriteOutcomeUnknown
}
