package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==================== 登入页特征 ====================

func TestIsErpLoginPage(t *testing.T) {
	tests := []struct {
		name string
		html string
		want bool
	}{
		{
			name: "带 loginForm 的登入页",
			html: `<html><body><form id="loginForm" action="/login.aspx"></form></body></html>`,
			want: true,
		},
		{
			name: "提示請先登入",
			html: `<html><body><p>請先登入系統</p></body></html>`,
			want: true,
		},
		{
			name: "正常业务页面",
			html: `<html><body><table><tr><td>查詢結果</td></tr></table></body></html>`,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isErpLoginPage(tt.html))
		})
	}
}

// ==================== 会员查询解析 ====================

func TestParseMemberLookup(t *testing.T) {
	html := `<html><body>
		<span>查詢結果：共 1 筆</span>
		<input name="memberName" type="text" value="王小明">
		<input name="memberPhone" type="text" value="0912345678">
		<input name="memberLevel" type="text" value="VIP">
		<input name="memberPoints" type="text" value="2350">
	</body></html>`

	member := parseMemberLookup(html)
	assert.NotNil(t, member)
	assert.Equal(t, "王小明", member.Name)
	assert.Equal(t, "0912345678", member.Phone)
	assert.Equal(t, "VIP", member.Level)
	assert.Equal(t, 2350, member.Points)
}

func TestParseMemberLookup_NotFound(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{
			name: "笔数为零",
			html: `<html><body><span>查詢結果：共 0 筆</span></body></html>`,
		},
		{
			name: "缺少笔数标记",
			html: `<html><body><span>系統維護中</span></body></html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, parseMemberLookup(tt.html))
		})
	}
}

func TestExtractErpField(t *testing.T) {
	html := `<input name="memberName" class="f" value="張三"><input name="empty" value="">`

	assert.Equal(t, "張三", extractErpField(html, "memberName"))
	assert.Equal(t, "", extractErpField(html, "empty"))
	assert.Equal(t, "", extractErpField(html, "missing"))
}

// ==================== 写入结果分类 ====================

func TestClassifyErpWrite(t *testing.T) {
	tests := []struct {
		name string
		html string
		want ErpWriteOutcome
	}{
		{
			name: "明确成功",
			html: `<body>維修單已建立</body>`,
			want: WriteOutcomeConfirmed,
		},
		{
			name: "明确失败",
			html: `<body>建立失敗，請重試</body>`,
			want: WriteOutcomeLikelyFailed,
		},
		{
			name: "英文错误字样",
			html: `<body>Internal Error occurred</body>`,
			want: WriteOutcomeLikelyFailed,
		},
		{
			name: "同时出现时失败优先",
			html: `<body>處理成功？不，發生錯誤</body>`,
			want: WriteOutcomeLikelyFailed,
		},
		{
			name: "既无成功也无失败特征",
			html: `<body>處理完畢</body>`,
			want: WriteOutcomeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyErpWrite(tt.html))
		})
	}
}

func TestErpWriteOutcomeString(t *testing.T) {
	assert.Equal(t, "confirmed", WriteOutcomeConfirmed.String())
	assert.Equal(t, "likely_failed", WriteOutcomeLikelyFailed.String())
	assert.Equal(t, "unknown", WriteOutcomeUnknown.String())
}

// ==================== SAML 断言解析 ====================

func TestParseAssertion(t *testing.T) {
	html := `<html><body onload="document.forms[0].submit()">
		<form method="post" action="https://portal.example.com/saml/acs">
			<input type="hidden" name="SAMLResponse" value="PHNhbWxwOlJlc3BvbnNlPg==">
		</form>
	</body></html>`

	assertion, err := parseAssertion(html)
	assert.NoError(t, err)
	assert.Equal(t, "PHNhbWxwOlJlc3BvbnNlPg==", assertion)
}

func TestParseAssertion_Missing(t *testing.T) {
	_, err := parseAssertion(`<html><body>Access Denied</body></html>`)
	assert.ErrorIs(t, err, ErrAssertionNotFound)
}
