package model

// ==================== ErpMember 会员查询结果 (不落库) ====================

// ErpMember 从旧 ERP 会员查询页面解析出的会员资料
// ERP 是会员资料的唯一来源，本系统不落库，仅透传给前台
type ErpMember struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Level  string `json:"level"`
	Points int    `json:"points"`
}
