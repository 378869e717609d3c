package model

// ── 参考列表名称 ──

const (
	ReferenceListMusterStatuses = "muster_statuses"
	ReferenceListDutyStatuses   = "duty_statuses"
)

// ReferenceItem 参考列表项 — 对应 reference_items
// 维护点名状态、在役状态等受控取值
type ReferenceItem struct {
	ReferenceItemID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"reference_item_id"`
	ListName        string  `gorm:"type:varchar(50);not null"                      json:"list_name"`
	Value           string  `gorm:"type:varchar(100);not null"                     json:"value"`
	Description     *string `gorm:"type:text"                                      json:"description,omitempty"`
	SortOrder       int     `gorm:"not null;default:0"                             json:"sort_order"`
	BaseModel
}

// TableName 指定表名
func (ReferenceItem) TableName() string { return "reference_items" }

// [自证通过] internal/model/reference.go
