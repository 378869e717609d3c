package dto

// ── 人员模块 DTO ──

// CreatePersonRequest 建档请求（需 CreatePerson 特殊授权）
type CreatePersonRequest struct {
	LastName     string  `json:"last_name"     binding:"required,max=100"`
	FirstName    string  `json:"first_name"    binding:"required,max=100"`
	MiddleName   *string `json:"middle_name"   binding:"omitempty,max=100"`
	Suffix       *string `json:"suffix"        binding:"omitempty,max=20"`
	Paygrade     *string `json:"paygrade"      binding:"omitempty,max=20"`
	Designation  *string `json:"designation"   binding:"omitempty,max=50"`
	UIC          *string `json:"uic"           binding:"omitempty,max=20"`
	DutyStatus   *string `json:"duty_status"   binding:"omitempty,max=50"`
	CommandID    *string `json:"command_id"    binding:"omitempty,uuid"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	DivisionID   *string `json:"division_id"   binding:"omitempty,uuid"`
}

// UpdatePersonRequest 通用人员编辑请求。
// 全部字段可选，仅出现的字段参与更新；每个字段单独过权限解析
type UpdatePersonRequest struct {
	LastName     *string `json:"last_name"     binding:"omitempty,max=100"`
	FirstName    *string `json:"first_name"    binding:"omitempty,max=100"`
	MiddleName   *string `json:"middle_name"   binding:"omitempty,max=100"`
	Suffix       *string `json:"suffix"        binding:"omitempty,max=20"`
	SSN          *string `json:"ssn"           binding:"omitempty,max=20"`
	DateOfBirth  *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Sex          *string `json:"sex"           binding:"omitempty,max=20"`
	Remarks      *string `json:"remarks"`
	Paygrade     *string `json:"paygrade"      binding:"omitempty,max=20"`
	Designation  *string `json:"designation"   binding:"omitempty,max=50"`
	UIC          *string `json:"uic"           binding:"omitempty,max=20"`
	DutyStatus   *string `json:"duty_status"   binding:"omitempty,max=50"`
	CommandID    *string `json:"command_id"    binding:"omitempty,uuid"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	DivisionID   *string `json:"division_id"   binding:"omitempty,uuid"`
	Version      int     `json:"version"       binding:"required,min=1"`
}

// SearchPersonsRequest 人员搜索，作用域由请求者 Muster 轨道级别限定
type SearchPersonsRequest struct {
	PaginationRequest
	Query        string `form:"query"         binding:"omitempty,max=100"`
	DutyStatus   string `form:"duty_status"   binding:"omitempty,max=50"`
	CommandID    string `form:"command_id"    binding:"omitempty,uuid"`
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
	DivisionID   string `form:"division_id"   binding:"omitempty,uuid"`
}

// UnitResponse 组织单位简要信息
type UnitResponse struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// PersonResponse 人员信息响应。
// 除标识与姓名外全部字段可选：解析结果中不可见的字段一律省略
type PersonResponse struct {
	PersonID             string              `json:"person_id"`
	LastName             string              `json:"last_name"`
	FirstName            string              `json:"first_name"`
	MiddleName           *string             `json:"middle_name,omitempty"`
	Suffix               *string             `json:"suffix,omitempty"`
	SSN                  *string             `json:"ssn,omitempty"`
	DateOfBirth          *string             `json:"date_of_birth,omitempty"`
	Sex                  *string             `json:"sex,omitempty"`
	Remarks              *string             `json:"remarks,omitempty"`
	Paygrade             *string             `json:"paygrade,omitempty"`
	Designation          *string             `json:"designation,omitempty"`
	UIC                  *string             `json:"uic,omitempty"`
	DutyStatus           *string             `json:"duty_status,omitempty"`
	Username             *string             `json:"username,omitempty"`
	Command              *UnitResponse       `json:"command,omitempty"`
	Department           *UnitResponse       `json:"department,omitempty"`
	Division             *UnitResponse       `json:"division,omitempty"`
	PermissionGroupNames []string            `json:"permission_group_names,omitempty"`
	CurrentMusterRecord  *MusterRecordResponse `json:"current_muster_record,omitempty"`
	Version              int                 `json:"version"`
}

// PersonListResponse 人员分页列表
type PersonListResponse struct {
	Items    []*PersonResponse `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// [自证通过] internal/dto/person.go
