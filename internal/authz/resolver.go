package authz

import (
	"sort"
	"time"

	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/model"
)

// ResolvedPermissions 单次解析的结果，仅在请求生命周期内有效，从不持久化
type ResolvedPermissions struct {
	RequesterID  string
	TargetID     string // 无特定目标时为空
	TimeResolved time.Time

	// GroupNames 参与解析的生效组名
	GroupNames []string

	// ReturnableFields / EditableFields 实体 → 可见/可编辑字段集合
	ReturnableFields map[string]map[string]bool
	EditableFields   map[string]map[string]bool

	// PrivilegedReturnableFields 因目标落在请求者作用域内而额外可见的字段
	PrivilegedReturnableFields map[string]map[string]bool

	// LockedFields 实体 → 禁止经通用编辑接口写入的字段
	LockedFields map[string]map[string]bool

	// EditableGroups 请求者可在目标身上授予/撤销的组名
	EditableGroups []string

	// HighestLevels 轨道 → 请求者在该轨道的最高访问级别
	HighestLevels map[string]Level

	// InChainOfCommand 轨道 → 目标是否落在请求者该轨道最高级别的作用域内
	InChainOfCommand map[string]bool

	// SpecialGrants 生效组授予的全部特殊权限
	SpecialGrants []string
}

// CanReturn 指定实体字段对请求者是否可见
func (r *ResolvedPermissions) CanReturn(entity, field string) bool {
	return r.ReturnableFields[entity][field] || r.PrivilegedReturnableFields[entity][field]
}

// CanEdit 指定实体字段对请求者是否可编辑
func (r *ResolvedPermissions) CanEdit(entity, field string) bool {
	return r.EditableFields[entity][field]
}

// IsLockedForBulkEdit 指定字段是否禁止经通用编辑接口写入
func (r *ResolvedPermissions) IsLockedForBulkEdit(entity, field string) bool {
	return r.LockedFields[entity][field]
}

// HasSpecial 请求者是否持有指定特殊授权
func (r *ResolvedPermissions) HasSpecial(name string) bool {
	for _, grant := range r.SpecialGrants {
		if grant == name {
			return true
		}
	}
	return false
}

// CanEditGroup 请求者是否可在目标身上变更指定组的成员资格
func (r *ResolvedPermissions) CanEditGroup(name string) bool {
	for _, g := range r.EditableGroups {
		if g == name {
			return true
		}
	}
	return false
}

// LevelIn 请求者在指定轨道的最高级别
func (r *ResolvedPermissions) LevelIn(track string) Level {
	return r.HighestLevels[track]
}

// Resolve 组合请求者的生效组与可选目标，计算完整的解析结果。
// target 为 nil 表示无特定目标：仅产出轨道级别映射与 ForEveryone 字段
func (c *Catalog) Resolve(requester, target *model.Person) *ResolvedPermissions {
	effective := c.EffectiveGroups(requester.PermissionGroupNames)

	r := &ResolvedPermissions{
		RequesterID:                requester.PersonID,
		TimeResolved:               time.Now(),
		ReturnableFields:           make(map[string]map[string]bool),
		EditableFields:             make(map[string]map[string]bool),
		PrivilegedReturnableFields: make(map[string]map[string]bool),
		LockedFields:               make(map[string]map[string]bool),
		HighestLevels:              make(map[string]Level),
		InChainOfCommand:           make(map[string]bool),
	}
	if target != nil {
		r.TargetID = target.PersonID
	}

	grantSeen := make(map[string]bool)
	for _, g := range effective {
		r.GroupNames = append(r.GroupNames, g.Name)

		// 轨道最高级别取各组级别的最大值
		if g.Level > r.HighestLevels[g.Track] {
			r.HighestLevels[g.Track] = g.Level
		}

		for _, grant := range g.SpecialGrants {
			if !grantSeen[grant] {
				grantSeen[grant] = true
				r.SpecialGrants = append(r.SpecialGrants, grant)
			}
		}

		ctx := &evalContext{requester: requester, target: target, group: g, effective: effective}
		for entity, fields := range g.Fields {
			for field, rule := range fields {
				if rule.Return.eval(ctx) {
					setField(r.ReturnableFields, entity, field)
				}
				if rule.Edit.eval(ctx) {
					setField(r.EditableFields, entity, field)
				}
				if rule.LockedForBulkEdit {
					setField(r.LockedFields, entity, field)
				}
			}
		}

		// 特权可见字段：目标落在该组级别作用域内时生效
		if target != nil && inChainOfCommandAt(g.Level, requester, target) {
			for entity, fields := range g.PrivilegedFields {
				for _, field := range fields {
					setField(r.PrivilegedReturnableFields, entity, field)
				}
			}
		}
	}

	// 可编辑集恒为可见集的子集（目录校验之外的运行时兜底）
	for entity, fields := range r.EditableFields {
		for field := range fields {
			if !r.CanReturn(entity, field) {
				delete(fields, field)
			}
		}
	}

	// 目标是否落在各轨道最高级别的作用域内；同一身份按惯例记 false
	for track, level := range r.HighestLevels {
		if target == nil || sameIdentity(requester, target) {
			r.InChainOfCommand[track] = false
			continue
		}
		r.InChainOfCommand[track] = inChainOfCommandAt(level, requester, target)
	}

	r.EditableGroups = c.editableGroups(r, requester, target)
	sort.Strings(r.EditableGroups)
	return r
}

// editableGroups 严格层级支配检查：请求者在组 G 所属轨道的最高级别
// 支配 G 自身级别、且与目标满足请求者最高级别要求的同单位关系时，
// 方可变更目标的 G 成员资格。作用域更宽者恒可做作用域更窄者能做的事
func (c *Catalog) editableGroups(r *ResolvedPermissions, requester, target *model.Person) []string {
	if target == nil {
		return nil
	}
	var editable []string
	for _, g := range c.ordered {
		highest := r.HighestLevels[g.Track]
		switch g.Level {
		case LevelNone:
			// 系统管理的默认组，任何人不得变更
			continue
		case LevelSelf:
			if !sameIdentity(requester, target) {
				continue
			}
		default:
			if highest < g.Level {
				continue
			}
			if !inChainOfCommandAt(highest, requester, target) {
				continue
			}
		}
		editable = append(editable, g.Name)
	}
	return editable
}

// CanMuster 请求者是否可为目标提交点名：本人需 Muster 轨道 Self 级别以上，
// 他人需目标落在请求者 Muster 轨道最高级别的作用域内
func (r *ResolvedPermissions) CanMuster(requester, target *model.Person) bool {
	level := r.HighestLevels[TrackMuster]
	if sameIdentity(requester, target) {
		return level >= LevelSelf
	}
	switch level {
	case LevelCommand:
		return SameCommand(requester, target)
	case LevelDepartment:
		return SameDepartment(requester, target)
	case LevelDivision:
		return SameDivision(requester, target)
	default:
		return false
	}
}

func setField(m map[string]map[string]bool, entity, field string) {
	if m[entity] == nil {
		m[entity] = make(map[string]bool)
	}
	m[entity][field] = true
}

// [自证通过] internal/authz/resolver.go
