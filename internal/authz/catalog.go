package authz

// ── 内置权限组目录 ──
// 静态规则表，启动时装载一次。字段名与 Person 模型的 json 标签一致

// 特殊授权名称
const (
	SpecialCreatePerson       = "CreatePerson"
	SpecialAdminTools         = "AdminTools"
	SpecialEditReferenceLists = "EditReferenceLists"
	SpecialTriggerMuster      = "TriggerMuster"
)

// 内置权限组名称
const (
	GroupUsers                = "Users"
	GroupMusterSelf           = "MusterSelf"
	GroupDivisionLeadership   = "DivisionLeadership"
	GroupDepartmentLeadership = "DepartmentLeadership"
	GroupCommandLeadership    = "CommandLeadership"
	GroupAdmin                = "Admin"
)

// personBasicFields 所有人可见的基础字段
var personBasicFields = []string{
	"person_id", "last_name", "first_name", "middle_name", "suffix",
	"remarks", "paygrade", "designation", "command", "department", "division",
}

// personSensitiveFields 仅本人或指挥链上级可见的字段
var personSensitiveFields = []string{
	"ssn", "date_of_birth", "sex", "uic", "duty_status",
	"username", "permission_group_names", "current_muster_record",
}

// personLeadershipEditFields 指挥链上级可编辑的字段
var personLeadershipEditFields = []string{
	"last_name", "first_name", "middle_name", "suffix",
	"remarks", "paygrade", "designation", "uic",
	"division", "department",
}

// DefaultCatalog 构建内置目录。规则表非法时 panic（启动期一次性检查）
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(
		usersGroup(),
		musterSelfGroup(),
		divisionLeadershipGroup(),
		departmentLeadershipGroup(),
		commandLeadershipGroup(),
		adminGroup(),
	)
	if err != nil {
		panic("内置权限组目录非法: " + err.Error())
	}
	return c
}

// usersGroup 默认组：所有人持有，授予基础可见性与本人信息编辑
func usersGroup() *Group {
	fields := map[string]FieldRule{}
	for _, f := range personBasicFields {
		fields[f] = FieldRule{Return: ForEveryone(), Edit: Never()}
	}
	for _, f := range personSensitiveFields {
		fields[f] = FieldRule{Return: IfSelf(), Edit: Never()}
	}
	// 本人可改的身份信息
	for _, f := range []string{"last_name", "first_name", "middle_name", "suffix", "remarks"} {
		rule := fields[f]
		rule.Edit = IfSelf()
		fields[f] = rule
	}
	// 账号与组成员走专用流程，通用编辑接口锁定
	for _, f := range []string{"username", "permission_group_names", "current_muster_record"} {
		rule := fields[f]
		rule.LockedForBulkEdit = true
		fields[f] = rule
	}
	return &Group{
		Name:      GroupUsers,
		Track:     TrackMain,
		Level:     LevelSelf,
		IsDefault: true,
		Fields: map[string]map[string]FieldRule{
			EntityPerson:     fields,
			EntityCommand:    orgUnitFields(),
			EntityDepartment: orgUnitFields(),
			EntityDivision:   orgUnitFields(),
		},
	}
}

// musterSelfGroup 默认组：授予本人点名资格（Muster 轨道 Self 级别）
func musterSelfGroup() *Group {
	return &Group{
		Name:      GroupMusterSelf,
		Track:     TrackMuster,
		Level:     LevelSelf,
		IsDefault: true,
	}
}

// divisionLeadershipGroup 分队领导：点名与人员管理作用域限于本分队
func divisionLeadershipGroup() *Group {
	return leadershipGroup(GroupDivisionLeadership, LevelDivision)
}

// departmentLeadershipGroup 部门领导
func departmentLeadershipGroup() *Group {
	return leadershipGroup(GroupDepartmentLeadership, LevelDepartment)
}

// commandLeadershipGroup 指挥部领导
func commandLeadershipGroup() *Group {
	g := leadershipGroup(GroupCommandLeadership, LevelCommand)
	g.SpecialGrants = []string{SpecialTriggerMuster}
	return g
}

// leadershipGroup 三级领导组的公共结构：Muster 轨道，
// 作用域内成员的敏感字段可见、基础信息可编辑
func leadershipGroup(name string, level Level) *Group {
	fields := map[string]FieldRule{}
	for _, f := range personLeadershipEditFields {
		fields[f] = FieldRule{Return: IfInChainOfCommand(), Edit: IfInChainOfCommand()}
	}
	fields["duty_status"] = FieldRule{Return: IfInChainOfCommand(), Edit: IfInChainOfCommand()}
	return &Group{
		Name:  name,
		Track: TrackMuster,
		Level: level,
		Fields: map[string]map[string]FieldRule{
			EntityPerson: fields,
		},
		PrivilegedFields: map[string][]string{
			EntityPerson: append([]string{}, personSensitiveFields...),
		},
	}
}

// adminGroup 管理员：Admin 轨道 Command 级别，持有全部特殊授权
func adminGroup() *Group {
	fields := map[string]FieldRule{}
	for _, f := range personLeadershipEditFields {
		fields[f] = FieldRule{Return: IfInChainOfCommand(), Edit: IfInChainOfCommand()}
	}
	fields["duty_status"] = FieldRule{Return: IfInChainOfCommand(), Edit: IfInChainOfCommand()}
	// SSN 属专用身份核验流程，即便管理员也不得经通用编辑接口改写
	fields["ssn"] = FieldRule{
		Return:            IfInChainOfCommand(),
		Edit:              IfInChainOfCommand(),
		LockedForBulkEdit: true,
	}
	fields["command"] = FieldRule{Return: ForEveryone(), Edit: IfInChainOfCommand()}
	return &Group{
		Name:  GroupAdmin,
		Track: TrackAdmin,
		Level: LevelCommand,
		Fields: map[string]map[string]FieldRule{
			EntityPerson:     fields,
			EntityCommand:    orgUnitAdminFields(),
			EntityDepartment: orgUnitAdminFields(),
			EntityDivision:   orgUnitAdminFields(),
		},
		PrivilegedFields: map[string][]string{
			EntityPerson: append([]string{}, personSensitiveFields...),
		},
		SpecialGrants: []string{
			SpecialCreatePerson,
			SpecialAdminTools,
			SpecialEditReferenceLists,
			SpecialTriggerMuster,
		},
	}
}

// orgUnitFields 组织单位对所有人只读
func orgUnitFields() map[string]FieldRule {
	return map[string]FieldRule{
		"value":       {Return: ForEveryone(), Edit: Never()},
		"description": {Return: ForEveryone(), Edit: Never()},
	}
}

// orgUnitAdminFields 组织单位仅持有 AdminTools 授权者可编辑
func orgUnitAdminFields() map[string]FieldRule {
	return map[string]FieldRule{
		"value":       {Return: ForEveryone(), Edit: IfHasSpecialPermission(SpecialAdminTools)},
		"description": {Return: ForEveryone(), Edit: IfHasSpecialPermission(SpecialAdminTools)},
	}
}

// [自证通过] internal/authz/catalog.go
