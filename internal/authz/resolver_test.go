package authz

import (
	"testing"
)

// ── 解析器测试 ──

func TestResolve_SelfAlwaysGetsIfSelfFields(t *testing.T) {
	catalog := DefaultCatalog()
	// 不持有任何组，仅默认组生效
	p := newPerson("p1", cmd1, dep1, div1)

	r := catalog.Resolve(p, p)

	// IfSelf 字段无条件可见/可编辑，不依赖持有任何组
	for _, field := range []string{"ssn", "date_of_birth", "username"} {
		if !r.CanReturn(EntityPerson, field) {
			t.Errorf("本人解析应可见字段 %s", field)
		}
	}
	for _, field := range []string{"last_name", "first_name", "remarks"} {
		if !r.CanEdit(EntityPerson, field) {
			t.Errorf("本人解析应可编辑字段 %s", field)
		}
	}
}

func TestResolve_StrangerGetsOnlyForEveryoneFields(t *testing.T) {
	catalog := DefaultCatalog()
	requester := newPerson("p1", cmd1, dep1, div1)
	stranger := newPerson("p2", cmd2, dep2, div2)

	r := catalog.Resolve(requester, stranger)

	if !r.CanReturn(EntityPerson, "last_name") {
		t.Error("ForEveryone 字段对任何目标可见")
	}
	if r.CanReturn(EntityPerson, "ssn") {
		t.Error("无关人员的 SSN 不应可见")
	}
	if len(r.EditableFields[EntityPerson]) != 0 {
		t.Errorf("仅持默认组时对他人不应有可编辑字段，实际: %v", r.EditableFields[EntityPerson])
	}
	if len(r.EditableGroups) != 0 {
		t.Errorf("仅持 Self 级别组时可编辑组集应为空，实际: %v", r.EditableGroups)
	}
}

func TestResolve_NilTarget(t *testing.T) {
	catalog := DefaultCatalog()
	p := newPerson("p1", cmd1, dep1, div1, GroupDivisionLeadership)

	r := catalog.Resolve(p, nil)

	// 无目标解析仍须产出完整的轨道级别映射
	if r.HighestLevels[TrackMuster] != LevelDivision {
		t.Errorf("期望 Muster 轨道级别 Division，实际 %s", r.HighestLevels[TrackMuster])
	}
	if r.HighestLevels[TrackMain] != LevelSelf {
		t.Errorf("期望 Main 轨道级别 Self，实际 %s", r.HighestLevels[TrackMain])
	}
	if !r.CanReturn(EntityPerson, "last_name") {
		t.Error("无目标解析应保留 ForEveryone 字段")
	}
	if r.CanReturn(EntityPerson, "ssn") {
		t.Error("无目标解析不应产出依赖目标的字段")
	}
	if len(r.EditableGroups) != 0 {
		t.Error("无目标解析的可编辑组集应为空")
	}
}

func TestResolve_HighestLevelPerTrack(t *testing.T) {
	catalog := DefaultCatalog()
	// 同轨道持 Division 与 Command 两组，取最大值
	p := newPerson("p1", cmd1, dep1, div1, GroupDivisionLeadership, GroupCommandLeadership)

	r := catalog.Resolve(p, nil)

	if r.HighestLevels[TrackMuster] != LevelCommand {
		t.Errorf("期望 Muster 轨道最高级别 Command，实际 %s", r.HighestLevels[TrackMuster])
	}
}

func TestResolve_CommandLevelDominatesDivisionGroup(t *testing.T) {
	catalog := DefaultCatalog()
	requester := newPerson("r", cmd1, dep1, div1, GroupCommandLeadership)
	// 目标仅同指挥部，部门分队均不同
	target := newPerson("t", cmd1, dep2, div2)

	r := catalog.Resolve(requester, target)

	// Command 级别支配 Division 级别的组：仅需同指挥部
	if !r.CanEditGroup(GroupDivisionLeadership) {
		t.Error("Command 级别应可变更同指挥部成员的 Division 级别组")
	}
	if !r.CanEditGroup(GroupDepartmentLeadership) {
		t.Error("Command 级别应可变更同指挥部成员的 Department 级别组")
	}
	if !r.CanEditGroup(GroupCommandLeadership) {
		t.Error("Command 级别应可变更同指挥部成员的 Command 级别组")
	}
}

func TestResolve_DivisionLevelCannotDominateUpward(t *testing.T) {
	catalog := DefaultCatalog()
	requester := newPerson("r", cmd1, dep1, div1, GroupDivisionLeadership)
	target := newPerson("t", cmd1, dep1, div1)

	r := catalog.Resolve(requester, target)

	if r.CanEditGroup(GroupDepartmentLeadership) {
		t.Error("Division 级别不应可变更 Department 级别组")
	}
	if r.CanEditGroup(GroupCommandLeadership) {
		t.Error("Division 级别不应可变更 Command 级别组")
	}
	if !r.CanEditGroup(GroupDivisionLeadership) {
		t.Error("Division 级别应可变更同分队成员的 Division 级别组")
	}
}

func TestResolve_DivisionLevelRequiresSharedDivision(t *testing.T) {
	catalog := DefaultCatalog()
	requester := newPerson("r", cmd1, dep1, div1, GroupDivisionLeadership)
	// 同部门不同分队
	target := newPerson("t", cmd1, dep1, div2)

	r := catalog.Resolve(requester, target)

	if r.CanEditGroup(GroupDivisionLeadership) {
		t.Error("Division 级别对不同分队成员不应有组编辑权")
	}
}

func TestResolve_PrivilegedFieldsInScope(t *testing.T) {
	catalog := DefaultCatalog()
	requester := newPerson("r", cmd1, dep1, div1, GroupDivisionLeadership)
	inDiv := newPerson("t1", cmd1, dep1, div1)
	outDiv := newPerson("t2", cmd1, dep1, div2)

	rIn := catalog.Resolve(requester, inDiv)
	if !rIn.CanReturn(EntityPerson, "ssn") {
		t.Error("分队领导应可见本分队成员的敏感字段")
	}

	rOut := catalog.Resolve(requester, outDiv)
	if rOut.CanReturn(EntityPerson, "ssn") {
		t.Error("分队领导不应可见外分队成员的敏感字段")
	}
}

func TestResolve_EditableSubsetOfReturnable(t *testing.T) {
	catalog := DefaultCatalog()
	requester := newPerson("r", cmd1, dep1, div1, GroupDepartmentLeadership, GroupAdmin)
	target := newPerson("t", cmd1, dep1, div2)

	r := catalog.Resolve(requester, target)

	for entity, fields := range r.EditableFields {
		for field := range fields {
			if !r.CanReturn(entity, field) {
				t.Errorf("可编辑字段 %s.%s 必须同时可见", entity, field)
			}
		}
	}
}

func TestResolve_SpecialGrants(t *testing.T) {
	catalog := DefaultCatalog()
	admin := newPerson("a", cmd1, dep1, div1, GroupAdmin)
	user := newPerson("u", cmd1, dep1, div1)

	rAdmin := catalog.Resolve(admin, nil)
	if !rAdmin.HasSpecial(SpecialCreatePerson) {
		t.Error("管理员应持有 CreatePerson 授权")
	}
	if !rAdmin.HasSpecial(SpecialEditReferenceLists) {
		t.Error("管理员应持有 EditReferenceLists 授权")
	}

	rUser := catalog.Resolve(user, nil)
	if rUser.HasSpecial(SpecialAdminTools) {
		t.Error("普通用户不应持有 AdminTools 授权")
	}
}

func TestResolve_UnknownHeldGroupIgnored(t *testing.T) {
	catalog := DefaultCatalog()
	p := newPerson("p", cmd1, dep1, div1, "RetiredGroup", GroupDivisionLeadership)

	r := catalog.Resolve(p, nil)

	if r.HighestLevels[TrackMuster] != LevelDivision {
		t.Error("未知组名应静默忽略且不影响其余组")
	}
	for _, name := range r.GroupNames {
		if name == "RetiredGroup" {
			t.Error("未知组名不应出现在生效组中")
		}
	}
}

// ── CanMuster 测试 ──

func TestCanMuster_SelfByDefault(t *testing.T) {
	catalog := DefaultCatalog()
	p := newPerson("p", cmd1, dep1, div1)

	r := catalog.Resolve(p, p)
	if !r.CanMuster(p, p) {
		t.Error("默认组应授予本人点名资格")
	}
}

func TestCanMuster_DivisionScope(t *testing.T) {
	catalog := DefaultCatalog()
	leader := newPerson("l", cmd1, dep1, div1, GroupDivisionLeadership)
	inDiv := newPerson("a", cmd1, dep1, div1)
	outDiv := newPerson("b", cmd1, dep1, div2)

	r := catalog.Resolve(leader, nil)
	if !r.CanMuster(leader, inDiv) {
		t.Error("分队领导应可为本分队成员点名")
	}
	if r.CanMuster(leader, outDiv) {
		t.Error("分队领导不应可为外分队成员点名")
	}
}

func TestCanMuster_CommandScope(t *testing.T) {
	catalog := DefaultCatalog()
	leader := newPerson("l", cmd1, dep1, div1, GroupCommandLeadership)
	anyone := newPerson("a", cmd1, dep2, div2)
	outsider := newPerson("o", cmd2, dep1, div1)

	r := catalog.Resolve(leader, nil)
	if !r.CanMuster(leader, anyone) {
		t.Error("指挥部领导应可为全指挥部成员点名")
	}
	if r.CanMuster(leader, outsider) {
		t.Error("指挥部领导不应可为其他指挥部成员点名")
	}
}

// ── 目录校验测试 ──

func TestNewCatalog_RejectsDuplicateName(t *testing.T) {
	_, err := NewCatalog(
		&Group{Name: "G", Track: TrackMain, Level: LevelSelf},
		&Group{Name: "G", Track: TrackMuster, Level: LevelSelf},
	)
	if err == nil {
		t.Error("重复组名应被拒绝")
	}
}

func TestNewCatalog_RejectsEditableButNotReturnable(t *testing.T) {
	_, err := NewCatalog(&Group{
		Name:  "Bad",
		Track: TrackMain,
		Level: LevelSelf,
		Fields: map[string]map[string]FieldRule{
			EntityPerson: {
				"remarks": {Return: Never(), Edit: IfSelf()},
			},
		},
	})
	if err == nil {
		t.Error("可编辑但不可见的字段规则应被拒绝")
	}
}

func TestDefaultCatalog_Valid(t *testing.T) {
	c := DefaultCatalog()
	if len(c.All()) != 6 {
		t.Errorf("期望 6 个内置组，实际 %d", len(c.All()))
	}
	defaults := 0
	for _, g := range c.All() {
		if g.IsDefault {
			defaults++
		}
	}
	if defaults != 2 {
		t.Errorf("期望 2 个默认组，实际 %d", defaults)
	}
}

// [自证通过] internal/authz/resolver_test.go
