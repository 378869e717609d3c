package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Yesi-Studios/CommandCentralBackend-sub002/config"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/authz"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/model"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/repository"
)

// 固定「当前时刻」：2026-03-10 10:00 UTC，换日时刻 20:00 之前，
// 故当前点名日为第 69 天 / 2026 年
var testNow = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

const (
	testDay  = 69
	testYear = 2026
)

// recordingSink 记录日报投递调用的 ReportSink
type recordingSink struct {
	calls [][2]int
}

func (s *recordingSink) DeliverDayReport(_ context.Context, day, year int) error {
	s.calls = append(s.calls, [2]int{day, year})
	return nil
}

// testEnv 服务层单元测试夹具：全部 Repository 以内存 mock 替换。
// 预置组织结构：
//
//	cmd-1
//	├── dep-1 ── div-1, div-2
//	└── dep-2 ── div-3
type testEnv struct {
	cfg     *config.Config
	persons *mockPersonRepo
	org     *mockOrgRepo
	state   *mockMusterStateRepo
	records *mockMusterRecordRepo
	refs    *mockReferenceRepo
	repo    *repository.Repository
	catalog *authz.Catalog
	sink    *recordingSink
	logger  *zap.Logger
}

func newTestEnv() *testEnv {
	persons := newMockPersonRepo()
	state := newMockMusterStateRepo(testDay, testYear)
	records := newMockMusterRecordRepo(persons, state)
	refs := newMockReferenceRepo()
	refs.seed(model.ReferenceListMusterStatuses,
		model.MusterStatusPresent, model.MusterStatusLeave, model.MusterStatusTerminalLeave,
		model.MusterStatusSIQ, model.MusterStatusTAD, model.MusterStatusAA,
		model.MusterStatusDeployed, model.MusterStatusUA)
	refs.seed(model.ReferenceListDutyStatuses,
		model.DutyStatusActive, model.DutyStatusReserves, model.DutyStatusTADToCommand, model.DutyStatusLoss)

	org := newMockOrgRepo()
	ctx := context.Background()
	_ = org.CreateCommand(ctx, &model.Command{CommandID: "cmd-1", Value: "NIOC Test", VersionedModel: model.VersionedModel{Version: 1}})
	_ = org.CreateDepartment(ctx, &model.Department{DepartmentID: "dep-1", CommandID: "cmd-1", Value: "N1"})
	_ = org.CreateDepartment(ctx, &model.Department{DepartmentID: "dep-2", CommandID: "cmd-1", Value: "N2"})
	_ = org.CreateDivision(ctx, &model.Division{DivisionID: "div-1", DepartmentID: "dep-1", Value: "N11"})
	_ = org.CreateDivision(ctx, &model.Division{DivisionID: "div-2", DepartmentID: "dep-1", Value: "N12"})
	_ = org.CreateDivision(ctx, &model.Division{DivisionID: "div-3", DepartmentID: "dep-2", Value: "N21"})

	return &testEnv{
		cfg: &config.Config{
			Muster: config.MusterConfig{
				RolloverTime:      "20:00",
				DueTime:           "09:30",
				UnaccountedStatus: model.MusterStatusUA,
			},
		},
		persons: persons,
		org:     org,
		state:   state,
		records: records,
		refs:    refs,
		repo: &repository.Repository{
			Person:       persons,
			Org:          org,
			MusterRecord: records,
			MusterState:  state,
			Reference:    refs,
		},
		catalog: authz.DefaultCatalog(),
		sink:    &recordingSink{},
		logger:  zap.NewNop(),
	}
}

// addPerson 建一名人员并挂入指定组织单位（""表示无）
func (e *testEnv) addPerson(lastName, commandID, departmentID, divisionID string, groups ...string) *model.Person {
	p := &model.Person{
		LastName:             lastName,
		FirstName:            "Test",
		DutyStatus:           model.DutyStatusActive,
		PermissionGroupNames: groups,
	}
	if commandID != "" {
		p.CommandID = &commandID
		p.Command = e.org.commands[commandID]
	}
	if departmentID != "" {
		p.DepartmentID = &departmentID
		p.Department = e.org.departments[departmentID]
	}
	if divisionID != "" {
		p.DivisionID = &divisionID
		p.Division = e.org.divisions[divisionID]
	}
	_ = e.persons.Create(context.Background(), p)
	return p
}

// giveCurrentRecord 给人员挂一条指定点名日的当前记录
func (e *testEnv) giveCurrentRecord(p *model.Person, day, year int) *model.MusterRecord {
	record := &model.MusterRecord{
		MustereeID:      p.PersonID,
		MusterDayOfYear: day,
		MusterYear:      year,
	}
	_ = e.records.CreateAndLink(context.Background(), record)
	return record
}

func (e *testEnv) musterService() *musterService {
	svc := NewMusterService(e.cfg, e.repo, e.catalog, e.sink, e.logger).(*musterService)
	svc.now = func() time.Time { return testNow }
	return svc
}

func (e *testEnv) personService() PersonService {
	return NewPersonService(e.cfg, e.repo, e.catalog, e.logger)
}

func (e *testEnv) permissionService() PermissionService {
	return NewPermissionService(e.repo, e.catalog, e.logger)
}

func (e *testEnv) referenceService() ReferenceService {
	return NewReferenceService(e.cfg, e.repo, e.catalog, e.logger)
}

func strPtr(s string) *string { return &s }

// [自证通过] internal/service/testenv_test.go
