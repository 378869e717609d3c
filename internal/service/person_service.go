package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Yesi-Studios/CommandCentralBackend-sub002/config"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/authz"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/dto"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/model"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/muster"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/repository"
	pkgerrors "github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/errors"
)

var ErrUnitNotFound = errors.New("组织单位不存在")

// PersonService 人员业务接口
type PersonService interface {
	Get(ctx context.Context, requesterID, personID string) (*dto.PersonResponse, error)
	Create(ctx context.Context, requesterID string, req *dto.CreatePersonRequest) (*dto.PersonResponse, error)
	Update(ctx context.Context, requesterID, personID string, req *dto.UpdatePersonRequest) (*dto.PersonResponse, error)
	Search(ctx context.Context, requesterID string, req *dto.SearchPersonsRequest) (*dto.PersonListResponse, error)
}

type personService struct {
	cfg     *config.Config
	repo    *repository.Repository
	catalog *authz.Catalog
	logger  *zap.Logger
}

// NewPersonService 创建 PersonService 实例
func NewPersonService(cfg *config.Config, repo *repository.Repository, catalog *authz.Catalog, logger *zap.Logger) PersonService {
	return &personService{cfg: cfg, repo: repo, catalog: catalog, logger: logger}
}

func (s *personService) Get(ctx context.Context, requesterID, personID string) (*dto.PersonResponse, error) {
	requester, err := s.repo.Person.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	target := requester
	if personID != requesterID {
		target, err = s.repo.Person.GetByID(ctx, personID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPersonNotFound
			}
			return nil, err
		}
	}

	resolved := s.catalog.Resolve(requester, target)
	return buildPersonResponse(target, resolved), nil
}

func (s *personService) Create(ctx context.Context, requesterID string, req *dto.CreatePersonRequest) (*dto.PersonResponse, error) {
	requester, err := s.repo.Person.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	resolved := s.catalog.Resolve(requester, nil)
	if !resolved.HasSpecial(authz.SpecialCreatePerson) {
		return nil, pkgerrors.New(pkgerrors.KindAuthorization, "无建档权限")
	}

	person := &model.Person{
		LastName:    req.LastName,
		FirstName:   req.FirstName,
		MiddleName:  req.MiddleName,
		Suffix:      req.Suffix,
		Paygrade:    req.Paygrade,
		Designation: req.Designation,
		UIC:         req.UIC,
		DutyStatus:  model.DutyStatusActive,
	}
	if req.DutyStatus != nil {
		if err := s.validateDutyStatus(ctx, *req.DutyStatus); err != nil {
			return nil, err
		}
		person.DutyStatus = *req.DutyStatus
	}
	if details := s.applyUnits(ctx, person, req.CommandID, req.DepartmentID, req.DivisionID); len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.KindValidation, "组织归属非法").WithDetails(details...)
	}

	if err := s.repo.Person.Create(ctx, person); err != nil {
		s.logger.Error("建档失败", zap.Error(err))
		return nil, err
	}

	// 新档案立即获得当日的空白点名记录
	day, year := s.currentMusterDay(ctx)
	record := &model.MusterRecord{
		MustereeID:      person.PersonID,
		MusterDayOfYear: day,
		MusterYear:      year,
	}
	if err := s.repo.MusterRecord.CreateAndLink(ctx, record); err != nil {
		s.logger.Error("创建初始点名记录失败", zap.String("person_id", person.PersonID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("人员已建档",
		zap.String("person_id", person.PersonID),
		zap.String("created_by", requesterID),
	)

	created, err := s.repo.Person.GetByID(ctx, person.PersonID)
	if err != nil {
		return nil, err
	}
	return buildPersonResponse(created, s.catalog.Resolve(requester, created)), nil
}

func (s *personService) Update(ctx context.Context, requesterID, personID string, req *dto.UpdatePersonRequest) (*dto.PersonResponse, error) {
	requester, err := s.repo.Person.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	target := requester
	if personID != requesterID {
		target, err = s.repo.Person.GetByID(ctx, personID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPersonNotFound
			}
			return nil, err
		}
	}

	resolved := s.catalog.Resolve(requester, target)

	// 1. 逐字段权限检查，全部违规项一次性报告
	var denied []string
	check := func(field string, present bool) bool {
		if !present {
			return false
		}
		if resolved.IsLockedForBulkEdit(authz.EntityPerson, field) {
			denied = append(denied, fmt.Sprintf("%s: 仅允许专用流程修改", field))
			return false
		}
		if !resolved.CanEdit(authz.EntityPerson, field) {
			denied = append(denied, fmt.Sprintf("%s: 无编辑权限", field))
			return false
		}
		return true
	}

	var validation []string
	if check("last_name", req.LastName != nil) {
		target.LastName = *req.LastName
	}
	if check("first_name", req.FirstName != nil) {
		target.FirstName = *req.FirstName
	}
	if check("middle_name", req.MiddleName != nil) {
		target.MiddleName = req.MiddleName
	}
	if check("suffix", req.Suffix != nil) {
		target.Suffix = req.Suffix
	}
	if check("ssn", req.SSN != nil) {
		target.SSN = req.SSN
	}
	if check("date_of_birth", req.DateOfBirth != nil) {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			validation = append(validation, "date_of_birth: 日期格式非法")
		} else {
			target.DateOfBirth = &dob
		}
	}
	if check("sex", req.Sex != nil) {
		target.Sex = req.Sex
	}
	if check("remarks", req.Remarks != nil) {
		target.Remarks = req.Remarks
	}
	if check("paygrade", req.Paygrade != nil) {
		target.Paygrade = req.Paygrade
	}
	if check("designation", req.Designation != nil) {
		target.Designation = req.Designation
	}
	if check("uic", req.UIC != nil) {
		target.UIC = req.UIC
	}
	if check("duty_status", req.DutyStatus != nil) {
		if err := s.validateDutyStatus(ctx, *req.DutyStatus); err != nil {
			validation = append(validation, fmt.Sprintf("duty_status: 未知状态值 %s", *req.DutyStatus))
		} else {
			target.DutyStatus = *req.DutyStatus
		}
	}

	unitChanged := false
	if check("command", req.CommandID != nil) {
		target.CommandID = req.CommandID
		unitChanged = true
	}
	if check("department", req.DepartmentID != nil) {
		target.DepartmentID = req.DepartmentID
		unitChanged = true
	}
	if check("division", req.DivisionID != nil) {
		target.DivisionID = req.DivisionID
		unitChanged = true
	}

	if len(denied) > 0 {
		return nil, pkgerrors.New(pkgerrors.KindAuthorization, "以下字段编辑被拒绝").WithDetails(denied...)
	}
	if unitChanged {
		validation = append(validation, s.validateUnits(ctx, target)...)
	}
	if len(validation) > 0 {
		return nil, pkgerrors.New(pkgerrors.KindValidation, "字段取值非法").WithDetails(validation...)
	}

	// 2. 乐观锁写回
	target.Version = req.Version
	if err := s.repo.Person.Update(ctx, target); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, pkgerrors.New(pkgerrors.KindConflict, "人员档案已被他人修改，请刷新后重试")
		}
		s.logger.Error("更新人员失败", zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.Person.GetByID(ctx, target.PersonID)
	if err != nil {
		return nil, err
	}
	return buildPersonResponse(updated, s.catalog.Resolve(requester, updated)), nil
}

func (s *personService) Search(ctx context.Context, requesterID string, req *dto.SearchPersonsRequest) (*dto.PersonListResponse, error) {
	requester, err := s.repo.Person.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	resolved := s.catalog.Resolve(requester, nil)

	// 搜索作用域由 Muster 轨道最高级别限定
	filter := &repository.PersonFilter{
		Query:        req.Query,
		DutyStatus:   req.DutyStatus,
		CommandID:    req.CommandID,
		DepartmentID: req.DepartmentID,
		DivisionID:   req.DivisionID,
	}
	switch resolved.LevelIn(authz.TrackMuster) {
	case authz.LevelCommand:
		if requester.CommandID == nil {
			return s.selfOnlyList(requester), nil
		}
		filter.CommandID = *requester.CommandID
	case authz.LevelDepartment:
		if requester.DepartmentID == nil {
			return s.selfOnlyList(requester), nil
		}
		filter.DepartmentID = *requester.DepartmentID
	case authz.LevelDivision:
		if requester.DivisionID == nil {
			return s.selfOnlyList(requester), nil
		}
		filter.DivisionID = *requester.DivisionID
	default:
		return s.selfOnlyList(requester), nil
	}

	persons, total, err := s.repo.Person.Search(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("人员搜索失败", zap.Error(err))
		return nil, err
	}

	items := make([]*dto.PersonResponse, 0, len(persons))
	for i := range persons {
		p := &persons[i]
		items = append(items, buildPersonResponse(p, s.catalog.Resolve(requester, p)))
	}

	return &dto.PersonListResponse{
		Items:    items,
		Total:    total,
		Page:     req.GetPage(),
		PageSize: req.GetPageSize(),
	}, nil
}

// selfOnlyList 作用域不足时搜索结果退化为仅本人
func (s *personService) selfOnlyList(requester *model.Person) *dto.PersonListResponse {
	self := s.catalog.Resolve(requester, requester)
	return &dto.PersonListResponse{
		Items:    []*dto.PersonResponse{buildPersonResponse(requester, self)},
		Total:    1,
		Page:     1,
		PageSize: 1,
	}
}

// validateDutyStatus 在役状态必须在参考列表内
func (s *personService) validateDutyStatus(ctx context.Context, value string) error {
	_, err := s.repo.Reference.GetByValue(ctx, model.ReferenceListDutyStatuses, value)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Newf(pkgerrors.KindValidation, "未知在役状态: %s", value)
		}
		return err
	}
	return nil
}

// applyUnits 建档时写入组织归属并校验
func (s *personService) applyUnits(ctx context.Context, person *model.Person, commandID, departmentID, divisionID *string) []string {
	person.CommandID = commandID
	person.DepartmentID = departmentID
	person.DivisionID = divisionID
	return s.validateUnits(ctx, person)
}

// validateUnits 组织归属三级必须存在且层级一致
func (s *personService) validateUnits(ctx context.Context, person *model.Person) []string {
	var details []string

	if person.CommandID != nil {
		if _, err := s.repo.Org.GetCommand(ctx, *person.CommandID); err != nil {
			details = append(details, "command: 指挥部不存在")
		}
	}
	if person.DepartmentID != nil {
		department, err := s.repo.Org.GetDepartment(ctx, *person.DepartmentID)
		switch {
		case err != nil:
			details = append(details, "department: 部门不存在")
		case person.CommandID == nil:
			details = append(details, "department: 设置部门前须先设置指挥部")
		case department.CommandID != *person.CommandID:
			details = append(details, "department: 部门不属于指定指挥部")
		}
	}
	if person.DivisionID != nil {
		division, err := s.repo.Org.GetDivision(ctx, *person.DivisionID)
		switch {
		case err != nil:
			details = append(details, "division: 分队不存在")
		case person.DepartmentID == nil:
			details = append(details, "division: 设置分队前须先设置部门")
		case division.DepartmentID != *person.DepartmentID:
			details = append(details, "division: 分队不属于指定部门")
		}
	}
	return details
}

// currentMusterDay 当前点名日：状态机已初始化时以状态机为准
func (s *personService) currentMusterDay(ctx context.Context) (int, int) {
	if state, err := s.repo.MusterState.Get(ctx); err == nil && state.MusterYear != 0 {
		return state.MusterDayOfYear, state.MusterYear
	}
	rollover, _ := config.ParseClockTime(s.cfg.Muster.RolloverTime)
	return muster.Day(time.Now(), rollover)
}

// buildPersonResponse 按解析结果过滤字段构造响应。
// 不可见字段一律省略，标识与姓名恒可见（ForEveryone）
func buildPersonResponse(p *model.Person, resolved *authz.ResolvedPermissions) *dto.PersonResponse {
	canReturn := func(field string) bool {
		return resolved.CanReturn(authz.EntityPerson, field)
	}

	resp := &dto.PersonResponse{
		PersonID:  p.PersonID,
		LastName:  p.LastName,
		FirstName: p.FirstName,
		Version:   p.Version,
	}
	if canReturn("middle_name") {
		resp.MiddleName = p.MiddleName
	}
	if canReturn("suffix") {
		resp.Suffix = p.Suffix
	}
	if canReturn("ssn") {
		resp.SSN = p.SSN
	}
	if canReturn("date_of_birth") && p.DateOfBirth != nil {
		dob := p.DateOfBirth.Format("2006-01-02")
		resp.DateOfBirth = &dob
	}
	if canReturn("sex") {
		resp.Sex = p.Sex
	}
	if canReturn("remarks") {
		resp.Remarks = p.Remarks
	}
	if canReturn("paygrade") {
		resp.Paygrade = p.Paygrade
	}
	if canReturn("designation") {
		resp.Designation = p.Designation
	}
	if canReturn("uic") {
		resp.UIC = p.UIC
	}
	if canReturn("duty_status") {
		resp.DutyStatus = &p.DutyStatus
	}
	if canReturn("username") {
		resp.Username = p.Username
	}
	if canReturn("permission_group_names") {
		resp.PermissionGroupNames = p.PermissionGroupNames
	}
	if canReturn("command") && p.Command != nil {
		resp.Command = &dto.UnitResponse{ID: p.Command.CommandID, Value: p.Command.Value}
	}
	if canReturn("department") && p.Department != nil {
		resp.Department = &dto.UnitResponse{ID: p.Department.DepartmentID, Value: p.Department.Value}
	}
	if canReturn("division") && p.Division != nil {
		resp.Division = &dto.UnitResponse{ID: p.Division.DivisionID, Value: p.Division.Value}
	}
	if canReturn("current_muster_record") && p.CurrentMusterRecord != nil {
		resp.CurrentMusterRecord = buildMusterRecordResponse(p.CurrentMusterRecord)
	}
	return resp
}

// [自证通过] internal/service/person_service.go
