package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
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

// MusterService 点名生命周期业务接口。
// 状态机：Open（接受提交）→ Finalized（拒绝提交，待滚动）→ Open（新的一天）。
// 状态持久化于 muster_state 单行，迁移以乐观锁条件更新保护，
// 跨进程并发触发时只有一方生效
type MusterService interface {
	// Status 当前点名日状态
	Status(ctx context.Context) (*dto.MusterStatusResponse, error)
	// MusterablePersons 请求者有权点名的人员名单
	MusterablePersons(ctx context.Context, requesterID string) ([]*dto.PersonResponse, error)
	// Submit 批量提交点名：整批一个事务，任一目标不合格则全部拒绝
	Submit(ctx context.Context, requesterID string, req *dto.SubmitMusterRequest) error
	// RecordsByDay 按日查询点名记录
	RecordsByDay(ctx context.Context, req *dto.MusterRecordsByDayRequest) (*dto.MusterRecordListResponse, error)
	// Finalize 定稿当日：快照描述性字段、未提交者强制标记、状态迁移至 Finalized
	Finalize(ctx context.Context) error
	// Rollover 滚动到新的一天；autoFinalize 时若仍开放则先定稿
	Rollover(ctx context.Context, autoFinalize bool) error
	// Reconcile 启动对账：修复当前记录与今日不符的人员
	Reconcile(ctx context.Context) error
}

type musterService struct {
	cfg      *config.Config
	repo     *repository.Repository
	catalog  *authz.Catalog
	report   ReportSink
	logger   *zap.Logger
	rollover time.Duration
	now      func() time.Time // 测试注入
}

// NewMusterService 创建 MusterService 实例
func NewMusterService(
	cfg *config.Config,
	repo *repository.Repository,
	catalog *authz.Catalog,
	report ReportSink,
	logger *zap.Logger,
) MusterService {
	rollover, _ := config.ParseClockTime(cfg.Muster.RolloverTime)
	return &musterService{
		cfg:      cfg,
		repo:     repo,
		catalog:  catalog,
		report:   report,
		logger:   logger,
		rollover: rollover,
		now:      time.Now,
	}
}

func (s *musterService) Status(ctx context.Context) (*dto.MusterStatusResponse, error) {
	state, err := s.repo.MusterState.Get(ctx)
	if err != nil {
		return nil, err
	}

	totalMusterable, err := s.repo.Person.CountMusterable(ctx)
	if err != nil {
		return nil, err
	}
	totalSubmitted, err := s.repo.MusterRecord.CountSubmittedByDay(ctx, state.MusterDayOfYear, state.MusterYear)
	if err != nil {
		return nil, err
	}

	return &dto.MusterStatusResponse{
		MusterDayOfYear: state.MusterDayOfYear,
		MusterYear:      state.MusterYear,
		Finalized:       state.Finalized,
		RolloverTime:    s.cfg.Muster.RolloverTime,
		DueTime:         s.cfg.Muster.DueTime,
		TotalMusterable: totalMusterable,
		TotalSubmitted:  totalSubmitted,
	}, nil
}

func (s *musterService) MusterablePersons(ctx context.Context, requesterID string) ([]*dto.PersonResponse, error) {
	requester, err := s.repo.Person.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	resolved := s.catalog.Resolve(requester, nil)

	persons, err := s.repo.Person.ListMusterable(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.PersonResponse, 0)
	for i := range persons {
		p := &persons[i]
		if !resolved.CanMuster(requester, p) {
			continue
		}
		resp := buildPersonResponse(p, s.catalog.Resolve(requester, p))
		// 点名名单始终携带当前记录，无论字段可见性如何
		if p.CurrentMusterRecord != nil {
			resp.CurrentMusterRecord = buildMusterRecordResponse(p.CurrentMusterRecord)
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *musterService) Submit(ctx context.Context, requesterID string, req *dto.SubmitMusterRequest) error {
	// 1. 状态检查：定稿后拒绝提交
	state, err := s.repo.MusterState.Get(ctx)
	if err != nil {
		return err
	}
	if state.Finalized {
		return pkgerrors.New(pkgerrors.KindConflict, "当日点名已定稿，不再接受提交")
	}

	requester, err := s.repo.Person.GetByID(ctx, requesterID)
	if err != nil {
		return err
	}
	resolved := s.catalog.Resolve(requester, nil)

	// 2. 校验：状态值、目标存在性、点名资格。全部违规项一次性报告
	var validation []string
	var denied []string
	targets := make([]*model.Person, 0, len(req.Entries))
	for _, entry := range req.Entries {
		if err := s.validateMusterStatus(ctx, entry.MusterStatus); err != nil {
			validation = append(validation, fmt.Sprintf("%s: 未知点名状态 %s", entry.PersonID, entry.MusterStatus))
		}

		target, err := s.repo.Person.GetByID(ctx, entry.PersonID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				validation = append(validation, fmt.Sprintf("%s: 人员不存在", entry.PersonID))
				continue
			}
			return err
		}
		if !target.IsMusterable() {
			validation = append(validation, fmt.Sprintf("%s: 该人员不在点名名单（在役状态 %s）", entry.PersonID, target.DutyStatus))
			continue
		}
		if !resolved.CanMuster(requester, target) {
			denied = append(denied, fmt.Sprintf("%s %s", target.PersonID, target.FullName()))
			continue
		}
		targets = append(targets, target)
	}
	if len(validation) > 0 {
		return pkgerrors.New(pkgerrors.KindValidation, "点名提交校验失败").WithDetails(validation...)
	}
	if len(denied) > 0 {
		sort.Strings(denied)
		return pkgerrors.New(pkgerrors.KindAuthorization, "无权为以下人员点名").WithDetails(denied...)
	}

	// 3. 构造整批更新。已提交者为幂等空操作，不覆盖先前结果
	now := s.now()
	day, year := muster.Day(now, s.rollover)
	statusByPerson := make(map[string]*dto.SubmitMusterEntry, len(req.Entries))
	for i := range req.Entries {
		statusByPerson[req.Entries[i].PersonID] = &req.Entries[i]
	}

	records := make([]*model.MusterRecord, 0, len(targets))
	for _, target := range targets {
		record := target.CurrentMusterRecord
		if record == nil {
			return pkgerrors.Newf(pkgerrors.KindIntegrity, "人员 %s 缺少当前点名记录", target.PersonID)
		}
		if record.HasBeenSubmitted {
			continue
		}

		entry := statusByPerson[target.PersonID]
		record.MustererID = &requester.PersonID
		record.MusterStatus = &entry.MusterStatus
		record.Remarks = entry.Remarks
		record.HasBeenSubmitted = true
		record.SubmitTime = &now
		record.MusterDayOfYear = day
		record.MusterYear = year
		snapshotPerson(record, target)
		records = append(records, record)
	}

	// 4. 一个事务写入整批
	if err := s.repo.MusterRecord.SubmitBatch(ctx, records); err != nil {
		s.logger.Error("点名提交失败", zap.Error(err))
		return err
	}

	s.logger.Info("点名已提交",
		zap.String("musterer_id", requesterID),
		zap.Int("count", len(records)),
		zap.Int("day", day),
		zap.Int("year", year),
	)
	return nil
}

func (s *musterService) RecordsByDay(ctx context.Context, req *dto.MusterRecordsByDayRequest) (*dto.MusterRecordListResponse, error) {
	day, year, err := s.resolveQueryDay(ctx, req.Date)
	if err != nil {
		return nil, err
	}

	records, total, err := s.repo.MusterRecord.ListByDayPaged(ctx, day, year, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, err
	}

	items := make([]*dto.MusterRecordResponse, 0, len(records))
	for i := range records {
		items = append(items, buildMusterRecordResponse(&records[i]))
	}
	return &dto.MusterRecordListResponse{
		Items:    items,
		Total:    total,
		Page:     req.GetPage(),
		PageSize: req.GetPageSize(),
	}, nil
}

func (s *musterService) Finalize(ctx context.Context) error {
	// 1. 状态检查
	state, err := s.repo.MusterState.Get(ctx)
	if err != nil {
		return err
	}
	if state.Finalized {
		return pkgerrors.New(pkgerrors.KindConflict, "当日点名已定稿")
	}

	// 2. 装载全部应点名人员，校验当前记录存在且同属一个点名日
	persons, err := s.repo.Person.ListMusterable(ctx)
	if err != nil {
		return err
	}

	now := s.now()
	day, year := -1, -1
	records := make([]*model.MusterRecord, 0, len(persons))
	for i := range persons {
		p := &persons[i]
		record := p.CurrentMusterRecord
		if record == nil {
			return pkgerrors.Newf(pkgerrors.KindIntegrity, "人员 %s 缺少当前点名记录，定稿中止", p.PersonID)
		}
		if day == -1 {
			day, year = record.MusterDayOfYear, record.MusterYear
		} else if record.MusterDayOfYear != day || record.MusterYear != year {
			return pkgerrors.Newf(pkgerrors.KindIntegrity,
				"当前记录点名日不一致（%d/%d 与 %d/%d），定稿中止",
				record.MusterDayOfYear, record.MusterYear, day, year)
		}

		// 无论是否已提交，描述性字段一律按在档信息重新快照
		snapshotPerson(record, p)
		if !record.HasBeenSubmitted {
			status := s.cfg.Muster.UnaccountedStatus
			record.MusterStatus = &status
			record.SubmitTime = &now
		}
		record.HasBeenSubmitted = true
		records = append(records, record)
	}

	// 3. 记录写入与状态迁移同一事务；并发定稿只有一方生效
	if day != -1 {
		state.MusterDayOfYear = day
		state.MusterYear = year
	}
	if err := s.repo.MusterRecord.FinalizeDay(ctx, records, state); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return pkgerrors.New(pkgerrors.KindConflict, "定稿正被并发执行，本次放弃")
		}
		s.logger.Error("定稿失败", zap.Error(err))
		return err
	}

	s.logger.Info("当日点名已定稿",
		zap.Int("day", state.MusterDayOfYear),
		zap.Int("year", state.MusterYear),
		zap.Int("records", len(records)),
	)

	// 4. 日报尽力而为：投递失败只记日志，绝不回滚已提交的定稿
	if err := s.report.DeliverDayReport(ctx, state.MusterDayOfYear, state.MusterYear); err != nil {
		s.logger.Warn("点名日报投递失败", zap.Error(err))
	}
	return nil
}

func (s *musterService) Rollover(ctx context.Context, autoFinalize bool) error {
	state, err := s.repo.MusterState.Get(ctx)
	if err != nil {
		return err
	}

	// 仍开放时：要么先自动定稿，要么拒绝
	if !state.Finalized {
		if !autoFinalize {
			return pkgerrors.New(pkgerrors.KindConflict, "当日点名尚未定稿，不能滚动")
		}
		if err := s.Finalize(ctx); err != nil {
			return err
		}
		state, err = s.repo.MusterState.Get(ctx)
		if err != nil {
			return err
		}
	}

	now := s.now()
	day, year := muster.Day(now, s.rollover)

	// 为系统内全部人员（不限于应点名者）创建新日空白记录
	persons, err := s.repo.Person.ListAll(ctx)
	if err != nil {
		return err
	}
	fresh := make([]*model.MusterRecord, 0, len(persons))
	for i := range persons {
		fresh = append(fresh, &model.MusterRecord{
			MustereeID:      persons[i].PersonID,
			MusterDayOfYear: day,
			MusterYear:      year,
		})
	}

	if err := s.repo.MusterRecord.RolloverDay(ctx, fresh, state, day, year); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return pkgerrors.New(pkgerrors.KindConflict, "滚动正被并发执行，本次放弃")
		}
		s.logger.Error("滚动失败", zap.Error(err))
		return err
	}

	s.logger.Info("点名日已滚动",
		zap.Int("day", day),
		zap.Int("year", year),
		zap.Int("persons", len(fresh)),
	)
	return nil
}

func (s *musterService) Reconcile(ctx context.Context) error {
	now := s.now()
	day, year := muster.Day(now, s.rollover)

	persons, err := s.repo.Person.ListAll(ctx)
	if err != nil {
		return err
	}

	repaired := 0
	for i := range persons {
		p := &persons[i]
		if p.CurrentMusterRecord != nil &&
			p.CurrentMusterRecord.MusterDayOfYear == day &&
			p.CurrentMusterRecord.MusterYear == year {
			continue
		}

		// 当前记录缺失或属于过去的点名日：按今日已有记录数分情况修复
		existing, err := s.repo.MusterRecord.ListByMustereeAndDay(ctx, p.PersonID, day, year)
		if err != nil {
			return err
		}
		switch len(existing) {
		case 0:
			record := &model.MusterRecord{
				MustereeID:      p.PersonID,
				MusterDayOfYear: day,
				MusterYear:      year,
			}
			if err := s.repo.MusterRecord.CreateAndLink(ctx, record); err != nil {
				return err
			}
		case 1:
			if err := s.repo.MusterRecord.Relink(ctx, p.PersonID, existing[0].MusterRecordID); err != nil {
				return err
			}
		case 2:
			// 两条并存：优先保留已提交的那条，避免丢失点名结果
			keep := &existing[0]
			if existing[1].HasBeenSubmitted && !existing[0].HasBeenSubmitted {
				keep = &existing[1]
			}
			s.logger.Warn("对账发现重复记录，保留其一",
				zap.String("person_id", p.PersonID),
				zap.String("kept_record_id", keep.MusterRecordID),
			)
			if err := s.repo.MusterRecord.Relink(ctx, p.PersonID, keep.MusterRecordID); err != nil {
				return err
			}
		default:
			// 三条及以上视为数据损坏，必须人工介入
			return pkgerrors.Newf(pkgerrors.KindIntegrity,
				"人员 %s 在 %d/%d 存在 %d 条点名记录，对账中止", p.PersonID, day, year, len(existing))
		}
		repaired++
	}

	// 状态机落后于今日时一并推进到 Open(今日)
	state, err := s.repo.MusterState.Get(ctx)
	if err != nil {
		return err
	}
	if state.MusterDayOfYear != day || state.MusterYear != year {
		if err := s.repo.MusterRecord.RolloverDay(ctx, nil, state, day, year); err != nil {
			return err
		}
	}

	if repaired > 0 {
		s.logger.Info("启动对账完成", zap.Int("repaired", repaired), zap.Int("day", day), zap.Int("year", year))
	}
	return nil
}

// resolveQueryDay 解析查询日期（缺省为当前状态机点名日）
func (s *musterService) resolveQueryDay(ctx context.Context, date string) (int, int, error) {
	if date == "" {
		state, err := s.repo.MusterState.Get(ctx)
		if err != nil {
			return 0, 0, err
		}
		return state.MusterDayOfYear, state.MusterYear, nil
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, 0, pkgerrors.New(pkgerrors.KindValidation, "日期格式非法，应为 YYYY-MM-DD")
	}
	return t.YearDay(), t.Year(), nil
}

// validateMusterStatus 点名状态必须在参考列表内
func (s *musterService) validateMusterStatus(ctx context.Context, value string) error {
	_, err := s.repo.Reference.GetByValue(ctx, model.ReferenceListMusterStatuses, value)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Newf(pkgerrors.KindValidation, "未知点名状态: %s", value)
		}
		return err
	}
	return nil
}

// snapshotPerson 将在档描述性信息以字符串快照写入记录，
// 人员日后调动不影响历史记录
func snapshotPerson(record *model.MusterRecord, p *model.Person) {
	record.Paygrade = p.Paygrade
	record.Designation = p.Designation
	record.UIC = p.UIC
	record.DutyStatus = &p.DutyStatus
	if p.Command != nil {
		record.Command = &p.Command.Value
	}
	if p.Department != nil {
		record.Department = &p.Department.Value
	}
	if p.Division != nil {
		record.Division = &p.Division.Value
	}
}

// buildMusterRecordResponse 构造点名记录响应
func buildMusterRecordResponse(r *model.MusterRecord) *dto.MusterRecordResponse {
	resp := &dto.MusterRecordResponse{
		MusterRecordID:   r.MusterRecordID,
		MustererID:       r.MustererID,
		MustereeID:       r.MustereeID,
		Paygrade:         r.Paygrade,
		Designation:      r.Designation,
		UIC:              r.UIC,
		Division:         r.Division,
		Department:       r.Department,
		Command:          r.Command,
		DutyStatus:       r.DutyStatus,
		MusterStatus:     r.MusterStatus,
		Remarks:          r.Remarks,
		HasBeenSubmitted: r.HasBeenSubmitted,
		MusterDayOfYear:  r.MusterDayOfYear,
		MusterYear:       r.MusterYear,
	}
	if r.SubmitTime != nil {
		t := r.SubmitTime.Format(time.RFC3339)
		resp.SubmitTime = &t
	}
	if r.Musteree != nil {
		resp.MustereeName = r.Musteree.FullName()
	}
	return resp
}

// [自证通过] internal/service/muster_service.go
