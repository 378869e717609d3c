package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/model"
)

// MusterRecordRepository 点名记录数据访问接口。
// 定稿与滚动是跨表事务：记录写入与状态机迁移要么全部生效要么全部回滚
type MusterRecordRepository interface {
	Create(ctx context.Context, record *model.MusterRecord) error
	// CreateAndLink 创建记录并同时挂为该人员的当前记录（一个事务）
	CreateAndLink(ctx context.Context, record *model.MusterRecord) error
	GetByID(ctx context.Context, id string) (*model.MusterRecord, error)
	ListByMustereeAndDay(ctx context.Context, mustereeID string, day, year int) ([]model.MusterRecord, error)
	ListByDay(ctx context.Context, day, year int) ([]model.MusterRecord, error)
	ListByDayPaged(ctx context.Context, day, year int, offset, limit int) ([]model.MusterRecord, int64, error)
	CountSubmittedByDay(ctx context.Context, day, year int) (int64, error)
	Update(ctx context.Context, record *model.MusterRecord) error
	// SubmitBatch 整批保存提交结果：任一失败则全部回滚
	SubmitBatch(ctx context.Context, records []*model.MusterRecord) error
	// FinalizeDay 保存全部定稿记录并将状态机迁移至 Finalized
	FinalizeDay(ctx context.Context, records []*model.MusterRecord, state *model.MusterState) error
	// RolloverDay 为每人创建新日默认记录、重挂当前记录引用，
	// 并将状态机迁移至 Open(day, year)
	RolloverDay(ctx context.Context, fresh []*model.MusterRecord, state *model.MusterState, day, year int) error
	// Relink 将指定记录挂为该人员的当前记录（启动对账用）
	Relink(ctx context.Context, personID, recordID string) error
}

// musterRecordRepo MusterRecordRepository 的 GORM 实现
type musterRecordRepo struct {
	db *gorm.DB
}

// NewMusterRecordRepo 创建 MusterRecordRepository 实例
func NewMusterRecordRepo(db *gorm.DB) MusterRecordRepository {
	return &musterRecordRepo{db: db}
}

func (r *musterRecordRepo) Create(ctx context.Context, record *model.MusterRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *musterRecordRepo) CreateAndLink(ctx context.Context, record *model.MusterRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		return tx.Model(&model.Person{}).
			Where("person_id = ?", record.MustereeID).
			Update("current_muster_record_id", record.MusterRecordID).Error
	})
}

func (r *musterRecordRepo) GetByID(ctx context.Context, id string) (*model.MusterRecord, error) {
	var record model.MusterRecord
	err := r.db.WithContext(ctx).
		Preload("Musteree").
		Where("muster_record_id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *musterRecordRepo) ListByMustereeAndDay(ctx context.Context, mustereeID string, day, year int) ([]model.MusterRecord, error) {
	var records []model.MusterRecord
	err := r.db.WithContext(ctx).
		Where("musteree_id = ? AND muster_day_of_year = ? AND muster_year = ?", mustereeID, day, year).
		Order("created_at").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *musterRecordRepo) ListByDay(ctx context.Context, day, year int) ([]model.MusterRecord, error) {
	var records []model.MusterRecord
	err := r.db.WithContext(ctx).
		Preload("Musteree").
		Where("muster_day_of_year = ? AND muster_year = ?", day, year).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *musterRecordRepo) ListByDayPaged(ctx context.Context, day, year int, offset, limit int) ([]model.MusterRecord, int64, error) {
	db := r.db.WithContext(ctx).
		Model(&model.MusterRecord{}).
		Where("muster_day_of_year = ? AND muster_year = ?", day, year)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.MusterRecord
	if err := db.Preload("Musteree").
		Offset(offset).Limit(limit).
		Order("command, department, division, musteree_id").
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *musterRecordRepo) CountSubmittedByDay(ctx context.Context, day, year int) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.MusterRecord{}).
		Where("muster_day_of_year = ? AND muster_year = ? AND has_been_submitted = ?", day, year, true).
		Count(&total).Error
	return total, err
}

func (r *musterRecordRepo) Update(ctx context.Context, record *model.MusterRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *musterRecordRepo) SubmitBatch(ctx context.Context, records []*model.MusterRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			if err := tx.Save(record).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *musterRecordRepo) FinalizeDay(ctx context.Context, records []*model.MusterRecord, state *model.MusterState) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			if err := tx.Save(record).Error; err != nil {
				return err
			}
		}
		return transitionMusterState(tx, state, true, state.MusterDayOfYear, state.MusterYear)
	})
}

func (r *musterRecordRepo) RolloverDay(ctx context.Context, fresh []*model.MusterRecord, state *model.MusterState, day, year int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range fresh {
			if err := tx.Create(record).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.Person{}).
				Where("person_id = ?", record.MustereeID).
				Update("current_muster_record_id", record.MusterRecordID).Error; err != nil {
				return err
			}
		}
		return transitionMusterState(tx, state, false, day, year)
	})
}

func (r *musterRecordRepo) Relink(ctx context.Context, personID, recordID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Person{}).
		Where("person_id = ?", personID).
		Update("current_muster_record_id", recordID).Error
}

// [自证通过] internal/repository/muster_record_repo.go
