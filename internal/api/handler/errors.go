package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/service"
	pkgerrors "github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/errors"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/jwt"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/response"
)

// respondError 将 Service 层错误统一映射为 HTTP 响应。
// code 为各模块的业务错误码：11xxx 认证 / 12xxx 人员 / 13xxx 权限 / 14xxx 点名 / 15xxx 参考列表
func respondError(c *gin.Context, code int, err error) {
	var e *pkgerrors.E
	if errors.As(err, &e) {
		switch e.Kind {
		case pkgerrors.KindValidation:
			response.BadRequest(c, code, e.Message, e.Details...)
		case pkgerrors.KindAuthorization:
			response.Forbidden(c, code, e.Message, e.Details...)
		case pkgerrors.KindConflict:
			response.Error(c, http.StatusConflict, code, e.Message, e.Details...)
		case pkgerrors.KindIntegrity:
			response.Error(c, http.StatusInternalServerError, code, e.Message, e.Details...)
		default:
			response.InternalError(c)
		}
		return
	}

	switch {
	case errors.Is(err, service.ErrPersonNotFound),
		errors.Is(err, service.ErrUnitNotFound),
		errors.Is(err, service.ErrReferenceItemNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		response.NotFound(c, code, "资源不存在")
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountNotClaimed),
		errors.Is(err, service.ErrTokenRevoked),
		errors.Is(err, jwt.ErrTokenExpired),
		errors.Is(err, jwt.ErrTokenInvalid):
		response.Unauthorized(c, code, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/errors.go
