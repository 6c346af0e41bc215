package tasks

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/topic_service/constant"
	"github.com/Xushengqwer/topic_service/repo/mysql"
	"github.com/Xushengqwer/topic_service/repo/redis"
)

// VisitCountSyncTask 负责定时将 Redis 中的话题浏览量同步到 MySQL 数据库。
type VisitCountSyncTask struct {
	topicVisitRepo redis.TopicVisitRepository           // Redis 仓库，用于获取浏览量
	topicBatchRepo mysql.TopicBatchOperationsRepository // MySQL 批量操作仓库，用于更新浏览量
	cron           *cron.Cron                           // cron V3 实例
	logger         *core.ZapLogger                      // 日志记录器
}

// NewVisitCountSyncTask 初始化并启动浏览量同步的定时任务。
func NewVisitCountSyncTask(
	topicVisitRepo redis.TopicVisitRepository,
	topicBatchRepo mysql.TopicBatchOperationsRepository,
	logger *core.ZapLogger,
) *VisitCountSyncTask {
	cronV3 := cron.New() // 默认分钟级精度
	task := &VisitCountSyncTask{
		topicVisitRepo: topicVisitRepo,
		topicBatchRepo: topicBatchRepo,
		cron:           cronV3,
		logger:         logger,
	}
	task.startCronJob() // 在构造函数中启动定时作业
	return task
}

// startCronJob 配置并启动 cron 作业。
// 使用 constant.SyncVisitCountInterval 定义的 cron 表达式来调度 syncVisitCountsToDB 方法。
func (t *VisitCountSyncTask) startCronJob() {
	schedule := constant.SyncVisitCountInterval
	t.logger.Info("准备启动话题浏览量同步MySQL定时任务", zap.String("schedule", schedule))

	entryID, err := t.cron.AddFunc(schedule, func() {
		t.logger.Info("话题浏览量同步MySQL任务开始执行...")
		startTime := time.Now()
		// 为单次任务执行设置超时，例如 3 分钟。
		// 这个超时应该足够完成 Redis 数据获取和 MySQL 批量更新。
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		t.syncVisitCountsToDB(ctx) // 调用核心同步逻辑

		duration := time.Since(startTime)
		t.logger.Info("话题浏览量同步MySQL任务执行完毕", zap.Duration("duration", duration))
	})

	if err != nil {
		// 如果添加 cron 作业失败（通常是 schedule 表达式错误），记录致命错误。
		t.logger.Fatal("添加话题浏览量同步 cron 作业失败", zap.Error(err), zap.String("schedule", schedule))
	}

	t.cron.Start() // 启动 cron 调度器 (在后台 goroutine 中运行)
	t.logger.Info("话题浏览量同步MySQL定时任务已启动", zap.Uint("cronEntryID", uint(entryID)))
}

// syncVisitCountsToDB 是定时任务执行的实际同步逻辑。
// 1. 从 Redis 获取全量的话题浏览量数据。
// 2. 调用 MySQL 仓库的 BatchUpdateTopicVisitCounts 方法批量更新到数据库。
func (t *VisitCountSyncTask) syncVisitCountsToDB(ctx context.Context) {
	t.logger.Info("任务步骤1: 开始从 Redis 获取全量话题浏览量...")
	visitCounts, err := t.topicVisitRepo.GetAllVisitCounts(ctx)
	if err != nil {
		// 如果从 Redis 获取数据失败，记录错误并中止本次同步。
		t.logger.Error("从 Redis 获取全量浏览量失败，本次同步中止。", zap.Error(err))
		return
	}

	countFromRedis := len(visitCounts)
	if countFromRedis == 0 {
		t.logger.Info("从 Redis 获取到的浏览量数据为空，无需同步到 MySQL。")
		return // 没有数据需要同步
	}
	t.logger.Info("任务步骤1: 成功从 Redis 获取到浏览量数据。", zap.Int("话题数量", countFromRedis))

	t.logger.Info("任务步骤2: 开始将浏览量批量更新到 MySQL...")
	// BatchUpdateTopicVisitCounts 内部处理各批次的错误并记录日志，通常返回 nil。
	if err := t.topicBatchRepo.BatchUpdateTopicVisitCounts(ctx, visitCounts); err != nil {
		t.logger.Error("调用 MySQL 批量更新浏览量操作时发生意外错误",
			zap.Error(err),
			zap.Int("提交数量", countFromRedis),
		)
	} else {
		// 这里的日志表示调用已完成。实际的成功/失败情况需查看批量更新的内部日志。
		t.logger.Info("任务步骤2: 调用 MySQL 批量更新浏览量操作已完成。", zap.Int("提交数量", countFromRedis))
	}
}

// Stop 优雅地停止 cron 调度器。
// 返回一个 context，调用者可以使用它来等待正在运行的任务完成。
func (t *VisitCountSyncTask) Stop() context.Context {
	t.logger.Info("正在停止话题浏览量同步MySQL定时任务...")
	stopCtx := t.cron.Stop() // cron.Stop() 停止新任务调度，并返回一个在其管理的任务都完成后关闭的 context
	t.logger.Info("话题浏览量同步MySQL定时任务已停止调度。等待正在执行的任务完成...")
	return stopCtx
}
