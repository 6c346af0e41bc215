package mysql

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/topic_service/config"
	"github.com/Xushengqwer/topic_service/models/entities"
)

// TopicBatchOperationsRepository 提供面向后台任务的批量数据库操作，
// 服务于浏览量落库与热门榜缓存回源两类场景。
type TopicBatchOperationsRepository interface {
	// BatchUpdateTopicVisitCounts 把 Redis 聚合的浏览量并发批量写回 MySQL。
	// 部分批次失败只记录并聚合返回，不中断其余批次，靠下一轮同步补齐。
	BatchUpdateTopicVisitCounts(ctx context.Context, visitCounts map[uint64]int64) error

	// GetTopicsByIDs 按 ID 列表批量取话题，用于缓存未命中时回源。
	GetTopicsByIDs(ctx context.Context, ids []uint64) ([]*entities.Topic, error)
}

type topicBatchOperationsRepository struct {
	db           *gorm.DB
	logger       *core.ZapLogger
	visitSyncCfg config.VisitSyncConfig
}

func NewTopicBatchOperationsRepository(db *gorm.DB, logger *core.ZapLogger, visitSyncCfg config.VisitSyncConfig) TopicBatchOperationsRepository {
	return &topicBatchOperationsRepository{db: db, logger: logger, visitSyncCfg: visitSyncCfg}
}

// visitDelta 在分发通道中携带一条待写回的浏览量。
type visitDelta struct {
	TopicID    uint64
	VisitCount int64
}

// BatchUpdateTopicVisitCounts 将 visitCounts 切成 BatchSize 大小的批次，
// 由 ConcurrencyLevel 个 worker 并行消费，每个批次编译成一条 CASE WHEN UPDATE。
func (r *topicBatchOperationsRepository) BatchUpdateTopicVisitCounts(ctx context.Context, visitCounts map[uint64]int64) error {
	total := len(visitCounts)
	if total == 0 {
		r.logger.Info("BatchUpdateTopicVisitCounts: 没有需要更新的话题浏览量，任务提前结束。")
		return nil
	}

	batchSize := r.visitSyncCfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500
		r.logger.Warn("BatchUpdateTopicVisitCounts: 配置 BatchSize 无效，使用默认值",
			zap.Int("defaultBatchSize", batchSize), zap.Int("configured", r.visitSyncCfg.BatchSize))
	}
	workers := r.visitSyncCfg.ConcurrencyLevel
	if workers <= 0 {
		workers = 1
		r.logger.Warn("BatchUpdateTopicVisitCounts: 配置 ConcurrencyLevel 无效，退化为顺序执行",
			zap.Int("configured", r.visitSyncCfg.ConcurrencyLevel))
	}

	// 预先切好批次，分发阶段只搬运切片
	deltas := make([]visitDelta, 0, total)
	for id, count := range visitCounts {
		deltas = append(deltas, visitDelta{TopicID: id, VisitCount: count})
	}
	batches := make([][]visitDelta, 0, (total+batchSize-1)/batchSize)
	for i := 0; i < total; i += batchSize {
		end := i + batchSize
		if end > total {
			end = total
		}
		batches = append(batches, deltas[i:end])
	}

	r.logger.Info("BatchUpdateTopicVisitCounts: 开始并发批量更新",
		zap.Int("total", total),
		zap.Int("batchSize", batchSize),
		zap.Int("workers", workers),
		zap.Int("batches", len(batches)),
	)

	var wg sync.WaitGroup
	jobs := make(chan []visitDelta, workers)
	results := make(chan error, len(batches))
	startedAt := time.Now()

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for batch := range jobs {
				select {
				case <-ctx.Done():
					results <- fmt.Errorf("worker %d: context cancelled: %w", workerID, ctx.Err())
					continue
				default:
				}
				results <- r.updateBatch(ctx, batch, workerID)
			}
		}(i)
	}

	go func() {
		defer close(jobs)
		for _, batch := range batches {
			select {
			case <-ctx.Done():
				r.logger.Warn("上下文取消，停止分发剩余批次", zap.Error(ctx.Err()))
				return
			case jobs <- batch:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var failures []string
	for err := range results {
		if err != nil {
			failures = append(failures, err.Error())
		}
	}

	r.logger.Info("话题浏览量批量更新处理完成",
		zap.Duration("elapsed", time.Since(startedAt)),
		zap.Int("batches", len(batches)),
		zap.Int("failed", len(failures)),
	)

	if len(failures) > 0 {
		finalErr := fmt.Errorf("并发批量更新过程中发生错误 (%d / %d 个批次失败): %s",
			len(failures), len(batches), strings.Join(failures, "; "))
		r.logger.Error("浏览量批量更新存在失败批次", zap.Error(finalErr))
		return finalErr
	}
	return nil
}

// updateBatch 把一个批次编译为单条 CASE WHEN UPDATE 并执行。
func (r *topicBatchOperationsRepository) updateBatch(ctx context.Context, batch []visitDelta, workerID int) error {
	ids := make([]uint64, 0, len(batch))
	params := make([]interface{}, 0, len(batch)*2)

	var caseExpr strings.Builder
	caseExpr.WriteString("CASE id ")
	for _, d := range batch {
		ids = append(ids, d.TopicID)
		caseExpr.WriteString("WHEN ? THEN ? ")
		params = append(params, d.TopicID, d.VisitCount)
	}
	caseExpr.WriteString("END")

	start := time.Now()
	err := r.db.WithContext(ctx).Model(&entities.Topic{}).
		Where("id IN ?", ids).
		Update("visit_count", gorm.Expr(caseExpr.String(), params...)).Error
	elapsed := time.Since(start)

	if err != nil {
		r.logger.Error("updateBatch: 数据库更新批次失败",
			zap.Int("workerID", workerID),
			zap.Int("batchSize", len(batch)),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return fmt.Errorf("worker %d 处理批次 (大小 %d) 失败: %w", workerID, len(batch), err)
	}

	r.logger.Debug("updateBatch: 数据库更新批次成功",
		zap.Int("workerID", workerID),
		zap.Int("batchSize", len(batch)),
		zap.Duration("elapsed", elapsed),
	)
	return nil
}

// GetTopicsByIDs 按 ID 批量查询，软删除记录由 GORM 自动过滤。
func (r *topicBatchOperationsRepository) GetTopicsByIDs(ctx context.Context, ids []uint64) ([]*entities.Topic, error) {
	var topics []*entities.Topic
	if len(ids) == 0 {
		return topics, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&topics).Error; err != nil {
		r.logger.Error("GetTopicsByIDs: 查询话题失败。", zap.Error(err))
		return nil, err
	}
	return topics, nil
}
