package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/topic_service/config"
	"github.com/Xushengqwer/topic_service/constant"
)

// TopicVisitRepository 定义了与话题浏览、排名相关的 Redis 操作接口。
// - 目标: 提供高性能的接口来处理话题浏览计数（防刷）、维护浏览排行以及向 MySQL 同步浏览量。
type TopicVisitRepository interface {
	// IncrementVisitCount 原子性地增加指定话题的浏览量，并更新其在排行 ZSet 中的分数。
	// - 使用 Bloom Filter (`bloomKey`) 防止同一用户在短时间 (TTL) 内重复计数。
	// - 使用 Lua 脚本保证 Redis 中计数器与 ZSet 的原子性更新。
	// - 输入: topicID (话题ID), userID (用于 Bloom Filter 的用户标识)。
	// - 输出: error 操作错误。如果用户已在 Bloom Filter 中，则返回 nil 且不执行计数增加。
	IncrementVisitCount(ctx context.Context, topicID uint64, userID string) error

	// GetAllVisitCounts 使用 SCAN 命令分批获取 Redis 中所有话题的浏览量计数。
	// - 目的是安全、高效地获取全量浏览量数据，作为同步到 MySQL 的数据源。
	// - 使用 SCAN 避免一次性 KEYS 操作阻塞 Redis，MGET 批量获取提高效率。
	GetAllVisitCounts(ctx context.Context) (map[uint64]int64, error)
}

// topicVisitRepository 是 TopicVisitRepository 接口的 Redis 实现。
type topicVisitRepository struct {
	redisClient       *redis.Client          // Redis 客户端实例
	logger            *core.ZapLogger        // 日志记录器实例
	visitSyncCfg      config.VisitSyncConfig // 浏览量同步相关的配置，包括 ScanBatchSize
	bloomFilterSize   int64                  // Bloom Filter 配置: 预期容量
	bloomFilterHashes uint                   // Bloom Filter 配置: 哈希函数数量
	bloomErrorRate    float64                // Bloom Filter 配置: 可接受的误判率
}

// NewTopicVisitRepository 创建 TopicVisitRepository 实例。
func NewTopicVisitRepository(redisClient *redis.Client, logger *core.ZapLogger, bloomFilterSize int64, bloomFilterHashes uint, bloomErrorRate float64, visitSyncCfg config.VisitSyncConfig) TopicVisitRepository {
	return &topicVisitRepository{
		redisClient:       redisClient,
		logger:            logger,
		visitSyncCfg:      visitSyncCfg,
		bloomFilterSize:   bloomFilterSize,
		bloomFilterHashes: bloomFilterHashes,
		bloomErrorRate:    bloomErrorRate,
	}
}

// IncrementVisitCount 实现增加话题浏览量的逻辑。
// 核心功能：使用 Bloom Filter 防止用户短时间内重复刷量，并原子性地增加话题浏览数及更新其在排行榜中的分数。
func (r *topicVisitRepository) IncrementVisitCount(ctx context.Context, topicID uint64, userID string) error {
	// 1. 构造 Redis Key
	bloomKey := fmt.Sprintf("%s%d", constant.TopicVisitBloomPrefix, topicID)
	visitCountKey := fmt.Sprintf("%s%d", constant.TopicVisitCountPrefix, topicID)
	topicsRankKey := constant.TopicsRankKey

	// 2. 确保 Bloom Filter 已按需创建。
	// 过滤器已存在时 BF.RESERVE 返回 "ERR item exists"，视为正常情况。
	if err := r.redisClient.BFReserve(ctx, bloomKey, r.bloomErrorRate, r.bloomFilterSize).Err(); err != nil {
		if strings.Contains(err.Error(), "ERR item exists") {
			r.logger.Debug("尝试创建 Bloom Filter 时发现其已存在 (此为正常情况)",
				zap.String("bloomKey", bloomKey),
			)
		} else {
			r.logger.Error("创建或调整 Bloom Filter 失败", zap.Error(err), zap.String("bloomKey", bloomKey))
			return fmt.Errorf("创建或调整 Bloom Filter '%s' 失败: %w", bloomKey, err)
		}
	}

	// 3. 使用 Bloom Filter 判断用户是否已浏览 (防刷核心)
	userExists, err := r.redisClient.BFExists(ctx, bloomKey, userID).Result()
	if err != nil {
		r.logger.Error("检查用户是否在 Bloom Filter 中时出错", zap.Error(err), zap.String("bloomKey", bloomKey), zap.String("userID", userID))
		return fmt.Errorf("检查 Bloom Filter 出错 ('%s', '%s'): %w", bloomKey, userID, err)
	}
	if userExists {
		r.logger.Debug("用户已在 Bloom Filter 中，跳过计数", zap.String("bloomKey", bloomKey), zap.String("userID", userID), zap.Uint64("topicID", topicID))
		return nil
	}

	// 4. 将用户添加到 Bloom Filter 并刷新过期时间（定义防刷窗口）
	if _, err = r.redisClient.BFAdd(ctx, bloomKey, userID).Result(); err != nil {
		r.logger.Error("添加用户到 Bloom Filter 失败", zap.Error(err), zap.String("bloomKey", bloomKey), zap.String("userID", userID))
		return fmt.Errorf("添加用户到 Bloom Filter '%s' 失败: %w", bloomKey, err)
	}
	if err := r.redisClient.Expire(ctx, bloomKey, constant.BloomVisitTTL).Err(); err != nil {
		r.logger.Warn("设置 Bloom Filter 过期时间失败，但不中断计数", zap.Error(err), zap.String("bloomKey", bloomKey))
	}

	// 5. 原子性增加浏览量并更新排行榜 (Lua 脚本)
	luaScript := redis.NewScript(`
        local visitCount = redis.call("INCR", KEYS[1])
        redis.call("ZADD", KEYS[2], visitCount, ARGV[1])
        return visitCount
    `)

	if _, err = luaScript.Run(ctx, r.redisClient, []string{visitCountKey, topicsRankKey}, topicID).Result(); err != nil {
		r.logger.Error("Lua 脚本执行失败：增加浏览量和更新排名", zap.Error(err), zap.Uint64("topicID", topicID))
		return fmt.Errorf("原子性增加浏览量失败 (TopicID: %d): %w", topicID, err)
	}

	r.logger.Debug("成功增加浏览量并更新排名", zap.Uint64("topicID", topicID))
	return nil
}

// GetAllVisitCounts 使用 SCAN 命令安全地迭代并获取所有话题的浏览量。
// 此方法主要用于定时任务，将 Redis 中的全量浏览数据同步到 MySQL。
func (r *topicVisitRepository) GetAllVisitCounts(ctx context.Context) (map[uint64]int64, error) {
	visitCounts := make(map[uint64]int64)
	var cursor uint64 = 0
	matchPattern := constant.TopicVisitCountPrefix + "*"

	scanCount := r.visitSyncCfg.ScanBatchSize
	if scanCount <= 0 {
		scanCount = 1000 // Fallback
		r.logger.Warn("GetAllVisitCounts: 配置中的 ScanBatchSize 无效或为零，使用默认值。",
			zap.Int64("defaultScanBatchSize", scanCount),
		)
	}

	startTime := time.Now()

	// SCAN 迭代，直到游标返回 0
	for {
		keys, nextCursor, err := r.redisClient.Scan(ctx, cursor, matchPattern, scanCount).Result()
		if err != nil {
			r.logger.Error("执行 Redis SCAN 命令失败",
				zap.Error(err),
				zap.Uint64("cursor", cursor),
				zap.String("pattern", matchPattern),
			)
			return nil, fmt.Errorf("扫描 Redis Keys 失败 (模式: %s): %w", matchPattern, err)
		}

		if len(keys) > 0 {
			values, mgetErr := r.redisClient.MGet(ctx, keys...).Result()
			if mgetErr != nil {
				r.logger.Error("执行 Redis MGET 命令批量获取浏览量失败",
					zap.Error(mgetErr),
					zap.Strings("keys_in_batch", keys),
				)
				return nil, fmt.Errorf("批量获取浏览量值失败 (%d keys): %w", len(keys), mgetErr)
			}

			for i, key := range keys {
				topicIDStr := strings.TrimPrefix(key, constant.TopicVisitCountPrefix)
				topicID, parseErr := strconv.ParseUint(topicIDStr, 10, 64)
				if parseErr != nil {
					r.logger.Error("从 Redis Key 解析 TopicID 失败，已跳过该 Key。",
						zap.Error(parseErr),
						zap.String("key", key),
					)
					continue
				}

				visitCount := int64(0)
				if i < len(values) && values[i] != nil {
					if valueStr, ok := values[i].(string); ok && valueStr != "" {
						parsedCount, parseCountErr := strconv.ParseInt(valueStr, 10, 64)
						if parseCountErr != nil {
							r.logger.Error("解析 Redis 中的浏览量值失败，该话题浏览量将视为 0。",
								zap.Error(parseCountErr),
								zap.String("key", key),
								zap.String("value_str", valueStr),
							)
						} else {
							visitCount = parsedCount
						}
					}
				}
				visitCounts[topicID] = visitCount
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	r.logger.Info("扫描 Redis 话题浏览量完成",
		zap.Int("count", len(visitCounts)),
		zap.Duration("duration", time.Since(startTime)),
	)
	return visitCounts, nil
}
