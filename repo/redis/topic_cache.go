package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/topic_service/constant"
	"github.com/Xushengqwer/topic_service/models/entities"
	"github.com/Xushengqwer/topic_service/repo/mysql"
)

// Cache 定义了话题相关的缓存读取接口。
// - 目标: 提供 Redis 缓存层，加速热门话题的访问，减轻数据库压力。
type Cache interface {
	// GetTopicRank 获取指定话题在热榜 ZSet (`HotTopicsRankKey`) 中的排名（0-based, 降序）。
	// - 返回 -1 表示话题不在榜单中。
	GetTopicRank(ctx context.Context, topicID uint64) (int64, error)

	// GetTopicsByRange 从热榜 ZSet 获取指定排名范围内的话题 ID 列表。
	// - start, stop 是基于 0 的排名索引。
	GetTopicsByRange(ctx context.Context, start, stop int64) ([]uint64, error)

	// GetTopics 从 Redis Hash (`TopicsHashKey`) 中批量获取话题实体。
	// - 返回的话题实体中 VisitCount 反映的是缓存刷新时的快照值。
	// - 缓存未命中的 ID 会静默跳过，由调用方决定是否回源。
	GetTopics(ctx context.Context, topicIDs []uint64) ([]*entities.Topic, error)
}

// cacheImpl 是 Cache 接口的 Redis 实现。
type cacheImpl struct {
	topicVisitRepo TopicVisitRepository                 // 依赖浏览仓库获取排名/ID
	topicBatch     mysql.TopicBatchOperationsRepository // 缓存未命中时批量回源
	redisClient    *redis.Client                        // Redis 客户端实例
	logger         *core.ZapLogger                      // 日志记录器实例
}

// NewCache 是 cacheImpl 的构造函数。
func NewCache(
	topicVisitRepo TopicVisitRepository,
	topicBatch mysql.TopicBatchOperationsRepository,
	redisClient *redis.Client,
	logger *core.ZapLogger,
) Cache {
	return &cacheImpl{
		topicVisitRepo: topicVisitRepo,
		topicBatch:     topicBatch,
		redisClient:    redisClient,
		logger:         logger,
	}
}

// GetTopicRank 实现获取话题排名。
// 排名是 0-based，分数越高，排名越靠前 (即 ZREVRANK 的结果)。
func (c *cacheImpl) GetTopicRank(ctx context.Context, topicID uint64) (int64, error) {
	key := constant.HotTopicsRankKey
	member := strconv.FormatUint(topicID, 10)

	rank, err := c.redisClient.ZRevRank(ctx, key, member).Result()
	if err != nil {
		// redis.Nil 表示成员不在 ZSet 中，按接口约定返回 -1 而非错误
		if errors.Is(err, redis.Nil) {
			c.logger.Debug("话题不在热榜 ZSet 中", zap.Uint64("topicID", topicID), zap.String("key", key))
			return -1, nil
		}
		c.logger.Error("从 Redis 获取话题排名失败",
			zap.Error(err),
			zap.Uint64("topicID", topicID),
			zap.String("key", key),
		)
		return -1, fmt.Errorf("获取话题(ID: %d)在热榜(key: %s)中的排名失败: %w", topicID, key, err)
	}

	return rank, nil
}

// GetTopicsByRange 实现按排名范围获取话题 ID。
// start 和 stop 是 0-based 的排名索引，按分数从高到低排列。
func (c *cacheImpl) GetTopicsByRange(ctx context.Context, start, stop int64) ([]uint64, error) {
	key := constant.HotTopicsRankKey

	if start < 0 {
		c.logger.Warn("GetTopicsByRange: start 参数为负数，视为无效请求，返回空列表。",
			zap.Int64("start", start), zap.Int64("stop", stop))
		return []uint64{}, nil
	}
	// stop 为 -1 表示取到 ZSet 末尾
	if start > stop && stop != -1 {
		return []uint64{}, nil
	}

	idStrs, err := c.redisClient.ZRevRange(ctx, key, start, stop).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []uint64{}, nil
		}
		c.logger.Error("从 Redis ZRevRange 按排名范围获取话题 ID 失败",
			zap.Error(err),
			zap.Int64("start", start),
			zap.Int64("stop", stop),
			zap.String("key", key),
		)
		return nil, fmt.Errorf("获取排名 %d-%d 的话题 ID 失败 (key: %s): %w", start, stop, key, err)
	}

	ids := make([]uint64, 0, len(idStrs))
	for _, idStr := range idStrs {
		id, parseErr := strconv.ParseUint(idStr, 10, 64)
		if parseErr != nil {
			// ZSet 成员理论上都是话题 ID，解析失败说明数据被污染，跳过该成员
			c.logger.Warn("解析 ZSet 中的话题 ID 字符串失败，已跳过该 ID。",
				zap.Error(parseErr),
				zap.String("idStr", idStr),
			)
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// GetTopics 实现从 Hash 缓存批量获取话题实体，未命中的 ID 批量回源 MySQL。
func (c *cacheImpl) GetTopics(ctx context.Context, topicIDs []uint64) ([]*entities.Topic, error) {
	if len(topicIDs) == 0 {
		return []*entities.Topic{}, nil
	}

	fields := make([]string, 0, len(topicIDs))
	for _, id := range topicIDs {
		fields = append(fields, strconv.FormatUint(id, 10))
	}

	values, err := c.redisClient.HMGet(ctx, constant.TopicsHashKey, fields...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Error("从 Redis Hash 批量获取话题失败", zap.Error(err), zap.Int("count", len(fields)))
		return nil, fmt.Errorf("批量获取话题缓存失败: %w", err)
	}

	topics := make([]*entities.Topic, 0, len(topicIDs))
	var missedIDs []uint64
	for i, v := range values {
		if v == nil {
			missedIDs = append(missedIDs, topicIDs[i])
			continue
		}
		raw, ok := v.(string)
		if !ok {
			missedIDs = append(missedIDs, topicIDs[i])
			continue
		}
		var topic entities.Topic
		if unmarshalErr := json.Unmarshal([]byte(raw), &topic); unmarshalErr != nil {
			c.logger.Warn("反序列化缓存话题失败，按未命中回源处理",
				zap.Error(unmarshalErr),
				zap.Uint64("topicID", topicIDs[i]),
			)
			missedIDs = append(missedIDs, topicIDs[i])
			continue
		}
		topics = append(topics, &topic)
	}

	// 未命中的部分批量回源 MySQL，不回写缓存（回写由定时任务统一做）
	if len(missedIDs) > 0 {
		fromDB, dbErr := c.topicBatch.GetTopicsByIDs(ctx, missedIDs)
		if dbErr != nil {
			c.logger.Error("缓存未命中回源 MySQL 失败", zap.Error(dbErr), zap.Int("missed", len(missedIDs)))
			return nil, dbErr
		}
		topics = append(topics, fromDB...)
	}

	return topics, nil
}
