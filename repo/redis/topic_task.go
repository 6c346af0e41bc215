package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/topic_service/constant"
	"github.com/Xushengqwer/topic_service/models/entities"
	"github.com/Xushengqwer/topic_service/repo/mysql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// TopicTaskCache 定义了后台任务管理和维护话题相关缓存的操作接口。
type TopicTaskCache interface {
	// CreateHotList 原子性地从总排行榜 (`TopicsRankKey`) 截取前 N 条记录，生成/覆盖热榜 (`HotTopicsRankKey`)。
	// 此方法负责生成后续缓存方法所依赖的热榜快照。
	CreateHotList(ctx context.Context, n int) error

	// CacheHotTopicsToRedis 将MySQL中的热门话题数据加载到redis中
	CacheHotTopicsToRedis(ctx context.Context) error
}

// topicTaskCacheImpl 是 TopicTaskCache 接口的 Redis 实现。
type topicTaskCacheImpl struct {
	redisClient *redis.Client
	logger      *core.ZapLogger
	topicBatch  mysql.TopicBatchOperationsRepository
}

// NewTopicTaskCacheImpl 创建 TopicTaskCache 的新实例。
func NewTopicTaskCacheImpl(
	redisClient *redis.Client,
	logger *core.ZapLogger,
	topicBatch mysql.TopicBatchOperationsRepository,
) TopicTaskCache {
	return &topicTaskCacheImpl{
		redisClient: redisClient,
		logger:      logger,
		topicBatch:  topicBatch,
	}
}

// CreateHotList 原子性地从总排行榜截取前 N 条记录，生成或覆盖热榜。
func (c *topicTaskCacheImpl) CreateHotList(ctx context.Context, n int) error {
	if n <= 0 {
		c.logger.Info("CreateHotList: 请求创建的热榜大小 n 小于或等于 0，操作取消。", zap.Int("n", n))
		return nil
	}

	fullRankKey := constant.TopicsRankKey
	hotListKey := constant.HotTopicsRankKey

	c.logger.Info("开始创建/更新热榜快照",
		zap.String("sourceKey", fullRankKey),
		zap.String("destinationKey", hotListKey),
		zap.Int("size_n", n),
	)

	// ZREVRANGE WITHSCORES 返回 {member1, score1, ...}，而 ZADD 需要 {score1, member1, ...}，
	// 因此在 Lua 中重新构造参数列表。
	luaScript := redis.NewScript(`
		-- KEYS[1]: source ZSet (total rank)
		-- KEYS[2]: destination ZSet (hot list)
		-- ARGV[1]: number of items to copy (n)

		local items_with_scores = redis.call("ZREVRANGE", KEYS[1], 0, tonumber(ARGV[1]) - 1, "WITHSCORES")
		redis.call("DEL", KEYS[2])

		if #items_with_scores > 0 then
			local args_for_zadd = { KEYS[2] }
			for i = 1, #items_with_scores, 2 do
				-- items_with_scores[i] is member, items_with_scores[i+1] is score
				table.insert(args_for_zadd, items_with_scores[i+1])
				table.insert(args_for_zadd, items_with_scores[i])
			end
			redis.call("ZADD", unpack(args_for_zadd))
		end
		return #items_with_scores / 2
	`)

	_, err := luaScript.Run(ctx, c.redisClient, []string{fullRankKey, hotListKey}, n).Result()
	if err != nil {
		c.logger.Error("执行 Lua 脚本创建热榜快照失败",
			zap.Error(err),
			zap.String("sourceKey", fullRankKey),
			zap.String("destinationKey", hotListKey),
			zap.Int("n", n),
		)
		return fmt.Errorf("创建热榜快照 (Top %d) 失败: %w", n, err)
	}

	c.logger.Info("成功创建/更新热榜快照",
		zap.String("key", hotListKey),
		zap.Int("requested_size_n", n),
	)
	return nil
}

// CacheHotTopicsToRedis 将热门话题缓存到 Redis Hash。
func (c *topicTaskCacheImpl) CacheHotTopicsToRedis(ctx context.Context) error {
	startTime := time.Now()
	c.logger.Info("开始同步热门话题到 Redis Hash (采用临时Key+RENAME策略)")

	hotListKey := constant.HotTopicsRankKey
	finalHashKey := constant.TopicsHashKey
	tempHashKey := finalHashKey + "_temp_" + strconv.FormatInt(time.Now().UnixNano(), 10)

	topicScores, err := c.redisClient.ZRevRangeWithScores(ctx, hotListKey, 0, int64(constant.HotTopicsCacheSize-1)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.logger.Info("热榜 ZSet (快照) 为空，将清空话题 Hash 缓存", zap.String("hashKeyToClear", finalHashKey))
			if delErr := c.redisClient.Del(ctx, finalHashKey).Err(); delErr != nil {
				c.logger.Error("清空话题 Hash 缓存失败", zap.Error(delErr), zap.String("key", finalHashKey))
			}
			return nil
		}
		c.logger.Error("从热榜 ZSet (快照) 获取话题分数失败", zap.Error(err), zap.String("key", hotListKey))
		return fmt.Errorf("获取热榜 ZSet (快照) 失败: %w", err)
	}

	currentHotTopicIDs := make([]uint64, 0, len(topicScores))
	currentScoreMap := make(map[string]float64) // Key: topicID string, Value: score (visitCount from snapshot)
	for _, z := range topicScores {
		idStr, ok := z.Member.(string)
		if !ok {
			errMsg := fmt.Sprintf("热榜 ZSet (key: %s) 成员类型非字符串 (member: %v)，数据异常", hotListKey, z.Member)
			c.logger.Error(errMsg)
			return errors.New(errMsg)
		}
		id, parseErr := strconv.ParseUint(idStr, 10, 64)
		if parseErr != nil {
			errMsg := fmt.Sprintf("解析热榜 ZSet (key: %s) 成员 ID '%s' 失败: %v，数据异常", hotListKey, idStr, parseErr)
			c.logger.Error(errMsg)
			return errors.New(errMsg)
		}
		currentHotTopicIDs = append(currentHotTopicIDs, id)
		currentScoreMap[idStr] = z.Score
	}

	if len(currentHotTopicIDs) == 0 {
		c.logger.Info("热榜 ZSet (快照) 中没有有效话题 ID，将清空话题 Hash 缓存", zap.String("hashKeyToClear", finalHashKey))
		if delErr := c.redisClient.Del(ctx, finalHashKey).Err(); delErr != nil {
			c.logger.Error("清空话题 Hash 缓存失败", zap.Error(delErr), zap.String("key", finalHashKey))
		}
		return nil
	}
	c.logger.Debug("从热榜 ZSet (快照) 解析完成", zap.Int("hotTopicCount", len(currentHotTopicIDs)))

	topicsFromDB, dbErr := c.topicBatch.GetTopicsByIDs(ctx, currentHotTopicIDs)
	if dbErr != nil {
		c.logger.Error("从 MySQL 批量获取热门话题失败，本次缓存更新中止，现有缓存将保留。",
			zap.Error(dbErr), zap.Int("idCount", len(currentHotTopicIDs)))
		return fmt.Errorf("从数据库获取话题数据失败: %w", dbErr)
	}
	c.logger.Debug("从 MySQL 获取热门话题数据成功", zap.Int("fetchedCount", len(topicsFromDB)))

	dataToCache := make(map[string]interface{})
	marshalErrors := 0
	dbTopicsMap := make(map[uint64]*entities.Topic)
	for _, t := range topicsFromDB {
		dbTopicsMap[t.ID] = t
	}

	for _, hotID := range currentHotTopicIDs {
		idStr := fmt.Sprintf("%d", hotID)
		topic, foundInDB := dbTopicsMap[hotID]
		if !foundInDB {
			c.logger.Warn("热榜中的 TopicID 在数据库中未找到，无法缓存该话题", zap.Uint64("topicID", hotID))
			continue
		}
		topicToCache := *topic
		if score, scoreExists := currentScoreMap[idStr]; scoreExists {
			topicToCache.VisitCount = int64(score) // 使用 ZSet 快照中的分数作为浏览量
		} else {
			c.logger.Error("严重数据不一致：热榜 ZSet (快照) 分数中未找到 TopicID，将使用DB中的VisitCount",
				zap.Uint64("topicID", hotID), zap.String("zsetKey", hotListKey))
			// 保持 topicToCache.VisitCount 为从 DB 读取的值
		}
		jsonData, jsonErr := json.Marshal(topicToCache)
		if jsonErr != nil {
			c.logger.Error("序列化话题实体失败，跳过该话题", zap.Error(jsonErr), zap.Uint64("topicID", topicToCache.ID))
			marshalErrors++
			continue
		}
		dataToCache[idStr] = jsonData
	}

	if len(dataToCache) == 0 {
		c.logger.Error("未能准备任何有效的话题数据进行缓存 (DB未找到或序列化失败)，现有缓存将保留。",
			zap.Int("hotIDsFromZset", len(currentHotTopicIDs)),
			zap.Int("dbTopicsFetched", len(topicsFromDB)),
			zap.Int("marshalErrors", marshalErrors),
		)
		return errors.New("未能准备有效的话题数据进行缓存，操作中止")
	}

	pipe := c.redisClient.Pipeline()
	pipe.Del(ctx, tempHashKey)
	if hmSetCmdErr := pipe.HMSet(ctx, tempHashKey, dataToCache).Err(); hmSetCmdErr != nil {
		c.logger.Error("构造 HMSet 命令到 Pipeline 失败", zap.Error(hmSetCmdErr), zap.String("tempHashKey", tempHashKey))
		c.redisClient.Del(ctx, tempHashKey)
		return fmt.Errorf("构造 HMSet 命令 (key: %s) 失败: %w", tempHashKey, hmSetCmdErr)
	}
	_, execErr := pipe.Exec(ctx)
	if execErr != nil {
		c.logger.Error("执行 Redis Pipeline (写入临时 Hash) 失败，现有缓存将保留。",
			zap.Error(execErr), zap.String("tempHashKey", tempHashKey))
		c.redisClient.Del(ctx, tempHashKey)
		return fmt.Errorf("写入临时话题 Hash 缓存 (key: %s) 失败: %w", tempHashKey, execErr)
	}

	if renameErr := c.redisClient.Rename(ctx, tempHashKey, finalHashKey).Err(); renameErr != nil {
		c.logger.Error("执行 Redis RENAME (temp 到 final Hash) 失败，新缓存可能在临时Key中，现有缓存可能仍存在。",
			zap.Error(renameErr),
			zap.String("tempHashKey", tempHashKey),
			zap.String("finalHashKey", finalHashKey),
		)
		c.redisClient.Del(ctx, tempHashKey)
		return fmt.Errorf("重命名临时 Hash (key: %s) 到最终 Hash (key: %s) 失败: %w", tempHashKey, finalHashKey, renameErr)
	}

	c.logger.Info("成功将热门话题同步到 Redis Hash (采用临时Key+RENAME策略)",
		zap.String("finalHashKey", finalHashKey),
		zap.Int("cachedCount", len(dataToCache)),
		zap.Int("marshalErrors", marshalErrors),
	)

	duration := time.Since(startTime)
	c.logger.Info("完成同步热门话题到 Redis Hash 任务", zap.Duration("duration", duration))
	return nil
}
