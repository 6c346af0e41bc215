package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/topic_service/models/vo"
	"github.com/Xushengqwer/topic_service/myErrors"
	"github.com/Xushengqwer/topic_service/repo/redis"
)

// HotTopicServiceInterface 定义了热门话题榜单查询的业务逻辑接口。
type HotTopicServiceInterface interface {
	GetHotTopicsByCursor(ctx context.Context, lastTopicID *uint64, limit int) ([]*vo.TopicResponse, *uint64, error)
}

// HotTopicService 是 HotTopicServiceInterface 的具体实现。
// - 全部读取走 Redis 缓存（热榜 ZSet + 话题 Hash），由后台任务定时刷新。
type HotTopicService struct {
	topicCache redis.Cache // 话题缓存读取接口
	logger     *core.ZapLogger
}

// NewHotTopicService 是 HotTopicService 的构造函数。
func NewHotTopicService(
	topicCache redis.Cache,
	logger *core.ZapLogger,
) *HotTopicService {
	return &HotTopicService{
		topicCache: topicCache,
		logger:     logger,
	}
}

// GetHotTopicsByCursor 实现游标方式获取热门话题列表。
// - lastTopicID: 上一页最后一条话题的 ID，为 nil 表示首次加载。
// - limit: 希望获取的话题数量。
// - 返回: 话题列表, 下一页游标, 错误。
func (s *HotTopicService) GetHotTopicsByCursor(ctx context.Context, lastTopicID *uint64, limit int) ([]*vo.TopicResponse, *uint64, error) {
	var start int64 // ZSet 范围查询的起始排名 (0-based)

	if limit <= 0 {
		s.logger.Warn("GetHotTopicsByCursor: 请求的 limit 小于或等于0", zap.Int("limit", limit))
		return []*vo.TopicResponse{}, nil, errors.New("limit 参数必须大于0")
	}

	if lastTopicID == nil { // 首次加载
		start = 0
		s.logger.Debug("热门话题首次加载 (游标分页)", zap.Int("limit", limit))
	} else { // 非首次加载，根据 lastTopicID 计算 start
		rank, err := s.topicCache.GetTopicRank(ctx, *lastTopicID)
		if err != nil {
			s.logger.Error("获取上一页最后话题排名失败 (游标分页)", zap.Error(err), zap.Uint64p("lastTopicID", lastTopicID))
			return nil, nil, fmt.Errorf("获取话题排名失败: %w", err)
		}
		if rank == -1 { // 游标话题已不在榜单中
			s.logger.Warn("游标 lastTopicID 已不在热榜中 (游标分页)", zap.Uint64p("lastTopicID", lastTopicID))
			// 返回哨兵错误，让客户端决定如何响应（例如提示刷新或从头加载）。
			return nil, nil, fmt.Errorf("提供的游标话题(ID: %d)已不在热门榜单中: %w", *lastTopicID, myErrors.ErrCacheMiss)
		}
		start = rank + 1 // 下一页从上一页最后一条的下一名开始
		s.logger.Debug("热门话题分页加载", zap.Uint64p("lastTopicID", lastTopicID), zap.Int64("startRank", start), zap.Int("limit", limit))
	}

	stop := start + int64(limit) - 1 // 计算 ZSet 查询的结束排名

	// 从热榜 ZSet 获取指定排名范围内的话题 ID 列表。
	topicIDs, err := s.topicCache.GetTopicsByRange(ctx, start, stop)
	if err != nil {
		s.logger.Error("从缓存按排名范围获取话题 ID 失败 (游标分页)", zap.Error(err), zap.Int64("start", start), zap.Int64("stop", stop))
		return nil, nil, fmt.Errorf("获取话题 ID 列表失败: %w", err)
	}

	if len(topicIDs) == 0 { // 未获取到任何 ID（可能已到达列表末尾或该范围无数据）
		s.logger.Info("按排名范围未获取到话题 ID (游标分页)，可能已到末尾", zap.Int64("start", start), zap.Int64("stop", stop))
		return []*vo.TopicResponse{}, nil, nil // 返回空列表和 nil 游标，表示没有更多数据
	}

	// 根据获取到的 topicIDs 列表，从 Redis Hash 缓存中批量获取话题实体数据。
	topics, err := s.topicCache.GetTopics(ctx, topicIDs)
	if err != nil {
		s.logger.Error("从缓存批量获取话题实体失败 (游标分页)", zap.Error(err), zap.Any("topicIDs", topicIDs))
		return nil, nil, fmt.Errorf("获取话题数据失败: %w", err)
	}
	// GetTopics 可能因部分 ID 缓存未命中而回源，返回数量以 ZSet 的 ID 数为准。

	topicResponses := vo.MapTopicsToTopicResponsesVO(topics, nil)

	// 确定下一页的游标。
	// 游标取自 topicIDs（来自 ZSet）的最后一个 ID，因为实体列表可能因部分未命中而更短。
	var nextCursor *uint64
	if len(topicIDs) == limit && len(topicResponses) > 0 {
		lastReturnedID := topicIDs[len(topicIDs)-1]
		nextCursor = &lastReturnedID
		s.logger.Debug("确定下一页游标 (游标分页)", zap.Uint64("nextCursor", *nextCursor))
	} else {
		nextCursor = nil
		s.logger.Debug("已到达热门话题列表末尾 (游标分页)")
	}

	return topicResponses, nextCursor, nil
}
