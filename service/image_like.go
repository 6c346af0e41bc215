package service

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/topic_service/models/vo"
	"github.com/Xushengqwer/topic_service/pkg/fanout"
	"github.com/Xushengqwer/topic_service/repo/mysql"
)

// LikeService 定义了图片话题"喜欢"开关的业务逻辑接口。
// - 同一个入口承担两种语义: 已存在喜欢关系则取消，不存在则建立。
type LikeService interface {
	// ToggleLike 翻转 (userID, topicID) 的喜欢关系并调整两个冗余计数。
	// - 话题不存在时返回 commonerrors.ErrRepoNotFound。
	// - 并发下取消喜欢时关系已被他处删除，返回 Success=false 且不动任何计数。
	ToggleLike(ctx context.Context, userID string, topicID uint64) (*vo.ToggleLikeVO, error)
}

// likeService 是 LikeService 接口的具体实现。
type likeService struct {
	topicRepo mysql.TopicRepository     // 话题读取与计数写入
	likeRepo  mysql.TopicLikeRepository // 喜欢关系的增删查
	userRepo  mysql.UserRepository      // 用户侧冗余计数写入
	logger    *core.ZapLogger
}

// NewLikeService 是 likeService 的构造函数，通过依赖注入初始化服务实例。
func NewLikeService(topicRepo mysql.TopicRepository, likeRepo mysql.TopicLikeRepository, userRepo mysql.UserRepository, logger *core.ZapLogger) LikeService {
	return &likeService{
		topicRepo: topicRepo,
		likeRepo:  likeRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// likeOutcome 汇合结果通道上的载荷。
type likeOutcome struct {
	result *vo.ToggleLikeVO
	err    error
}

// ToggleLike 实现喜欢开关。
// 计数与关系表各自独立写入: 取消分支先确认删除生效再发起两笔递减，
// 建立分支则在插入的同时并发递增，响应只等主写入完成。
func (s *likeService) ToggleLike(ctx context.Context, userID string, topicID uint64) (*vo.ToggleLikeVO, error) {
	// 1. 主体校验先于任何扇出，话题不存在直接短路
	topic, err := s.topicRepo.GetTopicByID(ctx, topicID)
	if err != nil {
		return nil, err
	}

	// 2. 查现有喜欢关系，决定走哪个分支
	relation, err := s.likeRepo.GetTopicLike(ctx, userID, topicID)
	if err != nil {
		s.logger.Error("查询喜欢关系失败", zap.Error(err), zap.String("user_id", userID), zap.Uint64("topic_id", topicID))
		return nil, err
	}

	done := make(chan likeOutcome, 1)
	co := fanout.NewCoordinator()
	co.OnError(func(opErr error) {
		select {
		case done <- likeOutcome{err: opErr}:
		default:
			// 响应已发出，失败的是旁路计数写入；计数漂移由设计接受，只记日志
			s.logger.Error("喜欢计数旁路写入失败，计数可能漂移",
				zap.Error(opErr),
				zap.String("user_id", userID),
				zap.Uint64("topic_id", topicID))
		}
	})

	if relation != nil {
		// 3. 取消分支: 先删关系，确认删除生效后再递减两个计数。
		//    两笔递减相对响应是 fire-and-forget，响应只等删除完成。
		co.Go("remove_like", func() (interface{}, error) {
			removed, removeErr := s.likeRepo.DeleteTopicLike(ctx, userID, topicID)
			if removeErr != nil {
				return nil, removeErr
			}
			return removed, nil
		})
		co.Join(func(values []interface{}) {
			removed := values[0].(int64)
			if removed == 0 {
				// 并发窗口内关系已被删除，软冲突，不动计数
				s.logger.Warn("取消喜欢时关系已不存在",
					zap.String("user_id", userID), zap.Uint64("topic_id", topicID))
				done <- likeOutcome{result: &vo.ToggleLikeVO{Success: false, Liked: true}}
				return
			}
			co.Go("user_count", func() (interface{}, error) {
				return nil, s.userRepo.IncrLikeImageCount(context.Background(), userID, -1)
			})
			co.Go("topic_count", func() (interface{}, error) {
				return nil, s.topicRepo.IncrLikeCount(context.Background(), topic.ID, -1)
			})
			done <- likeOutcome{result: &vo.ToggleLikeVO{Success: true, Liked: false}}
		}, "remove_like")
	} else {
		// 4. 建立分支: 关系插入与两笔递增并发发出，响应只等插入完成
		co.Go("save_like", func() (interface{}, error) {
			return nil, s.likeRepo.CreateTopicLike(ctx, userID, topicID)
		})
		co.Go("user_count", func() (interface{}, error) {
			return nil, s.userRepo.IncrLikeImageCount(context.Background(), userID, 1)
		})
		co.Go("topic_count", func() (interface{}, error) {
			return nil, s.topicRepo.IncrLikeCount(context.Background(), topic.ID, 1)
		})
		co.Join(func(values []interface{}) {
			done <- likeOutcome{result: &vo.ToggleLikeVO{Success: true, Liked: true}}
		}, "save_like")
	}

	select {
	case out := <-done:
		if out.err != nil {
			s.logger.Error("喜欢开关请求失败", zap.Error(out.err),
				zap.String("user_id", userID), zap.Uint64("topic_id", topicID))
			return nil, out.err
		}
		return out.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
