package service

import (
	"context"
	"database/sql"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/topic_service/models/dto"
	"github.com/Xushengqwer/topic_service/models/entities"
	"github.com/Xushengqwer/topic_service/models/vo"
	"github.com/Xushengqwer/topic_service/pkg/fanout"
	"github.com/Xushengqwer/topic_service/repo/mysql"
)

// ClaimService 定义了"Get 图片"（把图片话题收入自己 Board）的业务逻辑接口。
type ClaimService interface {
	// ClaimImage 把图片话题收入指定 Board。
	// - 首次认领: 并发写入认领记录、用户 get_image_count、话题 geted_count，
	//   三者全部完成后才返回；任何一笔失败整个请求报错，已完成的兄弟写入不回滚。
	// - 换 Board: 仅覆盖原记录的 board_id/desc，不动计数。
	// - 收入同一个 Board: 软冲突，返回 Success=false，无任何写入。
	ClaimImage(ctx context.Context, userID string, req *dto.ClaimImageRequest) (*vo.ClaimImageVO, error)
}

// claimService 是 ClaimService 接口的具体实现。
type claimService struct {
	topicRepo mysql.TopicRepository
	boardRepo mysql.TopicBoardRepository
	userRepo  mysql.UserRepository
	logger    *core.ZapLogger
}

// NewClaimService 是 claimService 的构造函数，通过依赖注入初始化服务实例。
func NewClaimService(topicRepo mysql.TopicRepository, boardRepo mysql.TopicBoardRepository, userRepo mysql.UserRepository, logger *core.ZapLogger) ClaimService {
	return &claimService{
		topicRepo: topicRepo,
		boardRepo: boardRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

type claimOutcome struct {
	result *vo.ClaimImageVO
	err    error
}

// ClaimImage 实现收图流程。
func (s *claimService) ClaimImage(ctx context.Context, userID string, req *dto.ClaimImageRequest) (*vo.ClaimImageVO, error) {
	// 1. 主体校验先于任何扇出
	topic, err := s.topicRepo.GetTopicByID(ctx, req.TopicID)
	if err != nil {
		return nil, err
	}

	// 2. 查既有认领记录
	record, err := s.boardRepo.GetTopicBoard(ctx, userID, req.TopicID)
	if err != nil {
		s.logger.Error("查询认领记录失败", zap.Error(err),
			zap.String("user_id", userID), zap.Uint64("topic_id", req.TopicID))
		return nil, err
	}

	// 3. 收入同一个 Board: 软冲突，不产生任何写入。
	//    比较只看 board_id，desc 的变化不触发更新（与既有行为保持一致）。
	if record != nil && record.BoardID == req.BoardID {
		s.logger.Warn("重复收入同一 Board，忽略",
			zap.String("user_id", userID),
			zap.Uint64("topic_id", req.TopicID),
			zap.String("board_id", req.BoardID))
		return &vo.ClaimImageVO{Success: false, TopicID: topic.ID}, nil
	}

	desc := sql.NullString{String: req.Desc, Valid: req.Desc != ""}

	done := make(chan claimOutcome, 1)
	co := fanout.NewCoordinator()
	co.OnError(func(opErr error) {
		select {
		case done <- claimOutcome{err: opErr}:
		default:
			s.logger.Error("收图子操作在响应后报错", zap.Error(opErr),
				zap.String("user_id", userID), zap.Uint64("topic_id", req.TopicID))
		}
	})

	if record != nil {
		// 4. 换 Board: 覆盖原记录，只等这一笔写入
		co.Go("save_record", func() (interface{}, error) {
			return nil, s.boardRepo.UpdateTopicBoard(ctx, record.ID, req.BoardID, desc)
		})
		co.Join(func(values []interface{}) {
			done <- claimOutcome{result: &vo.ClaimImageVO{Success: true, TopicID: topic.ID}}
		}, "save_record")
	} else {
		// 5. 首次认领: 三路并发写，响应等全部完成。
		//    三笔写入彼此独立提交，记录创建失败不会回滚已完成的计数递增。
		co.Go("save_record", func() (interface{}, error) {
			board := &entities.TopicBoard{
				UserID:  userID,
				TopicID: req.TopicID,
				BoardID: req.BoardID,
				Desc:    desc,
			}
			return nil, s.boardRepo.CreateTopicBoard(ctx, board)
		})
		co.Go("user_count", func() (interface{}, error) {
			return nil, s.userRepo.IncrGetImageCount(context.Background(), userID, 1)
		})
		co.Go("topic_count", func() (interface{}, error) {
			return nil, s.topicRepo.IncrGetedCount(context.Background(), topic.ID, 1)
		})
		co.Join(func(values []interface{}) {
			done <- claimOutcome{result: &vo.ClaimImageVO{Success: true, TopicID: topic.ID}}
		}, "save_record", "user_count", "topic_count")
	}

	select {
	case out := <-done:
		if out.err != nil {
			s.logger.Error("收图请求失败", zap.Error(out.err),
				zap.String("user_id", userID), zap.Uint64("topic_id", req.TopicID))
			return nil, out.err
		}
		return out.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
