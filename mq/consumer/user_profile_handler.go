package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/topic_service/models/events"
	"github.com/Xushengqwer/topic_service/repo/mysql"
)

// todo  未配置死信队列

// MessageHandler 定义了处理 Kafka 消息的接口
type MessageHandler interface {
	Handle(ctx context.Context, msg kafka.Message) error
}

// UserProfileHandler 消费用户服务发布的资料变更事件，
// 同步本服务冗余的用户快照（users 表）以及话题上的作者冗余字段。
type UserProfileHandler struct {
	logger    *core.ZapLogger
	userRepo  mysql.UserRepository
	topicRepo mysql.TopicRepository
}

func NewUserProfileHandler(logger *core.ZapLogger, userRepo mysql.UserRepository, topicRepo mysql.TopicRepository) *UserProfileHandler {
	return &UserProfileHandler{
		logger:    logger,
		userRepo:  userRepo,
		topicRepo: topicRepo,
	}
}

func (h *UserProfileHandler) Handle(ctx context.Context, msg kafka.Message) error {
	h.logger.Debug("UserProfileHandler: 开始处理 Kafka 消息", zap.String("topic", msg.Topic))

	var event events.UserProfileUpdatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("UserProfileHandler: 反序列化 Kafka 消息失败", zap.Error(err), zap.ByteString("value", msg.Value))
		return nil // 不重试无法解析的消息
	}

	if event.UserID == "" {
		h.logger.Warn("UserProfileHandler: 事件缺少 user_id，忽略", zap.String("event_id", event.EventID))
		return nil
	}

	h.logger.Info("UserProfileHandler: 成功解析用户资料变更消息",
		zap.String("event_id", event.EventID),
		zap.String("user_id", event.UserID))

	updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 先更新用户快照，再刷新该用户所有话题上的冗余作者字段。
	// 两步非事务：话题冗余字段落后于用户快照是可接受的最终一致。
	if err := h.userRepo.UpsertProfile(updateCtx, event.UserID, event.Username, event.Avatar); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			h.logger.Warn("UserProfileHandler: 尝试更新不存在的用户快照", zap.String("user_id", event.UserID))
			return nil // 不再重试
		}
		h.logger.Error("UserProfileHandler: 更新用户快照失败", zap.Error(err), zap.String("user_id", event.UserID))
		return fmt.Errorf("UserProfileHandler: 调用 UpsertProfile 失败: %w", err)
	}

	if err := h.topicRepo.UpdateAuthorInfo(updateCtx, event.UserID, event.Username, event.Avatar); err != nil {
		h.logger.Error("UserProfileHandler: 刷新话题作者冗余字段失败", zap.Error(err), zap.String("user_id", event.UserID))
		return fmt.Errorf("UserProfileHandler: 调用 UpdateAuthorInfo 失败: %w", err)
	}

	h.logger.Info("UserProfileHandler: 成功同步用户资料", zap.String("user_id", event.UserID))
	return nil
}
