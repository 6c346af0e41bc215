package service

import (
	"context"
	"database/sql"
	"testing"

	commonconfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/topic_service/models/entities"
)

// newTestLogger 构造一个使用默认配置的日志器，测试里只关心不 panic。
func newTestLogger(t *testing.T) *core.ZapLogger {
	t.Helper()
	logger, err := core.NewZapLogger(commonconfig.ZapConfig{})
	require.NoError(t, err)
	return logger
}

// 各仓库的函数字段式测试替身：未设置的方法返回零值，
// 测试按需注入行为并在内部做计数。

type mockTopicRepo struct {
	CreateTopicFn           func(ctx context.Context, topic *entities.Topic) error
	GetTopicByIDFn          func(ctx context.Context, id uint64) (*entities.Topic, error)
	SaveTopicFn             func(ctx context.Context, topic *entities.Topic) error
	ListTopicsFn            func(ctx context.Context, topicType entities.TopicType, forum string, offset, limit int) ([]*entities.Topic, error)
	ListImageTopicsBeforeFn func(ctx context.Context, sinceID uint64, limit int) ([]*entities.Topic, error)
	IncrLikeCountFn         func(ctx context.Context, topicID uint64, delta int64) error
	IncrGetedCountFn        func(ctx context.Context, topicID uint64, delta int64) error
	UpdateAuthorInfoFn      func(ctx context.Context, authorID string, username, avatar string) error
}

func (m *mockTopicRepo) CreateTopic(ctx context.Context, topic *entities.Topic) error {
	if m.CreateTopicFn != nil {
		return m.CreateTopicFn(ctx, topic)
	}
	return nil
}

func (m *mockTopicRepo) GetTopicByID(ctx context.Context, id uint64) (*entities.Topic, error) {
	if m.GetTopicByIDFn != nil {
		return m.GetTopicByIDFn(ctx, id)
	}
	return &entities.Topic{}, nil
}

func (m *mockTopicRepo) SaveTopic(ctx context.Context, topic *entities.Topic) error {
	if m.SaveTopicFn != nil {
		return m.SaveTopicFn(ctx, topic)
	}
	return nil
}

func (m *mockTopicRepo) ListTopics(ctx context.Context, topicType entities.TopicType, forum string, offset, limit int) ([]*entities.Topic, error) {
	if m.ListTopicsFn != nil {
		return m.ListTopicsFn(ctx, topicType, forum, offset, limit)
	}
	return nil, nil
}

func (m *mockTopicRepo) ListImageTopicsBefore(ctx context.Context, sinceID uint64, limit int) ([]*entities.Topic, error) {
	if m.ListImageTopicsBeforeFn != nil {
		return m.ListImageTopicsBeforeFn(ctx, sinceID, limit)
	}
	return nil, nil
}

func (m *mockTopicRepo) IncrLikeCount(ctx context.Context, topicID uint64, delta int64) error {
	if m.IncrLikeCountFn != nil {
		return m.IncrLikeCountFn(ctx, topicID, delta)
	}
	return nil
}

func (m *mockTopicRepo) IncrGetedCount(ctx context.Context, topicID uint64, delta int64) error {
	if m.IncrGetedCountFn != nil {
		return m.IncrGetedCountFn(ctx, topicID, delta)
	}
	return nil
}

func (m *mockTopicRepo) UpdateAuthorInfo(ctx context.Context, authorID string, username, avatar string) error {
	if m.UpdateAuthorInfoFn != nil {
		return m.UpdateAuthorInfoFn(ctx, authorID, username, avatar)
	}
	return nil
}

type mockLikeRepo struct {
	GetTopicLikeFn                    func(ctx context.Context, userID string, topicID uint64) (*entities.TopicLike, error)
	CreateTopicLikeFn                 func(ctx context.Context, userID string, topicID uint64) error
	DeleteTopicLikeFn                 func(ctx context.Context, userID string, topicID uint64) (int64, error)
	ListTopicLikesByUserAndTopicIDsFn func(ctx context.Context, userID string, topicIDs []uint64) ([]*entities.TopicLike, error)
}

func (m *mockLikeRepo) GetTopicLike(ctx context.Context, userID string, topicID uint64) (*entities.TopicLike, error) {
	if m.GetTopicLikeFn != nil {
		return m.GetTopicLikeFn(ctx, userID, topicID)
	}
	return nil, nil
}

func (m *mockLikeRepo) CreateTopicLike(ctx context.Context, userID string, topicID uint64) error {
	if m.CreateTopicLikeFn != nil {
		return m.CreateTopicLikeFn(ctx, userID, topicID)
	}
	return nil
}

func (m *mockLikeRepo) DeleteTopicLike(ctx context.Context, userID string, topicID uint64) (int64, error) {
	if m.DeleteTopicLikeFn != nil {
		return m.DeleteTopicLikeFn(ctx, userID, topicID)
	}
	return 1, nil
}

func (m *mockLikeRepo) ListTopicLikesByUserAndTopicIDs(ctx context.Context, userID string, topicIDs []uint64) ([]*entities.TopicLike, error) {
	if m.ListTopicLikesByUserAndTopicIDsFn != nil {
		return m.ListTopicLikesByUserAndTopicIDsFn(ctx, userID, topicIDs)
	}
	return nil, nil
}

type mockBoardRepo struct {
	GetTopicBoardFn    func(ctx context.Context, userID string, topicID uint64) (*entities.TopicBoard, error)
	CreateTopicBoardFn func(ctx context.Context, board *entities.TopicBoard) error
	UpdateTopicBoardFn func(ctx context.Context, id uint64, boardID string, desc sql.NullString) error
}

func (m *mockBoardRepo) GetTopicBoard(ctx context.Context, userID string, topicID uint64) (*entities.TopicBoard, error) {
	if m.GetTopicBoardFn != nil {
		return m.GetTopicBoardFn(ctx, userID, topicID)
	}
	return nil, nil
}

func (m *mockBoardRepo) CreateTopicBoard(ctx context.Context, board *entities.TopicBoard) error {
	if m.CreateTopicBoardFn != nil {
		return m.CreateTopicBoardFn(ctx, board)
	}
	return nil
}

func (m *mockBoardRepo) UpdateTopicBoard(ctx context.Context, id uint64, boardID string, desc sql.NullString) error {
	if m.UpdateTopicBoardFn != nil {
		return m.UpdateTopicBoardFn(ctx, id, boardID, desc)
	}
	return nil
}

type mockUserRepo struct {
	GetUserByUserIDFn    func(ctx context.Context, userID string) (*entities.User, error)
	IncrLikeImageCountFn func(ctx context.Context, userID string, delta int64) error
	IncrGetImageCountFn  func(ctx context.Context, userID string, delta int64) error
	AddTopicScoreFn      func(ctx context.Context, userID string, score int64) error
	UpsertProfileFn      func(ctx context.Context, userID, username, avatar string) error
}

func (m *mockUserRepo) GetUserByUserID(ctx context.Context, userID string) (*entities.User, error) {
	if m.GetUserByUserIDFn != nil {
		return m.GetUserByUserIDFn(ctx, userID)
	}
	return &entities.User{UserID: userID}, nil
}

func (m *mockUserRepo) IncrLikeImageCount(ctx context.Context, userID string, delta int64) error {
	if m.IncrLikeImageCountFn != nil {
		return m.IncrLikeImageCountFn(ctx, userID, delta)
	}
	return nil
}

func (m *mockUserRepo) IncrGetImageCount(ctx context.Context, userID string, delta int64) error {
	if m.IncrGetImageCountFn != nil {
		return m.IncrGetImageCountFn(ctx, userID, delta)
	}
	return nil
}

func (m *mockUserRepo) AddTopicScore(ctx context.Context, userID string, score int64) error {
	if m.AddTopicScoreFn != nil {
		return m.AddTopicScoreFn(ctx, userID, score)
	}
	return nil
}

func (m *mockUserRepo) UpsertProfile(ctx context.Context, userID, username, avatar string) error {
	if m.UpsertProfileFn != nil {
		return m.UpsertProfileFn(ctx, userID, username, avatar)
	}
	return nil
}

// mockEventProducer 领域事件生产者替身
type mockEventProducer struct {
	SendTopicCreatedEventFn  func(ctx context.Context, topic *entities.Topic) error
	SendMentionNotifyEventFn func(ctx context.Context, topicID uint64, authorID string, content string) error
}

func (m *mockEventProducer) SendTopicCreatedEvent(ctx context.Context, topic *entities.Topic) error {
	if m.SendTopicCreatedEventFn != nil {
		return m.SendTopicCreatedEventFn(ctx, topic)
	}
	return nil
}

func (m *mockEventProducer) SendMentionNotifyEvent(ctx context.Context, topicID uint64, authorID string, content string) error {
	if m.SendMentionNotifyEventFn != nil {
		return m.SendMentionNotifyEventFn(ctx, topicID, authorID, content)
	}
	return nil
}
