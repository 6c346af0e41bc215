package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	commonentities "github.com/Xushengqwer/go-common/models/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/topic_service/models/entities"
)

func makeTopic(id uint64) *entities.Topic {
	return &entities.Topic{
		BaseModel: commonentities.BaseModel{ID: id},
		Title:     "测试话题",
		Type:      entities.TopicTypeImage,
	}
}

// 等待条件成立，用于断言旁路的计数写入最终发生
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("条件在超时前未满足")
}

func TestToggleLike_FirstLike(t *testing.T) {
	var userDelta, topicDelta atomic.Int64
	var likeCreated atomic.Int64

	topicRepo := &mockTopicRepo{
		GetTopicByIDFn: func(ctx context.Context, id uint64) (*entities.Topic, error) {
			return makeTopic(id), nil
		},
		IncrLikeCountFn: func(ctx context.Context, topicID uint64, delta int64) error {
			topicDelta.Add(delta)
			return nil
		},
	}
	likeRepo := &mockLikeRepo{
		GetTopicLikeFn: func(ctx context.Context, userID string, topicID uint64) (*entities.TopicLike, error) {
			return nil, nil // 尚无喜欢关系
		},
		CreateTopicLikeFn: func(ctx context.Context, userID string, topicID uint64) error {
			likeCreated.Add(1)
			return nil
		},
	}
	userRepo := &mockUserRepo{
		IncrLikeImageCountFn: func(ctx context.Context, userID string, delta int64) error {
			userDelta.Add(delta)
			return nil
		},
	}

	svc := NewLikeService(topicRepo, likeRepo, userRepo, newTestLogger(t))
	result, err := svc.ToggleLike(context.Background(), "user-1", 42)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.Liked)
	assert.Equal(t, int64(1), likeCreated.Load())

	// 计数写入与关系插入并发，响应返回时可能尚未落地
	waitFor(t, func() bool { return userDelta.Load() == 1 && topicDelta.Load() == 1 })
}

func TestToggleLike_Unlike(t *testing.T) {
	var userDelta, topicDelta atomic.Int64

	topicRepo := &mockTopicRepo{
		GetTopicByIDFn: func(ctx context.Context, id uint64) (*entities.Topic, error) {
			return makeTopic(id), nil
		},
		IncrLikeCountFn: func(ctx context.Context, topicID uint64, delta int64) error {
			topicDelta.Add(delta)
			return nil
		},
	}
	likeRepo := &mockLikeRepo{
		GetTopicLikeFn: func(ctx context.Context, userID string, topicID uint64) (*entities.TopicLike, error) {
			return &entities.TopicLike{UserID: userID, TopicID: topicID}, nil
		},
		DeleteTopicLikeFn: func(ctx context.Context, userID string, topicID uint64) (int64, error) {
			return 1, nil
		},
	}
	userRepo := &mockUserRepo{
		IncrLikeImageCountFn: func(ctx context.Context, userID string, delta int64) error {
			userDelta.Add(delta)
			return nil
		},
	}

	svc := NewLikeService(topicRepo, likeRepo, userRepo, newTestLogger(t))
	result, err := svc.ToggleLike(context.Background(), "user-1", 42)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.False(t, result.Liked)

	// 两笔递减在删除确认后才发出
	waitFor(t, func() bool { return userDelta.Load() == -1 && topicDelta.Load() == -1 })
}

func TestToggleLike_UnlikeAlreadyRemoved(t *testing.T) {
	var counterCalls atomic.Int64

	topicRepo := &mockTopicRepo{
		GetTopicByIDFn: func(ctx context.Context, id uint64) (*entities.Topic, error) {
			return makeTopic(id), nil
		},
		IncrLikeCountFn: func(ctx context.Context, topicID uint64, delta int64) error {
			counterCalls.Add(1)
			return nil
		},
	}
	likeRepo := &mockLikeRepo{
		GetTopicLikeFn: func(ctx context.Context, userID string, topicID uint64) (*entities.TopicLike, error) {
			return &entities.TopicLike{UserID: userID, TopicID: topicID}, nil
		},
		DeleteTopicLikeFn: func(ctx context.Context, userID string, topicID uint64) (int64, error) {
			return 0, nil // 并发窗口内已被他处删除
		},
	}
	userRepo := &mockUserRepo{
		IncrLikeImageCountFn: func(ctx context.Context, userID string, delta int64) error {
			counterCalls.Add(1)
			return nil
		},
	}

	svc := NewLikeService(topicRepo, likeRepo, userRepo, newTestLogger(t))
	result, err := svc.ToggleLike(context.Background(), "user-1", 42)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.True(t, result.Liked)

	// 软冲突不触发任何计数写入
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(0), counterCalls.Load())
}

func TestToggleLike_TopicNotFound(t *testing.T) {
	topicRepo := &mockTopicRepo{
		GetTopicByIDFn: func(ctx context.Context, id uint64) (*entities.Topic, error) {
			return nil, commonerrors.ErrRepoNotFound
		},
	}

	svc := NewLikeService(topicRepo, &mockLikeRepo{}, &mockUserRepo{}, newTestLogger(t))
	result, err := svc.ToggleLike(context.Background(), "user-1", 404)

	require.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
	assert.Nil(t, result)
}

func TestToggleLike_SaveFails(t *testing.T) {
	saveErr := errors.New("唯一索引冲突")

	topicRepo := &mockTopicRepo{
		GetTopicByIDFn: func(ctx context.Context, id uint64) (*entities.Topic, error) {
			return makeTopic(id), nil
		},
	}
	likeRepo := &mockLikeRepo{
		GetTopicLikeFn: func(ctx context.Context, userID string, topicID uint64) (*entities.TopicLike, error) {
			return nil, nil
		},
		CreateTopicLikeFn: func(ctx context.Context, userID string, topicID uint64) error {
			return saveErr
		},
	}

	svc := NewLikeService(topicRepo, likeRepo, &mockUserRepo{}, newTestLogger(t))
	result, err := svc.ToggleLike(context.Background(), "user-1", 42)

	// 主写入失败让整个请求报错；已并发发出的计数递增不回滚
	require.ErrorIs(t, err, saveErr)
	assert.Nil(t, result)
}
